package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexivon/lexivon-backend/internal/adapter/postgres/catalog"
	"github.com/lexivon/lexivon-backend/internal/adapter/postgres/testhelper"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

func TestRepo_ListCoursesByClass_Ordering(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := catalog.New(pool)
	ctx := context.Background()

	class := testhelper.SeedClass(t, pool, 0)
	second := testhelper.SeedCourse(t, pool, class.ID, 2)
	first := testhelper.SeedCourse(t, pool, class.ID, 1)

	// duplicate order_index resolves by id
	tieA := testhelper.SeedCourse(t, pool, class.ID, 5)
	tieB := testhelper.SeedCourse(t, pool, class.ID, 5)
	tieFirst, tieSecond := tieA, tieB
	if tieB.ID.String() < tieA.ID.String() {
		tieFirst, tieSecond = tieB, tieA
	}

	courses, err := repo.ListCoursesByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, courses, 4)
	assert.Equal(t, first.ID, courses[0].ID)
	assert.Equal(t, second.ID, courses[1].ID)
	assert.Equal(t, tieFirst.ID, courses[2].ID)
	assert.Equal(t, tieSecond.ID, courses[3].ID)
}

func TestRepo_GetExercise(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := catalog.New(pool)
	ctx := context.Background()

	chain := testhelper.SeedChain(t, pool, 1)
	seeded := chain.Exercises[0]

	got, err := repo.GetExercise(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Answer, got.Answer)
	assert.Equal(t, seeded.LevelID, got.LevelID)
	assert.Equal(t, seeded.CourseID, got.CourseID)
	assert.True(t, got.Category.IsValid())

	_, err = repo.GetExercise(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_CountExercises(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := catalog.New(pool)
	ctx := context.Background()

	chain := testhelper.SeedChain(t, pool, 3)

	byLevel, err := repo.CountExercisesByLevel(ctx, chain.Level.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, byLevel)

	byCourse, err := repo.CountExercisesByCourse(ctx, chain.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, byCourse)

	empty, err := repo.CountExercisesByLevel(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestRepo_Stats(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := catalog.New(pool)
	ctx := context.Background()

	testhelper.SeedChain(t, pool, 2)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalClasses, 1)
	assert.GreaterOrEqual(t, stats.TotalCourses, 1)
	assert.GreaterOrEqual(t, stats.TotalLevels, 1)
	assert.GreaterOrEqual(t, stats.TotalExercises, 2)
	assert.GreaterOrEqual(t, stats.TotalCategories, 1)
}

func TestRepo_CreateChain(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := catalog.New(pool)
	ctx := context.Background()

	class := domain.Class{
		ID: uuid.New(), Name: "Fillestar", OrderIndex: 0, RequiredScore: 80, Enabled: true,
	}
	require.NoError(t, repo.CreateClass(ctx, class))

	course := domain.Course{
		ID: uuid.New(), ClassID: class.ID, Name: "Fjalor bazë",
		Category: domain.CategoryVocabulary, OrderIndex: 0, RequiredScore: 80, Enabled: true,
	}
	require.NoError(t, repo.CreateCourse(ctx, course))

	level := domain.Level{
		ID: uuid.New(), CourseID: course.ID, Name: "Niveli 1", OrderIndex: 0, RequiredScore: 80, Enabled: true,
	}
	require.NoError(t, repo.CreateLevel(ctx, level))

	ex := domain.Exercise{
		ID: uuid.New(), CourseID: course.ID, LevelID: level.ID,
		Category: domain.CategoryVocabulary, Prompt: "Translate: house",
		Answer: "shtëpi", Points: 10, OrderIndex: 0, Enabled: true,
	}
	require.NoError(t, repo.CreateExercise(ctx, ex))

	got, err := repo.GetExercise(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "shtëpi", got.Answer)

	// dangling level foreign key maps to not found
	bad := ex
	bad.ID = uuid.New()
	bad.LevelID = uuid.New()
	err = repo.CreateExercise(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
