// Package catalog implements the class/course/level/exercise repository
// using PostgreSQL. All chain listings order by (order_index, id) so that
// duplicate order_index values resolve deterministically.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides catalog persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const classColumns = `id, name, description, order_index, required_score, enabled, created_at, updated_at`

const listClassesSQL = `
SELECT ` + classColumns + `
FROM classes
WHERE enabled = TRUE
ORDER BY order_index, id`

const getClassSQL = `
SELECT ` + classColumns + `
FROM classes
WHERE id = $1`

const courseColumns = `id, class_id, name, description, category, order_index, required_score, enabled, created_at, updated_at`

const listCoursesByClassSQL = `
SELECT ` + courseColumns + `
FROM courses
WHERE class_id = $1 AND enabled = TRUE
ORDER BY order_index, id`

const getCourseSQL = `
SELECT ` + courseColumns + `
FROM courses
WHERE id = $1`

const levelColumns = `id, course_id, name, description, order_index, required_score, enabled, created_at, updated_at`

const listLevelsByCourseSQL = `
SELECT ` + levelColumns + `
FROM levels
WHERE course_id = $1 AND enabled = TRUE
ORDER BY order_index, id`

const getLevelSQL = `
SELECT ` + levelColumns + `
FROM levels
WHERE id = $1`

const exerciseColumns = `id, course_id, level_id, category, prompt, data, answer, points, order_index, enabled, created_at, updated_at`

const listExercisesByLevelSQL = `
SELECT ` + exerciseColumns + `
FROM exercises
WHERE level_id = $1 AND enabled = TRUE
ORDER BY order_index, id`

const getExerciseSQL = `
SELECT ` + exerciseColumns + `
FROM exercises
WHERE id = $1`

const countExercisesByLevelSQL = `
SELECT COUNT(*) FROM exercises WHERE level_id = $1 AND enabled = TRUE`

const countExercisesByCourseSQL = `
SELECT COUNT(*) FROM exercises WHERE course_id = $1 AND enabled = TRUE`

const statsSQL = `
SELECT
    (SELECT COUNT(*) FROM classes   WHERE enabled = TRUE),
    (SELECT COUNT(*) FROM courses   WHERE enabled = TRUE),
    (SELECT COUNT(*) FROM levels    WHERE enabled = TRUE),
    (SELECT COUNT(*) FROM exercises WHERE enabled = TRUE),
    (SELECT COUNT(DISTINCT category) FROM exercises WHERE enabled = TRUE)`

// ListClasses returns all enabled classes in chain order.
func (r *Repo) ListClasses(ctx context.Context) ([]domain.Class, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listClassesSQL)
	if err != nil {
		return nil, postgres.MapError(err, "class", uuid.Nil)
	}
	defer rows.Close()

	return collect(rows, scanClass, "class")
}

// GetClass returns one class by id, enabled or not.
func (r *Repo) GetClass(ctx context.Context, id uuid.UUID) (domain.Class, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanClass(querier.QueryRow(ctx, getClassSQL, id))
	if err != nil {
		return domain.Class{}, postgres.MapError(err, "class", id)
	}
	return c, nil
}

// ListCoursesByClass returns the enabled courses of a class in chain order.
func (r *Repo) ListCoursesByClass(ctx context.Context, classID uuid.UUID) ([]domain.Course, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listCoursesByClassSQL, classID)
	if err != nil {
		return nil, postgres.MapError(err, "course", uuid.Nil)
	}
	defer rows.Close()

	return collect(rows, scanCourse, "course")
}

// GetCourse returns one course by id, enabled or not.
func (r *Repo) GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanCourse(querier.QueryRow(ctx, getCourseSQL, id))
	if err != nil {
		return domain.Course{}, postgres.MapError(err, "course", id)
	}
	return c, nil
}

// ListLevelsByCourse returns the enabled levels of a course in chain order.
func (r *Repo) ListLevelsByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listLevelsByCourseSQL, courseID)
	if err != nil {
		return nil, postgres.MapError(err, "level", uuid.Nil)
	}
	defer rows.Close()

	return collect(rows, scanLevel, "level")
}

// GetLevel returns one level by id, enabled or not.
func (r *Repo) GetLevel(ctx context.Context, id uuid.UUID) (domain.Level, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanLevel(querier.QueryRow(ctx, getLevelSQL, id))
	if err != nil {
		return domain.Level{}, postgres.MapError(err, "level", id)
	}
	return l, nil
}

// ListExercisesByLevel returns the enabled exercises of a level in chain order.
func (r *Repo) ListExercisesByLevel(ctx context.Context, levelID uuid.UUID) ([]domain.Exercise, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listExercisesByLevelSQL, levelID)
	if err != nil {
		return nil, postgres.MapError(err, "exercise", uuid.Nil)
	}
	defer rows.Close()

	return collect(rows, scanExercise, "exercise")
}

// GetExercise returns one exercise by id, enabled or not.
func (r *Repo) GetExercise(ctx context.Context, id uuid.UUID) (domain.Exercise, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	e, err := scanExercise(querier.QueryRow(ctx, getExerciseSQL, id))
	if err != nil {
		return domain.Exercise{}, postgres.MapError(err, "exercise", id)
	}
	return e, nil
}

// CountExercisesByLevel returns the number of enabled exercises in a level.
func (r *Repo) CountExercisesByLevel(ctx context.Context, levelID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countExercisesByLevelSQL, levelID).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "level", levelID)
	}
	return n, nil
}

// CountExercisesByCourse returns the number of enabled exercises in a course.
func (r *Repo) CountExercisesByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countExercisesByCourseSQL, courseID).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "course", courseID)
	}
	return n, nil
}

// Stats returns public catalog counts.
func (r *Repo) Stats(ctx context.Context) (domain.CatalogStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.CatalogStats
	err := querier.QueryRow(ctx, statsSQL).Scan(
		&s.TotalClasses, &s.TotalCourses, &s.TotalLevels, &s.TotalExercises, &s.TotalCategories)
	if err != nil {
		return domain.CatalogStats{}, postgres.MapError(err, "catalog", uuid.Nil)
	}
	return s, nil
}

const createClassSQL = `
INSERT INTO classes (id, name, description, order_index, required_score, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

const createCourseSQL = `
INSERT INTO courses (id, class_id, name, description, category, order_index, required_score, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

const createLevelSQL = `
INSERT INTO levels (id, course_id, name, description, order_index, required_score, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

const createExerciseSQL = `
INSERT INTO exercises (id, course_id, level_id, category, prompt, data, answer, points, order_index, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

// CreateClass inserts a class row. Used by the seeder and tests.
func (r *Repo) CreateClass(ctx context.Context, c domain.Class) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	_, err := querier.Exec(ctx, createClassSQL,
		c.ID, c.Name, c.Description, c.OrderIndex, c.RequiredScore, c.Enabled, now)
	return postgres.MapError(err, "class", c.ID)
}

// CreateCourse inserts a course row.
func (r *Repo) CreateCourse(ctx context.Context, c domain.Course) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	_, err := querier.Exec(ctx, createCourseSQL,
		c.ID, c.ClassID, c.Name, c.Description, string(c.Category), c.OrderIndex,
		c.RequiredScore, c.Enabled, now)
	return postgres.MapError(err, "course", c.ID)
}

// CreateLevel inserts a level row.
func (r *Repo) CreateLevel(ctx context.Context, l domain.Level) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	_, err := querier.Exec(ctx, createLevelSQL,
		l.ID, l.CourseID, l.Name, l.Description, l.OrderIndex, l.RequiredScore, l.Enabled, now)
	return postgres.MapError(err, "level", l.ID)
}

// CreateExercise inserts an exercise row.
func (r *Repo) CreateExercise(ctx context.Context, e domain.Exercise) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	_, err := querier.Exec(ctx, createExerciseSQL,
		e.ID, e.CourseID, e.LevelID, string(e.Category), e.Prompt, e.Data,
		e.Answer, e.Points, e.OrderIndex, e.Enabled, now)
	return postgres.MapError(err, "exercise", e.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (domain.Class, error) {
	var c domain.Class
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OrderIndex, &c.RequiredScore,
		&c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var (
		c        domain.Course
		category string
	)
	err := row.Scan(&c.ID, &c.ClassID, &c.Name, &c.Description, &category,
		&c.OrderIndex, &c.RequiredScore, &c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Course{}, err
	}
	c.Category = domain.ExerciseCategory(category)
	return c, nil
}

func scanLevel(row rowScanner) (domain.Level, error) {
	var l domain.Level
	err := row.Scan(&l.ID, &l.CourseID, &l.Name, &l.Description, &l.OrderIndex,
		&l.RequiredScore, &l.Enabled, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanExercise(row rowScanner) (domain.Exercise, error) {
	var (
		e        domain.Exercise
		category string
	)
	err := row.Scan(&e.ID, &e.CourseID, &e.LevelID, &category, &e.Prompt, &e.Data,
		&e.Answer, &e.Points, &e.OrderIndex, &e.Enabled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Exercise{}, err
	}
	e.Category = domain.ExerciseCategory(category)
	return e, nil
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error), entity string) ([]T, error) {
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, postgres.MapError(err, entity, uuid.Nil)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, entity, uuid.Nil)
	}
	return out, nil
}
