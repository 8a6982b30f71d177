package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with default streak counters.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Username:     "testuser-" + suffix,
		Email:        "testuser-" + suffix + "@example.com",
		PasswordHash: "$2a$12$" + suffix, // opaque to the repo layer
		Role:         domain.UserRoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, is_active,
		                    current_streak, longest_streak, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, 0, 0, $6, $6)`,
		user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// Chain is a minimal seeded catalog: one class holding one course holding
// one level with the given number of exercises.
type Chain struct {
	Class     domain.Class
	Course    domain.Course
	Level     domain.Level
	Exercises []domain.Exercise
}

// SeedChain creates a class/course/level chain with exerciseCount exercises.
// Every exercise answers "pergjigje" and is worth 10 points.
func SeedChain(t *testing.T, pool *pgxpool.Pool, exerciseCount int) Chain {
	t.Helper()

	class := SeedClass(t, pool, 0)
	course := SeedCourse(t, pool, class.ID, 0)
	level := SeedLevel(t, pool, course.ID, 0)

	exercises := make([]domain.Exercise, exerciseCount)
	for i := range exercises {
		exercises[i] = SeedExercise(t, pool, course.ID, level.ID, i)
	}

	return Chain{Class: class, Course: course, Level: level, Exercises: exercises}
}

// SeedClass creates an enabled class at the given chain position.
func SeedClass(t *testing.T, pool *pgxpool.Pool, orderIndex int) domain.Class {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	class := domain.Class{
		ID:            uuid.New(),
		Name:          "Class " + uniqueSuffix(),
		OrderIndex:    orderIndex,
		RequiredScore: 80,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO classes (id, name, order_index, required_score, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $5)`,
		class.ID, class.Name, class.OrderIndex, class.RequiredScore, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClass insert: %v", err)
	}

	return class
}

// SeedCourse creates an enabled course at the given chain position.
func SeedCourse(t *testing.T, pool *pgxpool.Pool, classID uuid.UUID, orderIndex int) domain.Course {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	course := domain.Course{
		ID:            uuid.New(),
		ClassID:       classID,
		Name:          "Course " + uniqueSuffix(),
		Category:      domain.CategoryVocabulary,
		OrderIndex:    orderIndex,
		RequiredScore: 80,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO courses (id, class_id, name, category, order_index, required_score, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)`,
		course.ID, course.ClassID, course.Name, string(course.Category),
		course.OrderIndex, course.RequiredScore, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCourse insert: %v", err)
	}

	return course
}

// SeedLevel creates an enabled level at the given chain position.
func SeedLevel(t *testing.T, pool *pgxpool.Pool, courseID uuid.UUID, orderIndex int) domain.Level {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	level := domain.Level{
		ID:            uuid.New(),
		CourseID:      courseID,
		Name:          "Level " + uniqueSuffix(),
		OrderIndex:    orderIndex,
		RequiredScore: 80,
		Enabled:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO levels (id, course_id, name, order_index, required_score, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)`,
		level.ID, level.CourseID, level.Name, level.OrderIndex, level.RequiredScore, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLevel insert: %v", err)
	}

	return level
}

// SeedExercise creates an enabled exercise answering "pergjigje", 10 points.
func SeedExercise(t *testing.T, pool *pgxpool.Pool, courseID, levelID uuid.UUID, orderIndex int) domain.Exercise {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	ex := domain.Exercise{
		ID:         uuid.New(),
		CourseID:   courseID,
		LevelID:    levelID,
		Category:   domain.CategoryVocabulary,
		Prompt:     "Translate: answer " + uniqueSuffix(),
		Answer:     "pergjigje",
		Points:     10,
		OrderIndex: orderIndex,
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO exercises (id, course_id, level_id, category, prompt, answer, points, order_index, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)`,
		ex.ID, ex.CourseID, ex.LevelID, string(ex.Category), ex.Prompt, ex.Answer,
		ex.Points, ex.OrderIndex, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedExercise insert: %v", err)
	}

	return ex
}

// SeedAttempt appends one attempt for the given exercise with the given
// correctness; correct attempts carry the exercise's point value.
func SeedAttempt(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, ex domain.Exercise, correct bool) domain.Attempt {
	t.Helper()
	ctx := context.Background()

	score := 0
	if correct {
		score = ex.Points
	}
	a := domain.Attempt{
		ID:          uuid.New(),
		UserID:      userID,
		ExerciseID:  ex.ID,
		LevelID:     ex.LevelID,
		CourseID:    ex.CourseID,
		Response:    "pergjigje",
		IsCorrect:   correct,
		ScoreDelta:  score,
		SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO attempts (id, user_id, exercise_id, level_id, course_id,
		                       response, is_correct, score_delta, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.ExerciseID, a.LevelID, a.CourseID,
		a.Response, a.IsCorrect, a.ScoreDelta, a.SubmittedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAttempt insert: %v", err)
	}

	return a
}

// SeedSRSCard creates a card for the (user, exercise) pair due at the given time.
func SeedSRSCard(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, ex domain.Exercise, due time.Time) domain.SRSCard {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	card := domain.SRSCard{
		ID:             uuid.New(),
		UserID:         userID,
		ExerciseID:     ex.ID,
		Word:           ex.Answer,
		EaseFactor:     domain.DefaultEaseFactor,
		IntervalDays:   1,
		NextReviewDate: due.UTC().Truncate(time.Microsecond),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO srs_cards (id, user_id, exercise_id, word, ease_factor, interval_days,
		                        repetitions, next_review_date, total_reviews, correct_reviews,
		                        created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 0, 0, $8, $8)`,
		card.ID, card.UserID, card.ExerciseID, card.Word, card.EaseFactor,
		card.IntervalDays, card.NextReviewDate, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSRSCard insert: %v", err)
	}

	return card
}
