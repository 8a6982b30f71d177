package domain

import (
	"time"

	"github.com/google/uuid"
)

// Class is the top level of the catalog hierarchy. Its unlock state for a
// given user is derived by the unlock engine, never stored.
type Class struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	OrderIndex    int
	RequiredScore int // completion-ratio percentage needed to mark the class COMPLETED
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Course groups levels inside a class. Courses chain by OrderIndex: course
// N+1 is enabled for a user only once course N is completed.
type Course struct {
	ID            uuid.UUID
	ClassID       uuid.UUID
	Name          string
	Description   *string
	Category      ExerciseCategory
	OrderIndex    int
	RequiredScore int // accuracy percentage needed to complete the course
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Level groups exercises inside a course.
type Level struct {
	ID            uuid.UUID
	CourseID      uuid.UUID
	Name          string
	Description   *string
	OrderIndex    int
	RequiredScore int
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Exercise is a single task. Answer is the expected response text and is
// never exposed through the read API.
type Exercise struct {
	ID         uuid.UUID
	CourseID   uuid.UUID
	LevelID    uuid.UUID
	Category   ExerciseCategory
	Prompt     string
	Data       *string // JSON-encoded choice lists or structured payloads
	Answer     string
	Points     int
	OrderIndex int
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CatalogStats holds public catalog counts (no auth required).
type CatalogStats struct {
	TotalClasses    int
	TotalCourses    int
	TotalLevels     int
	TotalExercises  int
	TotalCategories int
}
