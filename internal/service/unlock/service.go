package unlock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

type catalogRepo interface {
	ListClasses(ctx context.Context) ([]domain.Class, error)
	GetClass(ctx context.Context, id uuid.UUID) (domain.Class, error)
	ListCoursesByClass(ctx context.Context, classID uuid.UUID) ([]domain.Course, error)
}

type progressRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CourseProgress, error)
}

// Service implements the unlock state evaluation.
type Service struct {
	catalog catalogRepo
	stored  progressRepo
	log     *slog.Logger
}

// NewService creates a new unlock service.
func NewService(log *slog.Logger, catalog catalogRepo, stored progressRepo) *Service {
	return &Service{
		catalog: catalog,
		stored:  stored,
		log:     log.With("service", "unlock"),
	}
}

// ClassStates evaluates the whole class chain for one user.
func (s *Service) ClassStates(ctx context.Context, userID uuid.UUID) ([]domain.ClassState, error) {
	classes, err := s.catalog.ListClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	rows, err := s.stored.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	completedByCourse := map[uuid.UUID]bool{}
	for _, p := range rows {
		if p.IsCompleted && !p.Stale {
			completedByCourse[p.CourseID] = true
		}
	}

	facts := make(map[uuid.UUID]classFacts, len(classes))
	for _, class := range classes {
		courses, err := s.catalog.ListCoursesByClass(ctx, class.ID)
		if err != nil {
			return nil, fmt.Errorf("list courses for class %s: %w", class.ID, err)
		}
		f := classFacts{totalCourses: len(courses)}
		for _, c := range courses {
			if completedByCourse[c.ID] {
				f.completedCourses++
			}
		}
		facts[class.ID] = f
	}

	return evaluateClasses(classes, facts), nil
}

// CourseStates evaluates the course chain of one class for one user.
// The class's own reachability is derived first so a locked class always
// yields fully disabled courses.
func (s *Service) CourseStates(ctx context.Context, userID, classID uuid.UUID) ([]domain.CourseState, error) {
	if _, err := s.catalog.GetClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}

	classStates, err := s.ClassStates(ctx, userID)
	if err != nil {
		return nil, err
	}

	classUnlocked := false
	for _, cs := range classStates {
		if cs.Class.ID == classID {
			classUnlocked = cs.Unlocked()
			break
		}
	}

	courses, err := s.catalog.ListCoursesByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	rows, err := s.stored.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	progress := make(map[uuid.UUID]domain.CourseProgress, len(rows))
	for _, p := range rows {
		progress[p.CourseID] = p
	}

	return evaluateCourses(classUnlocked, courses, progress), nil
}

// IsCourseEnabled reports whether one course is currently reachable for the
// user. Used by the submission service to reject attempts on locked content.
func (s *Service) IsCourseEnabled(ctx context.Context, userID uuid.UUID, course domain.Course) (bool, error) {
	states, err := s.CourseStates(ctx, userID, course.ClassID)
	if err != nil {
		return false, err
	}
	for _, cs := range states {
		if cs.Course.ID == course.ID {
			return cs.Enabled, nil
		}
	}
	return false, nil
}
