// Package unlock derives class and course unlock states for a user. State
// is a forward-dependency chain evaluated top-down: a class is judged only
// after every class before it, so a later class can never be unlocked while
// an earlier one is still locked.
package unlock

import (
	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// classFacts holds the per-class numbers the chain evaluation needs.
type classFacts struct {
	totalCourses     int
	completedCourses int
}

// evaluateClasses walks classes in chain order and assigns each its state.
//
// The first class is always reachable. Every later class unlocks once its
// predecessor's completed-course ratio reaches the predecessor's required
// score (inclusive). A class is COMPLETED when its own ratio reaches its
// own required score; a class without courses can be unlocked but never
// completed, which stops the chain there.
func evaluateClasses(classes []domain.Class, facts map[uuid.UUID]classFacts) []domain.ClassState {
	states := make([]domain.ClassState, len(classes))
	prevOpensNext := false

	for i, class := range classes {
		f := facts[class.ID]

		var ratio float64
		if f.totalCourses > 0 {
			ratio = float64(f.completedCourses) / float64(f.totalCourses) * 100
		}

		state := domain.UnlockStateLocked
		switch {
		case i == 0 || prevOpensNext:
			state = domain.UnlockStateUnlocked
			if f.totalCourses > 0 && ratio >= float64(class.RequiredScore) {
				state = domain.UnlockStateCompleted
			}
		}

		states[i] = domain.ClassState{
			Class:           class,
			State:           state,
			ProgressPercent: ratio,
		}

		prevOpensNext = state != domain.UnlockStateLocked &&
			f.totalCourses > 0 && ratio >= float64(class.RequiredScore)
	}

	return states
}

// evaluateCourses walks a class's courses in chain order. The first course
// is enabled when the class itself is reachable; each later course enables
// once its predecessor is completed.
func evaluateCourses(classUnlocked bool, courses []domain.Course, progress map[uuid.UUID]domain.CourseProgress) []domain.CourseState {
	states := make([]domain.CourseState, len(courses))
	prevCompleted := false

	for i, course := range courses {
		p := progress[course.ID]
		enabled := classUnlocked && (i == 0 || prevCompleted)

		p.CourseID = course.ID
		p.IsUnlocked = enabled

		states[i] = domain.CourseState{
			Course:   course,
			Enabled:  enabled,
			Progress: p,
		}

		prevCompleted = p.IsCompleted
	}

	return states
}
