package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// unlockService defines the unlock-state interface needed by CatalogHandler.
type unlockService interface {
	ClassStates(ctx context.Context, userID uuid.UUID) ([]domain.ClassState, error)
	CourseStates(ctx context.Context, userID, classID uuid.UUID) ([]domain.CourseState, error)
}

// progressService defines the progress interface needed by CatalogHandler.
type progressService interface {
	ComputeLevelProgress(ctx context.Context, userID, levelID uuid.UUID) (domain.LevelProgress, error)
}

// catalogRepo defines the catalog read interface needed by CatalogHandler.
type catalogRepo interface {
	GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, error)
	ListLevelsByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error)
	GetLevel(ctx context.Context, id uuid.UUID) (domain.Level, error)
	ListExercisesByLevel(ctx context.Context, levelID uuid.UUID) ([]domain.Exercise, error)
	Stats(ctx context.Context) (domain.CatalogStats, error)
}

// CatalogHandler serves the class/course/level/exercise read API decorated
// with the requesting user's unlock and progress state.
type CatalogHandler struct {
	unlock   unlockService
	progress progressService
	catalog  catalogRepo
	log      *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(unlock unlockService, progress progressService, catalog catalogRepo, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		unlock:   unlock,
		progress: progress,
		catalog:  catalog,
		log:      logger.With("handler", "catalog"),
	}
}

type classStateResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	OrderIndex      int     `json:"orderIndex"`
	RequiredScore   int     `json:"requiredScore"`
	State           string  `json:"state"`
	ProgressPercent float64 `json:"progressPercent"`
}

type courseStateResponse struct {
	ID            string  `json:"id"`
	ClassID       string  `json:"classId"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Category      string  `json:"category"`
	OrderIndex    int     `json:"orderIndex"`
	RequiredScore int     `json:"requiredScore"`
	Enabled       bool    `json:"enabled"`

	CompletedExercises int     `json:"completedExercises"`
	TotalExercises     int     `json:"totalExercises"`
	AccuracyPercentage float64 `json:"accuracyPercentage"`
	TotalPoints        int     `json:"totalPoints"`
	IsCompleted        bool    `json:"isCompleted"`
}

type levelProgressResponse struct {
	ID                 string  `json:"id"`
	CourseID           string  `json:"courseId"`
	Name               string  `json:"name"`
	OrderIndex         int     `json:"orderIndex"`
	RequiredScore      int     `json:"requiredScore"`
	CompletedExercises int     `json:"completedExercises"`
	TotalExercises     int     `json:"totalExercises"`
	AccuracyPercentage float64 `json:"accuracyPercentage"`
	TotalPoints        int     `json:"totalPoints"`
	Stars              int     `json:"stars"`
	Completed          bool    `json:"completed"`
}

// exerciseResponse never carries the expected answer.
type exerciseResponse struct {
	ID         string  `json:"id"`
	LevelID    string  `json:"levelId"`
	Category   string  `json:"category"`
	Prompt     string  `json:"prompt"`
	Data       *string `json:"data,omitempty"`
	Points     int     `json:"points"`
	OrderIndex int     `json:"orderIndex"`
}

type catalogStatsResponse struct {
	TotalClasses    int `json:"totalClasses"`
	TotalCourses    int `json:"totalCourses"`
	TotalLevels     int `json:"totalLevels"`
	TotalExercises  int `json:"totalExercises"`
	TotalCategories int `json:"totalCategories"`
}

// Classes handles GET /api/classes.
func (h *CatalogHandler) Classes(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, "")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	states, err := h.unlock.ClassStates(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]classStateResponse, 0, len(states))
	for _, s := range states {
		resp = append(resp, classStateResponse{
			ID:              s.Class.ID.String(),
			Name:            s.Class.Name,
			Description:     s.Class.Description,
			OrderIndex:      s.Class.OrderIndex,
			RequiredScore:   s.Class.RequiredScore,
			State:           s.State.String(),
			ProgressPercent: s.ProgressPercent,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClassCourses handles GET /api/classes/{id}/courses.
func (h *CatalogHandler) ClassCourses(w http.ResponseWriter, r *http.Request) {
	classID, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	userID, err := resolveUserID(r, "")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	states, err := h.unlock.CourseStates(r.Context(), userID, classID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]courseStateResponse, 0, len(states))
	for _, s := range states {
		resp = append(resp, courseStateResponse{
			ID:            s.Course.ID.String(),
			ClassID:       s.Course.ClassID.String(),
			Name:          s.Course.Name,
			Description:   s.Course.Description,
			Category:      s.Course.Category.String(),
			OrderIndex:    s.Course.OrderIndex,
			RequiredScore: s.Course.RequiredScore,
			Enabled:       s.Enabled,

			CompletedExercises: s.Progress.CompletedExercises,
			TotalExercises:     s.Progress.TotalExercises,
			AccuracyPercentage: s.Progress.AccuracyPercentage,
			TotalPoints:        s.Progress.TotalPoints,
			IsCompleted:        s.Progress.IsCompleted,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CourseLevels handles GET /api/courses/{id}/levels.
func (h *CatalogHandler) CourseLevels(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	userID, err := resolveUserID(r, "")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if _, err := h.catalog.GetCourse(r.Context(), courseID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	levels, err := h.catalog.ListLevelsByCourse(r.Context(), courseID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]levelProgressResponse, 0, len(levels))
	for _, lvl := range levels {
		lp, err := h.progress.ComputeLevelProgress(r.Context(), userID, lvl.ID)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		resp = append(resp, levelProgressResponse{
			ID:                 lvl.ID.String(),
			CourseID:           lvl.CourseID.String(),
			Name:               lvl.Name,
			OrderIndex:         lvl.OrderIndex,
			RequiredScore:      lvl.RequiredScore,
			CompletedExercises: lp.CompletedExercises,
			TotalExercises:     lp.TotalExercises,
			AccuracyPercentage: lp.AccuracyPercentage,
			TotalPoints:        lp.TotalPoints,
			Stars:              lp.Stars,
			Completed:          lp.Completed,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// LevelExercises handles GET /api/levels/{id}/exercises.
func (h *CatalogHandler) LevelExercises(w http.ResponseWriter, r *http.Request) {
	levelID, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if _, err := h.catalog.GetLevel(r.Context(), levelID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	exercises, err := h.catalog.ListExercisesByLevel(r.Context(), levelID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]exerciseResponse, 0, len(exercises))
	for _, ex := range exercises {
		resp = append(resp, exerciseResponse{
			ID:         ex.ID.String(),
			LevelID:    ex.LevelID.String(),
			Category:   ex.Category.String(),
			Prompt:     ex.Prompt,
			Data:       ex.Data,
			Points:     ex.Points,
			OrderIndex: ex.OrderIndex,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// PublicStats handles GET /api/exercises/public-stats.
func (h *CatalogHandler) PublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, catalogStatsResponse{
		TotalClasses:    stats.TotalClasses,
		TotalCourses:    stats.TotalCourses,
		TotalLevels:     stats.TotalLevels,
		TotalExercises:  stats.TotalExercises,
		TotalCategories: stats.TotalCategories,
	})
}
