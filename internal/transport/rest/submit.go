package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lexivon/lexivon-backend/internal/service/submission"
)

// submissionService defines the minimal interface needed by SubmitHandler.
type submissionService interface {
	Submit(ctx context.Context, input submission.SubmitInput) (submission.Result, error)
}

// SubmitHandler serves the answer-submission endpoint.
type SubmitHandler struct {
	svc submissionService
	log *slog.Logger
}

// NewSubmitHandler creates a SubmitHandler.
func NewSubmitHandler(svc submissionService, logger *slog.Logger) *SubmitHandler {
	return &SubmitHandler{svc: svc, log: logger.With("handler", "submit")}
}

type submitRequest struct {
	Response       string  `json:"response"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty"`
}

type achievementResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	PointsReward int    `json:"pointsReward"`
}

type streakResponse struct {
	Current          int        `json:"current"`
	Longest          int        `json:"longest"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
}

type submitResponse struct {
	AttemptID       string                `json:"attemptId"`
	IsCorrect       bool                  `json:"isCorrect"`
	ScoreDelta      int                   `json:"scoreDelta"`
	NewPoints       int                   `json:"newPoints"`
	Stars           int                   `json:"stars"`
	LevelCompleted  bool                  `json:"levelCompleted"`
	CourseCompleted bool                  `json:"courseCompleted"`
	Message         string                `json:"message"`
	Duplicate       bool                  `json:"duplicate"`
	ChallengeBonus  int                   `json:"challengeBonus"`
	NewAchievements []achievementResponse `json:"newAchievements"`
	Streak          streakResponse        `json:"streak"`
}

// Submit handles POST /api/exercises/{id}/submit.
// The idempotency key may arrive either in the body or as the
// Idempotency-Key header; the header wins.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := pathUUID(r, "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = &key
	}

	result, err := h.svc.Submit(r.Context(), submission.SubmitInput{
		ExerciseID:     exerciseID,
		Response:       req.Response,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := submitResponse{
		AttemptID:       result.AttemptID.String(),
		IsCorrect:       result.IsCorrect,
		ScoreDelta:      result.ScoreDelta,
		NewPoints:       result.NewPoints,
		Stars:           result.Stars,
		LevelCompleted:  result.LevelCompleted,
		CourseCompleted: result.CourseCompleted,
		Message:         result.Message,
		Duplicate:       result.Duplicate,
		ChallengeBonus:  result.ChallengeBonus,
		NewAchievements: make([]achievementResponse, 0, len(result.NewAchievements)),
		Streak: streakResponse{
			Current:          result.Streak.CurrentStreak,
			Longest:          result.Streak.LongestStreak,
			LastActivityDate: result.Streak.LastActivityDate,
		},
	}
	for _, a := range result.NewAchievements {
		resp.NewAchievements = append(resp.NewAchievements, achievementResponse{
			Code:         a.Code,
			Name:         a.Name,
			PointsReward: a.PointsReward,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
