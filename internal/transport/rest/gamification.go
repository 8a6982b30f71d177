package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// gamificationService defines the minimal interface needed by
// GamificationHandler.
type gamificationService interface {
	Streak(ctx context.Context, userID uuid.UUID) (domain.StreakInfo, error)
	ChallengeStatus(ctx context.Context, userID uuid.UUID, now time.Time) (domain.DailyChallenge, domain.ChallengeProgress, error)
	AllAchievements(ctx context.Context) ([]domain.Achievement, error)
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]domain.Achievement, error)
}

// GamificationHandler serves streak, daily challenge, and achievement
// endpoints.
type GamificationHandler struct {
	svc gamificationService
	log *slog.Logger
}

// NewGamificationHandler creates a GamificationHandler.
func NewGamificationHandler(svc gamificationService, logger *slog.Logger) *GamificationHandler {
	return &GamificationHandler{svc: svc, log: logger.With("handler", "gamification")}
}

type challengeResponse struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"`
	Type         string     `json:"type"`
	TargetValue  int        `json:"targetValue"`
	PointsReward int        `json:"pointsReward"`
	Description  string     `json:"description"`
	CurrentValue int        `json:"currentValue"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type achievementFullResponse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	Category         string  `json:"category"`
	RequirementValue int     `json:"requirementValue"`
	PointsReward     int     `json:"pointsReward"`
}

// Streak handles GET /api/gamification/streak/{user_id}.
func (h *GamificationHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, "user_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	info, err := h.svc.Streak(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		Current:          info.CurrentStreak,
		Longest:          info.LongestStreak,
		LastActivityDate: info.LastActivityDate,
	})
}

// DailyChallenge handles GET /api/gamification/daily-challenge.
func (h *GamificationHandler) DailyChallenge(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, "")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	challenge, progress, err := h.svc.ChallengeStatus(r.Context(), userID, time.Now().UTC())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, challengeResponse{
		ID:           challenge.ID.String(),
		Date:         challenge.Date,
		Type:         challenge.Type.String(),
		TargetValue:  challenge.TargetValue,
		PointsReward: challenge.PointsReward,
		Description:  challenge.Description,
		CurrentValue: progress.CurrentValue,
		Completed:    progress.Completed,
		CompletedAt:  progress.CompletedAt,
	})
}

// Achievements handles GET /api/gamification/achievements and
// GET /api/gamification/achievements/{user_id}. Without a user the full
// catalog is returned; with one, only the earned achievements.
func (h *GamificationHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	var (
		achievements []domain.Achievement
		err          error
	)

	if raw := r.PathValue("user_id"); raw != "" {
		var userID uuid.UUID
		userID, err = uuid.Parse(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("user_id", "must be a UUID"))
			return
		}
		achievements, err = h.svc.UserAchievements(r.Context(), userID)
	} else if userID, ok := userFromRequest(r); ok {
		achievements, err = h.svc.UserAchievements(r.Context(), userID)
	} else {
		achievements, err = h.svc.AllAchievements(r.Context())
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]achievementFullResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, achievementFullResponse{
			ID:               a.ID.String(),
			Code:             a.Code,
			Name:             a.Name,
			Description:      a.Description,
			Category:         a.Category,
			RequirementValue: a.RequirementValue,
			PointsReward:     a.PointsReward,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func userFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := resolveUserID(r, "")
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
