package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

// leaderboardService defines the minimal interface needed by
// LeaderboardHandler.
type leaderboardService interface {
	Top(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error)
	Rank(ctx context.Context, userID uuid.UUID) (int, error)
}

// LeaderboardHandler serves the global standings.
type LeaderboardHandler struct {
	svc leaderboardService
	log *slog.Logger
}

// NewLeaderboardHandler creates a LeaderboardHandler.
func NewLeaderboardHandler(svc leaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, log: logger.With("handler", "leaderboard")}
}

type leaderboardEntryResponse struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"userId"`
	Username         string  `json:"username"`
	TotalPoints      int     `json:"totalPoints"`
	TotalCorrect     int     `json:"totalCorrect"`
	TotalAttempts    int     `json:"totalAttempts"`
	Accuracy         float64 `json:"accuracy"`
	CompletedCourses int     `json:"completedCourses"`
}

type leaderboardResponse struct {
	Entries  []leaderboardEntryResponse `json:"entries"`
	UserRank *int                       `json:"userRank,omitempty"`
}

// Top handles GET /api/leaderboard.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = n
	}
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("offset", "must be an integer"))
			return
		}
		offset = n
	}

	entries, err := h.svc.Top(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := leaderboardResponse{Entries: make([]leaderboardEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, leaderboardEntryResponse{
			Rank:             e.Rank,
			UserID:           e.UserID.String(),
			Username:         e.Username,
			TotalPoints:      e.TotalPoints,
			TotalCorrect:     e.TotalCorrect,
			TotalAttempts:    e.TotalAttempts,
			Accuracy:         e.Accuracy,
			CompletedCourses: e.CompletedCourses,
		})
	}

	// include the caller's own rank when authenticated and ranked
	if userID, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
		if rank, err := h.svc.Rank(r.Context(), userID); err == nil {
			resp.UserRank = &rank
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
