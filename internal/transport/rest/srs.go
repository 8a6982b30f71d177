package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/internal/service/srs"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

// srsService defines the minimal interface needed by SRSHandler.
type srsService interface {
	DueCards(ctx context.Context, input srs.DueCardsInput) ([]domain.SRSCard, error)
	ReviewCard(ctx context.Context, input srs.ReviewCardInput) (domain.SRSCard, error)
	Stats(ctx context.Context) (domain.SRSStats, error)
}

// SRSHandler serves the spaced-repetition endpoints.
type SRSHandler struct {
	svc srsService
	log *slog.Logger
}

// NewSRSHandler creates an SRSHandler.
func NewSRSHandler(svc srsService, logger *slog.Logger) *SRSHandler {
	return &SRSHandler{svc: svc, log: logger.With("handler", "srs")}
}

type reviewRequest struct {
	CardID  string `json:"cardId"`
	Quality int    `json:"quality"`
}

type cardResponse struct {
	ID             string     `json:"id"`
	ExerciseID     string     `json:"exerciseId"`
	Word           string     `json:"word"`
	EaseFactor     float64    `json:"easeFactor"`
	IntervalDays   int        `json:"intervalDays"`
	Repetitions    int        `json:"repetitions"`
	NextReviewDate time.Time  `json:"nextReviewDate"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`
	TotalReviews   int        `json:"totalReviews"`
	CorrectReviews int        `json:"correctReviews"`
}

type dueResponse struct {
	DueCount int            `json:"dueCount"`
	Cards    []cardResponse `json:"cards"`
}

type srsStatsResponse struct {
	TotalCards     int     `json:"totalCards"`
	DueCards       int     `json:"dueCards"`
	TotalReviews   int     `json:"totalReviews"`
	CorrectReviews int     `json:"correctReviews"`
	Accuracy       float64 `json:"accuracy"`
}

// Due handles GET /api/gamification/srs/due/{user_id}.
func (h *SRSHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, "user_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	ctx := ctxutil.WithUserID(r.Context(), userID)
	cards, err := h.svc.DueCards(ctx, srs.DueCardsInput{Limit: limit})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	writeJSON(w, http.StatusOK, dueResponse{DueCount: len(out), Cards: out})
}

// Review handles POST /api/gamification/srs/review.
func (h *SRSHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("cardId", "must be a UUID"))
		return
	}

	card, err := h.svc.ReviewCard(r.Context(), srs.ReviewCardInput{
		CardID:  cardID,
		Quality: req.Quality,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// Stats handles GET /api/gamification/srs/stats/{user_id}.
func (h *SRSHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUserID(r, "user_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	ctx := ctxutil.WithUserID(r.Context(), userID)
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, srsStatsResponse{
		TotalCards:     stats.TotalCards,
		DueCards:       stats.DueCards,
		TotalReviews:   stats.TotalReviews,
		CorrectReviews: stats.CorrectReviews,
		Accuracy:       stats.Accuracy,
	})
}

func toCardResponse(c domain.SRSCard) cardResponse {
	return cardResponse{
		ID:             c.ID.String(),
		ExerciseID:     c.ExerciseID.String(),
		Word:           c.Word,
		EaseFactor:     c.EaseFactor,
		IntervalDays:   c.IntervalDays,
		Repetitions:    c.Repetitions,
		NextReviewDate: c.NextReviewDate,
		LastReviewedAt: c.LastReviewedAt,
		TotalReviews:   c.TotalReviews,
		CorrectReviews: c.CorrectReviews,
	}
}
