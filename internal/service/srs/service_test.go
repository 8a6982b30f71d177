package srs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	GetByIDFunc           func(ctx context.Context, cardID, userID uuid.UUID) (domain.SRSCard, error)
	GetByUserExerciseFunc func(ctx context.Context, userID, exerciseID uuid.UUID) (domain.SRSCard, error)
	CreateFunc            func(ctx context.Context, card domain.SRSCard) (domain.SRSCard, error)
	UpdateSRSFunc         func(ctx context.Context, cardID, userID uuid.UUID, params domain.SRSUpdateParams) error
	DueFunc               func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SRSCard, error)
	StatsFunc             func(ctx context.Context, userID uuid.UUID, now time.Time) (domain.SRSStats, error)
}

func (m *mockCardRepo) GetByID(ctx context.Context, cardID, userID uuid.UUID) (domain.SRSCard, error) {
	return m.GetByIDFunc(ctx, cardID, userID)
}

func (m *mockCardRepo) GetByUserExercise(ctx context.Context, userID, exerciseID uuid.UUID) (domain.SRSCard, error) {
	return m.GetByUserExerciseFunc(ctx, userID, exerciseID)
}

func (m *mockCardRepo) Create(ctx context.Context, card domain.SRSCard) (domain.SRSCard, error) {
	return m.CreateFunc(ctx, card)
}

func (m *mockCardRepo) UpdateSRS(ctx context.Context, cardID, userID uuid.UUID, params domain.SRSUpdateParams) error {
	return m.UpdateSRSFunc(ctx, cardID, userID, params)
}

func (m *mockCardRepo) Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SRSCard, error) {
	return m.DueFunc(ctx, userID, now, limit)
}

func (m *mockCardRepo) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (domain.SRSStats, error) {
	return m.StatsFunc(ctx, userID, now)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testConfig() domain.SRSConfig {
	return domain.SRSConfig{
		DefaultEaseFactor: 2.5,
		MinEaseFactor:     1.3,
		MaxIntervalDays:   365,
		FirstReviewDelay:  4 * time.Hour,
		DueLimitDefault:   10,
		DueLimitMax:       100,
	}
}

func userCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

// ---------------------------------------------------------------------------
// ReviewCard
// ---------------------------------------------------------------------------

func TestReviewCard_InvalidQualityLeavesCardUnmodified(t *testing.T) {
	repo := &mockCardRepo{
		GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.SRSCard, error) {
			t.Fatal("invalid input must be rejected before touching the repository")
			return domain.SRSCard{}, nil
		},
		UpdateSRSFunc: func(context.Context, uuid.UUID, uuid.UUID, domain.SRSUpdateParams) error {
			t.Fatal("invalid input must not reschedule the card")
			return nil
		},
	}
	svc := NewService(slog.Default(), repo, testConfig())

	for _, quality := range []int{-1, 6, 42} {
		_, err := svc.ReviewCard(userCtx(uuid.New()), ReviewCardInput{CardID: uuid.New(), Quality: quality})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "quality %d", quality)
	}
}

func TestReviewCard_UnknownCard(t *testing.T) {
	repo := &mockCardRepo{
		GetByIDFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.SRSCard, error) {
			return domain.SRSCard{}, domain.ErrNotFound
		},
		UpdateSRSFunc: func(context.Context, uuid.UUID, uuid.UUID, domain.SRSUpdateParams) error {
			t.Fatal("a missing card must not be rescheduled")
			return nil
		},
	}
	svc := NewService(slog.Default(), repo, testConfig())

	_, err := svc.ReviewCard(userCtx(uuid.New()), ReviewCardInput{CardID: uuid.New(), Quality: 4})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewCard_Unauthenticated(t *testing.T) {
	svc := NewService(slog.Default(), &mockCardRepo{}, testConfig())

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{CardID: uuid.New(), Quality: 4})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReviewCard_SuccessPersistsAndReturnsUpdatedCard(t *testing.T) {
	userID := uuid.New()
	card := domain.SRSCard{
		ID:           uuid.New(),
		UserID:       userID,
		ExerciseID:   uuid.New(),
		Word:         "shtëpi",
		EaseFactor:   2.5,
		IntervalDays: 1,
		Repetitions:  1,
		TotalReviews: 3,
	}

	var gotParams domain.SRSUpdateParams
	repo := &mockCardRepo{
		GetByIDFunc: func(_ context.Context, cardID, uid uuid.UUID) (domain.SRSCard, error) {
			assert.Equal(t, card.ID, cardID)
			assert.Equal(t, userID, uid)
			return card, nil
		},
		UpdateSRSFunc: func(_ context.Context, _, _ uuid.UUID, params domain.SRSUpdateParams) error {
			gotParams = params
			return nil
		},
	}
	svc := NewService(slog.Default(), repo, testConfig())

	got, err := svc.ReviewCard(userCtx(userID), ReviewCardInput{CardID: card.ID, Quality: 5})
	require.NoError(t, err)

	assert.Equal(t, 6, gotParams.IntervalDays, "second pass lands on the 6-day rung")
	assert.Equal(t, 2, gotParams.Repetitions)
	assert.True(t, gotParams.WasCorrect)

	assert.Equal(t, gotParams.IntervalDays, got.IntervalDays)
	assert.Equal(t, 4, got.TotalReviews)
	assert.Equal(t, 1, got.CorrectReviews)
	require.NotNil(t, got.LastReviewedAt)
}

// ---------------------------------------------------------------------------
// DueCards
// ---------------------------------------------------------------------------

func TestDueCards_LimitBounds(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, cfg.DueLimitDefault},
		{"negative falls back to default", -3, cfg.DueLimitDefault},
		{"explicit limit passes through", 25, 25},
		{"oversized limit is capped", 5000, cfg.DueLimitMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			repo := &mockCardRepo{
				DueFunc: func(_ context.Context, _ uuid.UUID, _ time.Time, limit int) ([]domain.SRSCard, error) {
					gotLimit = limit
					return nil, nil
				},
			}
			svc := NewService(slog.Default(), repo, cfg)

			_, err := svc.DueCards(userCtx(uuid.New()), DueCardsInput{Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotLimit)
		})
	}
}

func TestDueCards_Unauthenticated(t *testing.T) {
	svc := NewService(slog.Default(), &mockCardRepo{}, testConfig())

	_, err := svc.DueCards(context.Background(), DueCardsInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---------------------------------------------------------------------------
// EnsureCardForMistake
// ---------------------------------------------------------------------------

func TestEnsureCardForMistake_ExistingCardUntouched(t *testing.T) {
	existing := domain.SRSCard{ID: uuid.New(), Word: "libër", IntervalDays: 6}
	repo := &mockCardRepo{
		GetByUserExerciseFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.SRSCard, error) {
			return existing, nil
		},
		CreateFunc: func(context.Context, domain.SRSCard) (domain.SRSCard, error) {
			t.Fatal("an existing card must not be recreated")
			return domain.SRSCard{}, nil
		},
	}
	svc := NewService(slog.Default(), repo, testConfig())

	got, err := svc.EnsureCardForMistake(context.Background(), uuid.New(), uuid.New(), "libër")
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestEnsureCardForMistake_CreatesWithFirstReviewDelay(t *testing.T) {
	cfg := testConfig()
	var created domain.SRSCard
	repo := &mockCardRepo{
		GetByUserExerciseFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.SRSCard, error) {
			return domain.SRSCard{}, domain.ErrNotFound
		},
		CreateFunc: func(_ context.Context, card domain.SRSCard) (domain.SRSCard, error) {
			created = card
			return card, nil
		},
	}
	svc := NewService(slog.Default(), repo, cfg)

	got, err := svc.EnsureCardForMistake(context.Background(), uuid.New(), uuid.New(), "shtëpi")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, cfg.DefaultEaseFactor, created.EaseFactor)
	assert.Equal(t, 1, created.IntervalDays)
	assert.WithinDuration(t, time.Now().UTC().Add(cfg.FirstReviewDelay), created.NextReviewDate, time.Minute)
}

func TestEnsureCardForMistake_CreateRaceFallsBackToWinner(t *testing.T) {
	winner := domain.SRSCard{ID: uuid.New(), Word: "shtëpi"}
	calls := 0
	repo := &mockCardRepo{
		GetByUserExerciseFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.SRSCard, error) {
			calls++
			if calls == 1 {
				return domain.SRSCard{}, domain.ErrNotFound
			}
			return winner, nil
		},
		CreateFunc: func(context.Context, domain.SRSCard) (domain.SRSCard, error) {
			return domain.SRSCard{}, domain.ErrAlreadyExists
		},
	}
	svc := NewService(slog.Default(), repo, testConfig())

	got, err := svc.EnsureCardForMistake(context.Background(), uuid.New(), uuid.New(), "shtëpi")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}
