package gamification

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// challengeTemplates is the pool the daily challenge is drawn from. The pick
// is a hash of the date so every instance of the service agrees on the
// day's challenge without coordination.
var challengeTemplates = []domain.DailyChallenge{
	{
		Type:         domain.ChallengeCompleteExercises,
		TargetValue:  10,
		PointsReward: 50,
		Description:  "Përfundo 10 ushtrime sot për të fituar pikë bonus!",
	},
	{
		Type:         domain.ChallengePerfectAccuracy,
		TargetValue:  5,
		PointsReward: 75,
		Description:  "Bëj 5 ushtrime pa asnjë gabim!",
	},
	{
		Type:         domain.ChallengeCompleteExercises,
		TargetValue:  20,
		PointsReward: 100,
		Description:  "Sfidë e madhe: përfundo 20 ushtrime sot!",
	},
}

// challengeForDate picks the day's template deterministically.
func challengeForDate(date string) domain.DailyChallenge {
	h := fnv.New32a()
	h.Write([]byte(date))
	tpl := challengeTemplates[int(h.Sum32())%len(challengeTemplates)]
	tpl.ID = uuid.New()
	tpl.Date = date
	return tpl
}

// DateKey formats an instant as the UTC challenge date key.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TodaysChallenge returns the challenge for the given instant's UTC day,
// creating it if this is the first request of the day.
func (s *Service) TodaysChallenge(ctx context.Context, now time.Time) (domain.DailyChallenge, error) {
	date := DateKey(now)

	challenge, err := s.challenges.GetByDate(ctx, date)
	if err == nil {
		return challenge, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.DailyChallenge{}, fmt.Errorf("get challenge: %w", err)
	}

	fresh := challengeForDate(date)
	if err := s.challenges.Create(ctx, fresh); err != nil {
		return domain.DailyChallenge{}, fmt.Errorf("create challenge: %w", err)
	}

	// re-read in case a concurrent creator won the date index
	challenge, err = s.challenges.GetByDate(ctx, date)
	if err != nil {
		return domain.DailyChallenge{}, fmt.Errorf("reload challenge: %w", err)
	}

	s.log.InfoContext(ctx, "daily challenge ready", "date", date, "type", challenge.Type)

	return challenge, nil
}

// ChallengeStatus returns today's challenge together with the user's
// progress on it. Progress is zero-valued before the first contribution.
func (s *Service) ChallengeStatus(ctx context.Context, userID uuid.UUID, now time.Time) (domain.DailyChallenge, domain.ChallengeProgress, error) {
	challenge, err := s.TodaysChallenge(ctx, now)
	if err != nil {
		return domain.DailyChallenge{}, domain.ChallengeProgress{}, err
	}

	progress, err := s.challenges.GetProgress(ctx, userID, challenge.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return challenge, domain.ChallengeProgress{
				UserID:      userID,
				ChallengeID: challenge.ID,
			}, nil
		}
		return domain.DailyChallenge{}, domain.ChallengeProgress{}, fmt.Errorf("get progress: %w", err)
	}

	return challenge, progress, nil
}

// BumpChallenge advances the user's daily-challenge counter for one
// attempt. COMPLETE_N_EXERCISES counts every attempt; PERFECT_ACCURACY only
// correct ones. Returns the bonus points awarded when this attempt finishes
// the challenge, zero otherwise. A finished challenge never un-finishes.
func (s *Service) BumpChallenge(ctx context.Context, userID uuid.UUID, correct bool, now time.Time) (bonus int, err error) {
	challenge, progress, err := s.ChallengeStatus(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	if progress.Completed {
		return 0, nil
	}
	if challenge.Type == domain.ChallengePerfectAccuracy && !correct {
		return 0, nil
	}

	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	progress.CurrentValue++
	if progress.CurrentValue >= challenge.TargetValue {
		progress.Completed = true
		completedAt := now.UTC()
		progress.CompletedAt = &completedAt
		bonus = challenge.PointsReward
	}

	if err := s.challenges.UpsertProgress(ctx, progress); err != nil {
		return 0, fmt.Errorf("store progress: %w", err)
	}

	if bonus > 0 {
		s.log.InfoContext(ctx, "daily challenge completed",
			"user_id", userID, "challenge_id", challenge.ID, "bonus", bonus)
	}

	return bonus, nil
}
