package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lexivon/lexivon-backend/internal/config"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// challengeProvider is what the scheduler needs from the gamification
// service.
type challengeProvider interface {
	TodaysChallenge(ctx context.Context, now time.Time) (domain.DailyChallenge, error)
}

// Scheduler runs recurring background jobs. Currently its only job is the
// daily-challenge rollover which pre-creates the challenge row at UTC
// midnight so the first request of the day does not race to insert it.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	challenges challengeProvider
	log        *slog.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *slog.Logger, challenges challengeProvider) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		challenges: challenges,
		log:        logger.With("component", "scheduler"),
	}
}

// Start registers the rollover job and begins running it asynchronously.
func (s *Scheduler) Start(cfg config.GamificationConfig) error {
	if !cfg.ChallengeRolloverEnabled {
		s.log.Info("challenge rollover disabled")
		return nil
	}

	_, err := s.scheduler.Cron(cfg.ChallengeRolloverCron).Do(s.rollover)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("challenge rollover scheduled", slog.String("cron", cfg.ChallengeRolloverCron))
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) rollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	challenge, err := s.challenges.TodaysChallenge(ctx, now)
	if err != nil {
		s.log.Error("challenge rollover failed", slog.String("error", err.Error()))
		return
	}

	s.log.Info("daily challenge ready",
		slog.String("date", challenge.Date),
		slog.String("type", challenge.Type.String()),
	)
}
