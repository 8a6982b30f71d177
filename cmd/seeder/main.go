package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	achievementrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/achievement"
	catalogrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/catalog"
	"github.com/lexivon/lexivon-backend/internal/app"
	"github.com/lexivon/lexivon-backend/internal/app/seeder"
	"github.com/lexivon/lexivon-backend/internal/config"
)

func main() {
	var (
		catalogPath      = flag.String("catalog", "", "path to the catalog JSON file (skipped when empty)")
		skipAchievements = flag.Bool("skip-achievements", false, "do not seed achievement definitions")
		timeout          = flag.Duration("timeout", 5*time.Minute, "overall seeding timeout")
	)
	flag.Parse()

	if err := run(*catalogPath, *skipAchievements, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "seeder:", err)
		os.Exit(1)
	}
}

func run(catalogPath string, skipAchievements bool, timeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := app.NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	s := seeder.New(log,
		catalogrepo.New(pool),
		achievementrepo.New(pool),
		postgres.NewTxManager(pool),
	)

	if catalogPath != "" {
		if err := s.SeedCatalog(ctx, catalogPath); err != nil {
			return err
		}
	}
	if !skipAchievements {
		if err := s.SeedAchievements(ctx); err != nil {
			return err
		}
	}

	log.Info("seeding complete")
	return nil
}
