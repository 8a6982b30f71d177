// Package seeder populates the class/course/level/exercise catalog from a
// JSON file and installs the default achievement definitions. It is meant
// to be run offline, not as part of the main server.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

type catalogRepo interface {
	CreateClass(ctx context.Context, c domain.Class) error
	CreateCourse(ctx context.Context, c domain.Course) error
	CreateLevel(ctx context.Context, l domain.Level) error
	CreateExercise(ctx context.Context, e domain.Exercise) error
}

type achievementRepo interface {
	UpsertDefinition(ctx context.Context, a domain.Achievement) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Seeder loads catalog data and achievement definitions into the database.
type Seeder struct {
	catalog      catalogRepo
	achievements achievementRepo
	tx           txManager
	log          *slog.Logger
}

// New creates a Seeder.
func New(logger *slog.Logger, catalog catalogRepo, achievements achievementRepo, tx txManager) *Seeder {
	return &Seeder{
		catalog:      catalog,
		achievements: achievements,
		tx:           tx,
		log:          logger.With("component", "seeder"),
	}
}

// catalogFile is the JSON shape of the seed catalog.
type catalogFile struct {
	Classes []classSeed `json:"classes"`
}

type classSeed struct {
	Name          string       `json:"name"`
	Description   *string      `json:"description,omitempty"`
	OrderIndex    int          `json:"order_index"`
	RequiredScore int          `json:"required_score"`
	Courses       []courseSeed `json:"courses"`
}

type courseSeed struct {
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	Category      string      `json:"category"`
	OrderIndex    int         `json:"order_index"`
	RequiredScore int         `json:"required_score"`
	Levels        []levelSeed `json:"levels"`
}

type levelSeed struct {
	Name          string         `json:"name"`
	Description   *string        `json:"description,omitempty"`
	OrderIndex    int            `json:"order_index"`
	RequiredScore int            `json:"required_score"`
	Exercises     []exerciseSeed `json:"exercises"`
}

type exerciseSeed struct {
	Category   string  `json:"category"`
	Prompt     string  `json:"prompt"`
	Data       *string `json:"data,omitempty"`
	Answer     string  `json:"answer"`
	Points     int     `json:"points"`
	OrderIndex int     `json:"order_index"`
}

// SeedCatalog reads the JSON catalog at path and inserts it. Each class is
// written in its own transaction so a bad entry does not leave a half
// written class behind.
func (s *Seeder) SeedCatalog(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}

	for _, cls := range file.Classes {
		if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			return s.seedClass(txCtx, cls)
		}); err != nil {
			return fmt.Errorf("seed class %q: %w", cls.Name, err)
		}
		s.log.Info("class seeded", slog.String("name", cls.Name))
	}

	return nil
}

func (s *Seeder) seedClass(ctx context.Context, seed classSeed) error {
	class := domain.Class{
		ID:            uuid.New(),
		Name:          seed.Name,
		Description:   seed.Description,
		OrderIndex:    seed.OrderIndex,
		RequiredScore: seed.RequiredScore,
		Enabled:       true,
	}
	if err := s.catalog.CreateClass(ctx, class); err != nil {
		return err
	}

	for _, crs := range seed.Courses {
		category := domain.ExerciseCategory(crs.Category)
		if !category.IsValid() {
			return fmt.Errorf("course %q: %w", crs.Name,
				domain.NewValidationError("category", "unknown exercise category"))
		}

		course := domain.Course{
			ID:            uuid.New(),
			ClassID:       class.ID,
			Name:          crs.Name,
			Description:   crs.Description,
			Category:      category,
			OrderIndex:    crs.OrderIndex,
			RequiredScore: crs.RequiredScore,
			Enabled:       true,
		}
		if err := s.catalog.CreateCourse(ctx, course); err != nil {
			return err
		}

		for _, lvl := range crs.Levels {
			level := domain.Level{
				ID:            uuid.New(),
				CourseID:      course.ID,
				Name:          lvl.Name,
				Description:   lvl.Description,
				OrderIndex:    lvl.OrderIndex,
				RequiredScore: lvl.RequiredScore,
				Enabled:       true,
			}
			if err := s.catalog.CreateLevel(ctx, level); err != nil {
				return err
			}

			for _, ex := range lvl.Exercises {
				exCategory := domain.ExerciseCategory(ex.Category)
				if !exCategory.IsValid() {
					exCategory = category
				}
				exercise := domain.Exercise{
					ID:         uuid.New(),
					CourseID:   course.ID,
					LevelID:    level.ID,
					Category:   exCategory,
					Prompt:     ex.Prompt,
					Data:       ex.Data,
					Answer:     ex.Answer,
					Points:     ex.Points,
					OrderIndex: ex.OrderIndex,
					Enabled:    true,
				}
				if err := s.catalog.CreateExercise(ctx, exercise); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// SeedAchievements installs or refreshes the default achievement catalog.
func (s *Seeder) SeedAchievements(ctx context.Context) error {
	for _, a := range defaultAchievements() {
		if err := s.achievements.UpsertDefinition(ctx, a); err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.Code, err)
		}
	}
	s.log.Info("achievements seeded", slog.Int("count", len(defaultAchievements())))
	return nil
}

func strPtr(s string) *string { return &s }

func defaultAchievements() []domain.Achievement {
	return []domain.Achievement{
		{
			ID:           uuid.New(),
			Code:         "first_exercise",
			Name:         "Hapi i parë",
			Description:  strPtr("Përfundoni ushtrimin tuaj të parë"),
			Category:     "progress",
			PointsReward: 10,
		},
		{
			ID:               uuid.New(),
			Code:             "perfect_level",
			Name:             "Nivel perfekt",
			Description:      strPtr("Përfundoni një nivel pa asnjë gabim"),
			Category:     "accuracy",
			PointsReward: 25,
		},
		{
			ID:               uuid.New(),
			Code:             "class_master",
			Name:             "Mjeshtër i klasës",
			Description:      strPtr("Përfundoni 10 kurse"),
			Category:         "progress",
			RequirementValue: 10,
			PointsReward:     100,
		},
		{
			ID:               uuid.New(),
			Code:             "speed_demon",
			Name:             "Demon i shpejtësisë",
			Description:      strPtr("Zgjidhni 20 ushtrime brenda një dite"),
			Category:         "activity",
			RequirementValue: 20,
			PointsReward:     30,
		},
		{
			ID:               uuid.New(),
			Code:             "accuracy_master",
			Name:             "Mjeshtër i saktësisë",
			Description:      strPtr("Mbani saktësi mbi 95% pas 50 përpjekjesh"),
			Category:         "accuracy",
			RequirementValue: 95,
			PointsReward:     50,
		},
		{
			ID:               uuid.New(),
			Code:             "streak_3",
			Name:             "Seri 3-ditore",
			Description:      strPtr("Mësoni 3 ditë rresht"),
			Category:         "streak",
			RequirementValue: 3,
			PointsReward:     15,
		},
		{
			ID:               uuid.New(),
			Code:             "streak_7",
			Name:             "Seri javore",
			Description:      strPtr("Mësoni 7 ditë rresht"),
			Category:         "streak",
			RequirementValue: 7,
			PointsReward:     35,
		},
		{
			ID:               uuid.New(),
			Code:             "streak_30",
			Name:             "Seri mujore",
			Description:      strPtr("Mësoni 30 ditë rresht"),
			Category:         "streak",
			RequirementValue: 30,
			PointsReward:     150,
		},
	}
}
