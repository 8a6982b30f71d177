package gamification

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	GetByIDFunc      func(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateStreakFunc func(ctx context.Context, userID uuid.UUID, current, longest int, lastActivity time.Time) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return m.GetByIDFunc(ctx, userID)
}

func (m *mockUserRepo) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastActivity time.Time) error {
	return m.UpdateStreakFunc(ctx, userID, current, longest, lastActivity)
}

type mockChallengeRepo struct {
	byDate   map[string]domain.DailyChallenge
	progress map[uuid.UUID]domain.ChallengeProgress
}

func newMockChallengeRepo() *mockChallengeRepo {
	return &mockChallengeRepo{
		byDate:   map[string]domain.DailyChallenge{},
		progress: map[uuid.UUID]domain.ChallengeProgress{},
	}
}

func (m *mockChallengeRepo) GetByDate(_ context.Context, date string) (domain.DailyChallenge, error) {
	c, ok := m.byDate[date]
	if !ok {
		return domain.DailyChallenge{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockChallengeRepo) Create(_ context.Context, c domain.DailyChallenge) error {
	if _, exists := m.byDate[c.Date]; !exists {
		m.byDate[c.Date] = c
	}
	return nil
}

func (m *mockChallengeRepo) GetProgress(_ context.Context, userID, challengeID uuid.UUID) (domain.ChallengeProgress, error) {
	p, ok := m.progress[userID]
	if !ok || p.ChallengeID != challengeID {
		return domain.ChallengeProgress{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockChallengeRepo) UpsertProgress(_ context.Context, p domain.ChallengeProgress) error {
	prior, ok := m.progress[p.UserID]
	if ok && prior.ChallengeID == p.ChallengeID {
		// mirror the SQL monotonicity guarantees
		if p.CurrentValue < prior.CurrentValue {
			p.CurrentValue = prior.CurrentValue
		}
		p.Completed = p.Completed || prior.Completed
		if prior.CompletedAt != nil {
			p.CompletedAt = prior.CompletedAt
		}
	}
	m.progress[p.UserID] = p
	return nil
}

type mockAchievementRepo struct {
	all    []domain.Achievement
	earned map[uuid.UUID][]domain.Achievement
}

func (m *mockAchievementRepo) ListAll(context.Context) ([]domain.Achievement, error) {
	return m.all, nil
}

func (m *mockAchievementRepo) ListEarned(_ context.Context, userID uuid.UUID) ([]domain.Achievement, error) {
	return m.earned[userID], nil
}

func (m *mockAchievementRepo) Award(_ context.Context, userID, achievementID uuid.UUID) (bool, error) {
	for _, a := range m.earned[userID] {
		if a.ID == achievementID {
			return false, nil
		}
	}
	for _, a := range m.all {
		if a.ID == achievementID {
			if m.earned == nil {
				m.earned = map[uuid.UUID][]domain.Achievement{}
			}
			m.earned[userID] = append(m.earned[userID], a)
			return true, nil
		}
	}
	return false, domain.ErrNotFound
}

func newTestService(users *mockUserRepo, challenges *mockChallengeRepo, achievements *mockAchievementRepo) *Service {
	if challenges == nil {
		challenges = newMockChallengeRepo()
	}
	if achievements == nil {
		achievements = &mockAchievementRepo{}
	}
	return NewService(slog.Default(), users, challenges, achievements)
}

// ---------------------------------------------------------------------------
// Streak
// ---------------------------------------------------------------------------

func TestRecordActivity_FirstEver(t *testing.T) {
	userID := uuid.New()
	var gotCurrent, gotLongest int

	svc := newTestService(&mockUserRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			return domain.User{ID: id}, nil
		},
		UpdateStreakFunc: func(_ context.Context, _ uuid.UUID, current, longest int, _ time.Time) error {
			gotCurrent, gotLongest = current, longest
			return nil
		},
	}, nil, nil)

	info, err := svc.RecordActivity(context.Background(), userID, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, info.CurrentStreak)
	assert.Equal(t, 1, info.LongestStreak)
	assert.Equal(t, 1, gotCurrent)
	assert.Equal(t, 1, gotLongest)
	require.NotNil(t, info.LastActivityDate)
}

func TestRecordActivity_IncorrectAttemptLeavesStreakUntouched(t *testing.T) {
	twoDaysAgo := time.Now().UTC().AddDate(0, 0, -2)

	svc := newTestService(&mockUserRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			return domain.User{ID: id, CurrentStreak: 4, LongestStreak: 9, LastActivityDate: &twoDaysAgo}, nil
		},
		UpdateStreakFunc: func(context.Context, uuid.UUID, int, int, time.Time) error {
			t.Fatal("incorrect attempts must not write streak counters")
			return nil
		},
	}, nil, nil)

	info, err := svc.RecordActivity(context.Background(), uuid.New(), false, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, info.CurrentStreak)
	assert.Equal(t, 9, info.LongestStreak)
	require.NotNil(t, info.LastActivityDate)
	assert.Equal(t, twoDaysAgo, *info.LastActivityDate)
}

func TestRecordActivity_ConsecutiveDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	svc := newTestService(&mockUserRepo{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			return domain.User{ID: id, CurrentStreak: 6, LongestStreak: 6, LastActivityDate: &yesterday}, nil
		},
		UpdateStreakFunc: func(context.Context, uuid.UUID, int, int, time.Time) error { return nil },
	}, nil, nil)

	info, err := svc.RecordActivity(context.Background(), uuid.New(), true, now)
	require.NoError(t, err)
	assert.Equal(t, 7, info.CurrentStreak)
	assert.Equal(t, 7, info.LongestStreak)
}

// ---------------------------------------------------------------------------
// Daily challenge
// ---------------------------------------------------------------------------

func TestTodaysChallenge_CreatedOnceAndStable(t *testing.T) {
	repo := newMockChallengeRepo()
	svc := newTestService(&mockUserRepo{}, repo, nil)

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	first, err := svc.TodaysChallenge(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", first.Date)
	assert.True(t, first.Type.IsValid())

	second, err := svc.TodaysChallenge(context.Background(), now.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.byDate, 1)
}

func TestBumpChallenge_CompletesAtTarget(t *testing.T) {
	repo := newMockChallengeRepo()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	repo.byDate[DateKey(now)] = domain.DailyChallenge{
		ID:           uuid.New(),
		Date:         DateKey(now),
		Type:         domain.ChallengeCompleteExercises,
		TargetValue:  3,
		PointsReward: 50,
	}
	svc := newTestService(&mockUserRepo{}, repo, nil)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		bonus, err := svc.BumpChallenge(context.Background(), userID, true, now)
		require.NoError(t, err)
		assert.Zero(t, bonus)
	}

	bonus, err := svc.BumpChallenge(context.Background(), userID, false, now)
	require.NoError(t, err)
	assert.Equal(t, 50, bonus)

	// already-completed challenge pays nothing more
	bonus, err = svc.BumpChallenge(context.Background(), userID, true, now)
	require.NoError(t, err)
	assert.Zero(t, bonus)

	_, progress, err := svc.ChallengeStatus(context.Background(), userID, now)
	require.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 3, progress.CurrentValue)
}

func TestBumpChallenge_PerfectAccuracyIgnoresMistakes(t *testing.T) {
	repo := newMockChallengeRepo()
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	repo.byDate[DateKey(now)] = domain.DailyChallenge{
		ID:          uuid.New(),
		Date:        DateKey(now),
		Type:        domain.ChallengePerfectAccuracy,
		TargetValue: 2,
	}
	svc := newTestService(&mockUserRepo{}, repo, nil)
	userID := uuid.New()

	_, err := svc.BumpChallenge(context.Background(), userID, false, now)
	require.NoError(t, err)

	_, progress, err := svc.ChallengeStatus(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Zero(t, progress.CurrentValue)

	_, err = svc.BumpChallenge(context.Background(), userID, true, now)
	require.NoError(t, err)
	_, progress, err = svc.ChallengeStatus(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CurrentValue)
}

func TestChallengeForDate_Deterministic(t *testing.T) {
	a := challengeForDate("2026-03-10")
	b := challengeForDate("2026-03-10")
	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, a.TargetValue, b.TargetValue)
	assert.Equal(t, a.Description, b.Description)
}

// ---------------------------------------------------------------------------
// Achievements
// ---------------------------------------------------------------------------

func achievementWith(code string, requirement int) domain.Achievement {
	return domain.Achievement{ID: uuid.New(), Code: code, RequirementValue: requirement}
}

func TestCheckAchievements_AwardsOnce(t *testing.T) {
	repo := &mockAchievementRepo{
		all: []domain.Achievement{
			achievementWith(codeFirstExercise, 0),
			achievementWith("streak_7", 7),
		},
		earned: map[uuid.UUID][]domain.Achievement{},
	}
	svc := newTestService(&mockUserRepo{}, nil, repo)
	userID := uuid.New()

	facts := AchievementFacts{TotalAttempts: 1, CurrentStreak: 2}
	awarded, err := svc.CheckAchievements(context.Background(), userID, facts)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, codeFirstExercise, awarded[0].Code)

	// second call finds nothing new
	awarded, err = svc.CheckAchievements(context.Background(), userID, facts)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	// streak achievement arrives when the streak does
	facts.CurrentStreak = 7
	awarded, err = svc.CheckAchievements(context.Background(), userID, facts)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "streak_7", awarded[0].Code)
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		name  string
		a     domain.Achievement
		facts AchievementFacts
		want  bool
	}{
		{"first exercise", achievementWith(codeFirstExercise, 0), AchievementFacts{TotalAttempts: 1}, true},
		{"first exercise unmet", achievementWith(codeFirstExercise, 0), AchievementFacts{}, false},
		{"perfect level", achievementWith(codePerfectLevel, 0), AchievementFacts{HasPerfectLevel: true}, true},
		{"class master", achievementWith(codeClassMaster, 10), AchievementFacts{CompletedCourses: 10}, true},
		{"class master unmet", achievementWith(codeClassMaster, 10), AchievementFacts{CompletedCourses: 9}, false},
		{"speed demon", achievementWith(codeSpeedDemon, 20), AchievementFacts{AttemptsToday: 25}, true},
		{"accuracy master", achievementWith(codeAccuracyMaster, 0), AchievementFacts{TotalAttempts: 50, OverallAccuracy: 96}, true},
		{"accuracy master too few attempts", achievementWith(codeAccuracyMaster, 0), AchievementFacts{TotalAttempts: 49, OverallAccuracy: 100}, false},
		{"streak from code suffix", achievementWith("streak_30", 0), AchievementFacts{CurrentStreak: 30}, true},
		{"unknown code", achievementWith("mystery", 0), AchievementFacts{TotalAttempts: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, qualifies(tt.a, tt.facts))
		})
	}
}
