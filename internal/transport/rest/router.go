package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Submit       *SubmitHandler
	Catalog      *CatalogHandler
	SRS          *SRSHandler
	Gamification *GamificationHandler
	Leaderboard  *LeaderboardHandler
	Health       *HealthHandler
}

// NewRouter mounts all REST routes on a ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)

	mux.HandleFunc("POST /api/exercises/{id}/submit", h.Submit.Submit)
	mux.HandleFunc("GET /api/exercises/public-stats", h.Catalog.PublicStats)

	mux.HandleFunc("GET /api/classes", h.Catalog.Classes)
	mux.HandleFunc("GET /api/classes/{id}/courses", h.Catalog.ClassCourses)
	mux.HandleFunc("GET /api/courses/{id}/levels", h.Catalog.CourseLevels)
	mux.HandleFunc("GET /api/levels/{id}/exercises", h.Catalog.LevelExercises)

	mux.HandleFunc("GET /api/gamification/srs/due/{user_id}", h.SRS.Due)
	mux.HandleFunc("POST /api/gamification/srs/review", h.SRS.Review)
	mux.HandleFunc("GET /api/gamification/srs/stats/{user_id}", h.SRS.Stats)

	mux.HandleFunc("GET /api/gamification/streak/{user_id}", h.Gamification.Streak)
	mux.HandleFunc("GET /api/gamification/daily-challenge", h.Gamification.DailyChallenge)
	mux.HandleFunc("GET /api/gamification/achievements", h.Gamification.Achievements)
	mux.HandleFunc("GET /api/gamification/achievements/{user_id}", h.Gamification.Achievements)

	mux.HandleFunc("GET /api/leaderboard", h.Leaderboard.Top)

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return mux
}
