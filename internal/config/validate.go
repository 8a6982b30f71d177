package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be in [4,31] (got %d)", c.Auth.BcryptCost)
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}

	if c.Progress.DefaultRequiredScore < 0 || c.Progress.DefaultRequiredScore > 100 {
		return fmt.Errorf("progress.default_required_score must be a percentage (got %d)", c.Progress.DefaultRequiredScore)
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.DefaultEaseFactor < s.MinEaseFactor {
		return fmt.Errorf("default_ease_factor must be >= min_ease_factor (got %v < %v)", s.DefaultEaseFactor, s.MinEaseFactor)
	}
	if s.MaxIntervalDays <= 0 {
		return fmt.Errorf("max_interval_days must be > 0 (got %d)", s.MaxIntervalDays)
	}
	if s.FirstReviewDelay < 0 {
		return fmt.Errorf("first_review_delay must be >= 0 (got %v)", s.FirstReviewDelay)
	}
	if s.DueLimitDefault <= 0 {
		return fmt.Errorf("due_limit_default must be > 0 (got %d)", s.DueLimitDefault)
	}
	if s.DueLimitMax < s.DueLimitDefault {
		return fmt.Errorf("due_limit_max must be >= due_limit_default (got %d < %d)", s.DueLimitMax, s.DueLimitDefault)
	}
	return nil
}
