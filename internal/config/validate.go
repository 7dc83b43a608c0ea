package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	// Credit costs must stay positive or the guard would grant free actions
	if c.Credits.ValidationCost < 1 {
		errs = append(errs, fmt.Sprintf("CREDITS_VALIDATION_COST must be positive, got %d", c.Credits.ValidationCost))
	}
	if c.Credits.DeepResearchCost < 1 {
		errs = append(errs, fmt.Sprintf("CREDITS_DEEP_RESEARCH_COST must be positive, got %d", c.Credits.DeepResearchCost))
	}

	if c.RateLimit.AuthMaxRequests < 1 {
		errs = append(errs, "RATELIMIT_AUTH_MAX_REQUESTS must be positive")
	}
	if c.RateLimit.AuthWindowSec < 1 {
		errs = append(errs, "RATELIMIT_AUTH_WINDOW_SEC must be positive")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
