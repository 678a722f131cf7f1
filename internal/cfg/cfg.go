package cfg

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

// Config adds service-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	YellowThreshold       int
	RedThreshold          int
	PushCooldown          time.Duration
	DispatchInterval      time.Duration
	DatabaseURL           string
	SlackWebhookURL       string
	APITokens             string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.IntVar(&c.YellowThreshold, "yellow-threshold", 4, "symptom score at which a yellow alert is raised")
	fs.IntVar(&c.RedThreshold, "red-threshold", 7, "symptom score at which a red alert is raised (must exceed yellow)")
	fs.DurationVar(&c.PushCooldown, "push-cooldown", 24*time.Hour, "window in which an auto push of the same material is suppressed")
	fs.DurationVar(&c.DispatchInterval, "dispatch-interval", time.Hour, "interval between automatic dispatch sweeps (0 disables the ticker)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory stores)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for red alert notifications")
	fs.StringVar(&c.APITokens, "api-tokens", "", "bearer token to operator map, \"token=operator,...\" (empty disables auth)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// Triage thresholds: yellow must be positive and below red
	if c.YellowThreshold <= 0 {
		errs = append(errs, fmt.Errorf("invalid YELLOW_THRESHOLD %d (must be positive)", c.YellowThreshold))
	}
	if c.RedThreshold <= c.YellowThreshold {
		errs = append(errs, fmt.Errorf("RED_THRESHOLD %d must be greater than YELLOW_THRESHOLD %d", c.RedThreshold, c.YellowThreshold))
	}

	if c.PushCooldown <= 0 {
		errs = append(errs, fmt.Errorf("invalid PUSH_COOLDOWN %s (must be positive)", c.PushCooldown))
	}
	if c.DispatchInterval < 0 {
		errs = append(errs, fmt.Errorf("invalid DISPATCH_INTERVAL %s (must be >= 0)", c.DispatchInterval))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
