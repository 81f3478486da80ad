package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dirvault/dirvault/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidCronExpression indicates the recurrence expression failed to parse.
	ErrInvalidCronExpression = errors.New("invalid cron expression")

	// ErrCronNeverFires indicates an expression that parses but has no
	// occurrence, such as "0 0 31 2 *" (February 31st).
	ErrCronNeverFires = errors.New("cron expression never fires")

	// ErrEmptySuffix indicates an exclusion suffix without a leading dot.
	ErrEmptySuffix = errors.New("exclude suffix must start with a dot")
)

// cronParser accepts the standard five-field syntax (minute, hour,
// day-of-month, month, day-of-week).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.CronExpression != "" {
		sched, err := cronParser.Parse(strings.TrimSpace(cfg.CronExpression))
		switch {
		case err != nil:
			errs = append(errs, &FieldError{
				Field: "cron_expression",
				Value: cfg.CronExpression,
				Err:   ErrInvalidCronExpression,
			})
		case sched.Next(time.Now()).IsZero():
			errs = append(errs, &FieldError{
				Field: "cron_expression",
				Value: cfg.CronExpression,
				Err:   ErrCronNeverFires,
			})
		}
	}

	for _, field := range []struct{ name, value string }{
		{"root_path", cfg.RootPath},
		{"backup_path", cfg.BackupPath},
	} {
		if field.value == "" {
			continue
		}
		if err := validatePath(field.value); err != nil {
			errs = append(errs, &FieldError{
				Field: field.name,
				Value: field.value,
				Err:   err,
			})
		}
	}

	for _, suffix := range cfg.ExcludeSuffixes {
		if !strings.HasPrefix(suffix, ".") {
			errs = append(errs, &FieldError{
				Field: "exclude_suffixes",
				Value: suffix,
				Err:   ErrEmptySuffix,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return paths.ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return paths.ErrInvalidPath
	}

	return nil
}

// FieldError represents a validation error for a specific config field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
