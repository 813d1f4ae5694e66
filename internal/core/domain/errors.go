package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid campaign config")

	ErrCampaignNotFound = errors.New("campaign not found")
	ErrCampaignInactive = errors.New("campaign is not enabled")
)

// InvalidConfigError reports a campaign configuration that violates a
// precondition of evaluation or persistence. Field names the offending
// JSON field.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidConfig, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for any InvalidConfigError.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
