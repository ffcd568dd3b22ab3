package config

import (
	"errors"
	"fmt"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// Configuration errors. Each is fatal and reported before any network access.
var (
	// ErrConfigNotFound is returned when an explicitly named settings or dates file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrMissingToken is returned when no API token is configured.
	ErrMissingToken = errors.New("missing GitHub token: set settings.token (authToken in config.ini) or LATEREPOS_TOKEN")

	// ErrMissingOrganization is returned when no organization is configured.
	ErrMissingOrganization = errors.New("missing organization: set settings.orgName or LATEREPOS_ORG")

	// ErrNoModules is returned when the active module source yields no modules.
	ErrNoModules = errors.New("no modules configured")

	// ErrMissingModuleField is returned when the settings module is only partially filled in.
	ErrMissingModuleField = errors.New("module requires module, startDate and endDate")

	// ErrInvalidGrace is returned for a negative or unrepresentably large grace period.
	ErrInvalidGrace = errors.New("invalid grace period")

	// ErrUnknownSource is returned when settings.source is neither rest nor graphql.
	ErrUnknownSource = errors.New("unknown source: must be rest or graphql")

	// ErrUnknownUpdateField is returned when settings.updateField is neither pushed nor updated.
	ErrUnknownUpdateField = errors.New("unknown update field: must be pushed or updated")
)

// ValidateGraceDays rejects grace periods outside [0, domain.MaxGraceDays].
func ValidateGraceDays(days int) error {
	if days < 0 || days > domain.MaxGraceDays {
		return fmt.Errorf("%w: %d is outside 0..%d days", ErrInvalidGrace, days, domain.MaxGraceDays)
	}
	return nil
}
