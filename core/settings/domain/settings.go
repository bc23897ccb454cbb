package domain

import "context"

// Setting is a runtime override stored in the database. It wins over the
// environment for the keys below.
type Setting struct {
	Key   string
	Value string
}

// ISettingsRepository defines the contract for persisting dynamic settings.
type ISettingsRepository interface {
	// Get returns "" and no error when key is unset.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error

	// InitSchema creates the necessary tables
	InitSchema(ctx context.Context) error
}

const (
	KeyWizardProfile        = "wizard_profile"
	KeyWizardAutosaveMs     = "wizard_autosave_debounce_ms"
	KeyWizardDraftTTLHours  = "wizard_draft_ttl_hours"
	KeyWizardDiscoverModels = "wizard_discover_models"
)
