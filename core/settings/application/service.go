package application

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/AzielCF/az-console/core/config"
	"github.com/AzielCF/az-console/core/settings/domain"
	pkgError "github.com/AzielCF/az-console/pkg/error"
)

type SettingsService struct {
	repo domain.ISettingsRepository
}

func NewSettingsServiceWithDeps(repo domain.ISettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// WizardSettings are the stored overrides; nil or empty means "use env".
type WizardSettings struct {
	Profile        string `json:"profile,omitempty"`
	AutosaveMs     *int   `json:"autosave_debounce_ms,omitempty"`
	DraftTTLHours  *int   `json:"draft_ttl_hours,omitempty"`
	DiscoverModels *bool  `json:"discover_models,omitempty"`
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func (s *SettingsService) Init(ctx context.Context) error {
	return s.repo.InitSchema(ctx)
}

func (s *SettingsService) GetWizardSettings(ctx context.Context) (WizardSettings, error) {
	var ws WizardSettings

	val, err := s.repo.Get(ctx, domain.KeyWizardProfile)
	if err != nil {
		return ws, err
	}
	ws.Profile = val

	if val, _ := s.repo.Get(ctx, domain.KeyWizardAutosaveMs); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			ws.AutosaveMs = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyWizardDraftTTLHours); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			ws.DraftTTLHours = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyWizardDiscoverModels); val != "" {
		on := parseBool(val)
		ws.DiscoverModels = &on
	}
	return ws, nil
}

// SaveWizardSettings stores every non-empty field. validProfile rejects
// unknown profile names.
func (s *SettingsService) SaveWizardSettings(ctx context.Context, ws WizardSettings, validProfile func(string) bool) error {
	if ws.Profile != "" {
		if validProfile != nil && !validProfile(ws.Profile) {
			return pkgError.ValidationError("profile: unknown wizard profile.")
		}
		if err := s.repo.Set(ctx, domain.KeyWizardProfile, ws.Profile); err != nil {
			return err
		}
	}
	if ws.AutosaveMs != nil {
		if *ws.AutosaveMs <= 0 {
			return pkgError.ValidationError("autosave_debounce_ms: must be positive.")
		}
		if err := s.repo.Set(ctx, domain.KeyWizardAutosaveMs, strconv.Itoa(*ws.AutosaveMs)); err != nil {
			return err
		}
	}
	if ws.DraftTTLHours != nil {
		if *ws.DraftTTLHours <= 0 {
			return pkgError.ValidationError("draft_ttl_hours: must be positive.")
		}
		if err := s.repo.Set(ctx, domain.KeyWizardDraftTTLHours, strconv.Itoa(*ws.DraftTTLHours)); err != nil {
			return err
		}
	}
	if ws.DiscoverModels != nil {
		val := "0"
		if *ws.DiscoverModels {
			val = "1"
		}
		if err := s.repo.Set(ctx, domain.KeyWizardDiscoverModels, val); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo copies the overrides onto cfg.
func (ws WizardSettings) ApplyTo(cfg *config.WizardConfig) {
	if ws.Profile != "" {
		cfg.Profile = ws.Profile
	}
	if ws.AutosaveMs != nil {
		cfg.AutosaveDebounce = time.Duration(*ws.AutosaveMs) * time.Millisecond
	}
	if ws.DraftTTLHours != nil {
		cfg.DraftTTL = time.Duration(*ws.DraftTTLHours) * time.Hour
	}
	if ws.DiscoverModels != nil {
		cfg.DiscoverModels = *ws.DiscoverModels
	}
}
