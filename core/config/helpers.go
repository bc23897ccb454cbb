package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GetAllSettings returns the non-secret settings currently loaded in memory.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":                Global.App.Debug,
		"app_version":              Global.App.Version,
		"db_driver":                Global.Database.Driver,
		"valkey_enabled":           Global.Database.ValkeyEnabled,
		"wizard_profile":           Global.Wizard.Profile,
		"wizard_autosave_debounce": Global.Wizard.AutosaveDebounce.String(),
		"wizard_draft_ttl":         Global.Wizard.DraftTTL.String(),
		"wizard_discover_models":   Global.Wizard.DiscoverModels,
		"wizard_worker_pool_size":  Global.WorkerPool.Size,
		"wizard_worker_queue_size": Global.WorkerPool.QueueSize,
	}
}

// Helpers

// lookup prefers viper and falls back to the raw environment when
// LoadConfig has not run yet.
func lookup(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(key)
}

func getEnv(key, fallback string) string {
	if v := lookup(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := lookup(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := lookup(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}

// getEnvDuration accepts Go durations ("1500ms") or bare milliseconds ("1500").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(lookup(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return fallback
}
