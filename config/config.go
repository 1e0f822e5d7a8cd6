// ABOUTME: Runtime configuration read from the environment via viper
// ABOUTME: PIPELINE_ prefixed keys with XDG-based data directory defaults
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config groups the application settings.
type Config struct {
	// DataDir holds the snapshot database. Defaults under the XDG data home.
	DataDir string
	// AtomicImport discards a whole import batch when any row is invalid.
	// Off by default to preserve the historical non-atomic merge behavior.
	AtomicImport bool
	LogEnv       string // development -> console output; anything else -> JSON
	LogLevel     string // trace, debug, info, warn, error
}

// Load reads configuration from PIPELINE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PIPELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", filepath.Join(xdg.DataHome, "pipeline"))
	v.SetDefault("atomic_import", false)
	v.SetDefault("log_env", "development")
	v.SetDefault("log_level", "info")

	return &Config{
		DataDir:      v.GetString("data_dir"),
		AtomicImport: v.GetBool("atomic_import"),
		LogEnv:       v.GetString("log_env"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}

// SnapshotPath returns the snapshot database location inside the data dir.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "snapshots")
}
