// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the sinkholed daemon configuration from HCL.
package config

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"grimm.is/sinkhole/internal/errors"
	"grimm.is/sinkhole/internal/logging"
)

// Config is the daemon configuration. Every field is optional; the zero
// file is a working deployment.
type Config struct {
	// Listen is the API listen address.
	Listen string `hcl:"listen,optional" json:"listen,omitempty"`

	// DataDir holds the sqlite databases.
	DataDir string `hcl:"data_dir,optional" json:"data_dir,omitempty"`

	// SettingsPath is the operator-editable runtime settings file
	// (privacy level, exclusions, display filter).
	SettingsPath string `hcl:"settings_path,optional" json:"settings_path,omitempty"`

	// RetentionDays bounds the long-term query log; rows older than this
	// are purged. 0 keeps everything.
	RetentionDays int `hcl:"retention_days,optional" json:"retention_days,omitempty"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty"`

	Syslog *logging.SyslogConfig `hcl:"syslog,block" json:"syslog,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:        "127.0.0.1:4711",
		DataDir:       "/var/lib/sinkhole",
		SettingsPath:  "/etc/sinkhole/settings.yaml",
		RetentionDays: 365,
		LogLevel:      "info",
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, errors.KindUnavailable, "read config %s", path)
	}

	if err := hclsimple.Decode(path, data, nil, cfg); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New(errors.KindValidation, "listen address must not be empty")
	}
	if c.RetentionDays < 0 {
		return errors.Errorf(errors.KindValidation, "retention_days must not be negative: %d", c.RetentionDays)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Errorf(errors.KindValidation, "unknown log_level %q", c.LogLevel)
	}
	if c.Syslog != nil && c.Syslog.Enabled {
		switch c.Syslog.Protocol {
		case "", "udp", "tcp":
		default:
			return errors.Errorf(errors.KindValidation, "unknown syslog protocol %q", c.Syslog.Protocol)
		}
	}
	return nil
}

// GravityDBPath is the list database location.
func (c *Config) GravityDBPath() string {
	return filepath.Join(c.DataDir, "gravity.db")
}

// QueryLogDBPath is the long-term query log location.
func (c *Config) QueryLogDBPath() string {
	return filepath.Join(c.DataDir, "queries.db")
}
