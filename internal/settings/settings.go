// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package settings reads the operator-editable runtime settings file: the
// privacy level, the reporting exclusion lists and the query log display
// filter. The file is YAML, edited out-of-band, and picked up without a
// restart: every read checks the file's mtime, and an optional watcher
// reloads on write events.
package settings

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"grimm.is/sinkhole/internal/errors"
	"grimm.is/sinkhole/internal/logging"
	"grimm.is/sinkhole/internal/stats"
)

// Display filter values for QueryDisplay.
const (
	DisplayAll       = "all"
	DisplayPermitted = "permittedonly"
	DisplayBlocked   = "blockedonly"
	DisplayNothing   = "nothing"
)

// Settings is the on-disk document. The zero value discloses everything.
type Settings struct {
	// PrivacyLevel: 0 shows all, 1 hides domains, 2 hides domains and
	// clients, 3 suppresses per-query detail entirely.
	PrivacyLevel int `yaml:"privacy_level"`

	// ExcludeDomains and ExcludeClients are dropped from rankings and
	// the per-client time series. Clients match by IP or host name.
	ExcludeDomains []string `yaml:"exclude_domains"`
	ExcludeClients []string `yaml:"exclude_clients"`

	// QueryDisplay limits which outcome classes the query views surface:
	// all, permittedonly, blockedonly or nothing.
	QueryDisplay string `yaml:"query_display"`
}

// Store serves the settings file. It implements the policy source consumed
// by the statistics engine.
type Store struct {
	path string

	mu    sync.RWMutex
	cur   Settings
	mtime time.Time
}

// Open loads path. A missing file is not an error: the defaults apply
// until the operator creates it.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

// Current returns the settings in force right now.
func (s *Store) Current() Settings {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// PrivacyLevel implements stats.PolicySource.
func (s *Store) PrivacyLevel() stats.PrivacyLevel {
	lvl := stats.PrivacyLevel(s.Current().PrivacyLevel)
	if lvl < stats.PrivacyShowAll {
		lvl = stats.PrivacyShowAll
	}
	if lvl > stats.PrivacyMaximum {
		lvl = stats.PrivacyMaximum
	}
	return lvl
}

// ExcludedDomains implements stats.PolicySource.
func (s *Store) ExcludedDomains() []string { return s.Current().ExcludeDomains }

// ExcludedClients implements stats.PolicySource.
func (s *Store) ExcludedClients() []string { return s.Current().ExcludeClients }

// QueryDisplay implements stats.PolicySource.
func (s *Store) QueryDisplay() (showPermitted, showBlocked bool) {
	switch s.Current().QueryDisplay {
	case DisplayPermitted:
		return true, false
	case DisplayBlocked:
		return false, true
	case DisplayNothing:
		return false, false
	default:
		return true, true
	}
}

// maybeReload re-reads the file when its mtime moved. A vanished or broken
// file keeps the last good settings; the engine must not lose its policy
// over an editor mid-save.
func (s *Store) maybeReload() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}
	s.mu.RLock()
	unchanged := info.ModTime().Equal(s.mtime)
	s.mu.RUnlock()
	if unchanged {
		return
	}
	if err := s.reload(); err != nil {
		logging.Warn("[SETTINGS] reload failed, keeping previous: %v", err)
	}
}

func (s *Store) reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return errors.Wrapf(err, errors.KindUnavailable, "read settings %s", s.path)
	}
	var next Settings
	if err := yaml.Unmarshal(raw, &next); err != nil {
		return errors.Wrapf(err, errors.KindValidation, "parse settings %s", s.path)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return errors.Wrap(err, errors.KindUnavailable, "stat settings file")
	}

	s.mu.Lock()
	s.cur = next
	s.mtime = info.ModTime()
	s.mu.Unlock()

	logging.Debug("[SETTINGS] loaded %s privacy=%d display=%q", s.path, next.PrivacyLevel, next.QueryDisplay)
	return nil
}
