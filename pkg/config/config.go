// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/opmeter/pkg/defaults"
	"github.com/NVIDIA/opmeter/pkg/errors"
)

// Settings holds the tunables read by meters on every creation and transition.
type Settings struct {
	PrintCategory  bool          `json:"printCategory" yaml:"printCategory"`
	PrintOperation bool          `json:"printOperation" yaml:"printOperation"`
	PrintPosition  bool          `json:"printPosition" yaml:"printPosition"`
	PrintSession   bool          `json:"printSession" yaml:"printSession"`
	LogCreate      bool          `json:"logCreate" yaml:"logCreate"`
	LogData        bool          `json:"logData" yaml:"logData"`
	Telemetry      bool          `json:"telemetry" yaml:"telemetry"`
	ProgressPeriod time.Duration `json:"progressPeriod" yaml:"progressPeriod"`
	TimeLimit      time.Duration `json:"timeLimit" yaml:"timeLimit"`
	// RedactKeys are wildcard patterns of context keys dropped before rendering.
	RedactKeys []string `json:"redactKeys,omitempty" yaml:"redactKeys,omitempty"`
}

// Default returns the settings built from package defaults.
func Default() Settings {
	return Settings{
		PrintCategory:  defaults.PrintCategory,
		PrintOperation: defaults.PrintOperation,
		PrintPosition:  defaults.PrintPosition,
		PrintSession:   defaults.PrintSession,
		LogCreate:      defaults.LogCreate,
		LogData:        defaults.LogData,
		Telemetry:      defaults.Telemetry,
		ProgressPeriod: defaults.ProgressPeriod,
		TimeLimit:      defaults.TimeLimit,
	}
}

// Validate checks that durations are not negative.
func (s Settings) Validate() error {
	if s.ProgressPeriod < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "progressPeriod cannot be negative")
	}
	if s.TimeLimit < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "timeLimit cannot be negative")
	}
	return nil
}

// Load reads YAML settings from path on top of Default().
// Keys absent from the file keep their default value.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("failed to read config %s", path), err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("failed to parse config %s", path), err)
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// FromEnv applies OPMETER_* environment overrides to base.
func FromEnv(base Settings) (Settings, error) {
	return fromEnv(base, os.LookupEnv)
}

func fromEnv(base Settings, lookup func(string) (string, bool)) (Settings, error) {
	s := base
	bools := []struct {
		name string
		dst  *bool
	}{
		{"PRINT_CATEGORY", &s.PrintCategory},
		{"PRINT_OPERATION", &s.PrintOperation},
		{"PRINT_POSITION", &s.PrintPosition},
		{"PRINT_SESSION", &s.PrintSession},
		{"LOG_CREATE", &s.LogCreate},
		{"LOG_DATA", &s.LogData},
		{"TELEMETRY", &s.Telemetry},
	}
	for _, b := range bools {
		v, ok := lookup(defaults.EnvPrefix + b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return base, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid boolean override", err,
				map[string]any{"env": defaults.EnvPrefix + b.name})
		}
		*b.dst = parsed
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"PROGRESS_PERIOD", &s.ProgressPeriod},
		{"TIME_LIMIT", &s.TimeLimit},
	}
	for _, d := range durations {
		v, ok := lookup(defaults.EnvPrefix + d.name)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return base, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid duration override", err,
				map[string]any{"env": defaults.EnvPrefix + d.name})
		}
		*d.dst = parsed
	}

	if v, ok := lookup(defaults.EnvPrefix + "REDACT_KEYS"); ok {
		s.RedactKeys = nil
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				s.RedactKeys = append(s.RedactKeys, k)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// Source provides the settings in effect right now.
type Source interface {
	Current() Settings
}

// Store is a concurrency-safe, swappable Settings holder.
type Store struct {
	p atomic.Pointer[Settings]
}

// NewStore returns a store holding s.
func NewStore(s Settings) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

// Current returns a copy of the stored settings.
func (st *Store) Current() Settings {
	if p := st.p.Load(); p != nil {
		s := *p
		s.RedactKeys = append([]string(nil), p.RedactKeys...)
		return s
	}
	return Default()
}

// Set replaces the stored settings; meters see them on their next transition.
func (st *Store) Set(s Settings) {
	s.RedactKeys = append([]string(nil), s.RedactKeys...)
	st.p.Store(&s)
}

var global = NewStore(Default())

// Global returns the process-wide settings source.
func Global() Source { return global }

// Current returns the process-wide settings.
func Current() Settings { return global.Current() }

// Set replaces the process-wide settings.
func Set(s Settings) { global.Set(s) }
