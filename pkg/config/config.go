// Copyright 2025 walteh LLC
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

// Package config loads edrn's optional configuration file. Formats are
// extension-dispatched through a parser registry: HCL, YAML, and JSON.
// A config file only sets defaults; CLI flags always win.
package config

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Default file names probed, in order, when no --config flag is given.
var defaultLocations = []string{".edrn.hcl", ".edrn.yaml", ".edrn.yml", ".edrn.json"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Editor    string `json:"editor,omitempty" yaml:"editor,omitempty"`         // Editor command, overrides $EDITOR
	TempToken string `json:"temp_token,omitempty" yaml:"temp_token,omitempty"` // Token embedded in staging names
	Force     bool   `json:"force,omitempty" yaml:"force,omitempty"`           // Overwrite existing destinations
	Resolve   bool   `json:"resolve,omitempty" yaml:"resolve,omitempty"`       // Stage conflicting renames
	DryRun    bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`       // Preview only
}

// ✅ Validate checks the configuration for problems flags cannot fix.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.TempToken, "/\x00") {
		return errors.Errorf("temp_token must not contain path separators: %q", c.TempToken)
	}
	return nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 LoadDefault probes the default locations in the current directory.
// No config file at all is not an error; the zero Config is valid.
func LoadDefault(ctx context.Context) (*Config, error) {
	for _, path := range defaultLocations {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(ctx, path)
	}
	return &Config{}, nil
}
