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

package config

import (
	"fmt"
	"path/filepath"

	"github.com/walteh/cfgpatch/pkg/document"
	"github.com/walteh/cfgpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is one rule-set file: a target, its rules and the post-condition
type Config struct {
	Name   string        `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty" hcl:"name,optional"`
	Target string        `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`
	Backup bool          `json:"backup,omitempty" toml:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	Atomic bool          `json:"atomic,omitempty" toml:"atomic,omitempty" yaml:"atomic,omitempty" hcl:"atomic,optional"`
	Rules  []RuleConfig  `json:"rules" toml:"rules" yaml:"rules" hcl:"rule,block"`
	Expect *ExpectConfig `json:"expect,omitempty" toml:"expect,omitempty" yaml:"expect,omitempty" hcl:"expect,block"`

	location string
}

// 🔄 RuleConfig is the file form of text.Rule
type RuleConfig struct {
	ID       string          `json:"id" toml:"id" yaml:"id" hcl:"id,label"`
	Kind     string          `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Match    string          `json:"match" toml:"match" yaml:"match" hcl:"match"`
	Replace  string          `json:"replace,omitempty" toml:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"`
	Unless   string          `json:"unless,omitempty" toml:"unless,omitempty" yaml:"unless,omitempty" hcl:"unless,optional"`
	Files    string          `json:"files,omitempty" toml:"files,omitempty" yaml:"files,omitempty" hcl:"files,optional"`
	Fallback *FallbackConfig `json:"fallback,omitempty" toml:"fallback,omitempty" yaml:"fallback,omitempty" hcl:"fallback,block"`
}

// FallbackConfig is tried when the primary rule changes nothing
type FallbackConfig struct {
	Kind    string `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Match   string `json:"match" toml:"match" yaml:"match" hcl:"match"`
	Replace string `json:"replace,omitempty" toml:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"`
}

// ✅ ExpectConfig is the file form of document.Expectation
type ExpectConfig struct {
	Contains []string `json:"contains,omitempty" toml:"contains,omitempty" yaml:"contains,omitempty" hcl:"contains,optional"`
	Excludes []string `json:"excludes,omitempty" toml:"excludes,omitempty" yaml:"excludes,omitempty" hcl:"excludes,optional"`
	Once     []string `json:"once,omitempty" toml:"once,omitempty" yaml:"once,omitempty" hcl:"once,optional"`
}

// 🔍 Validate checks that the config holds a usable rule set
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}
	set := cfg.RuleSet()
	if err := set.Validate(); err != nil {
		return errors.Errorf("rules: %w", err)
	}
	return nil
}

// RuleSet converts the configured rules
func (cfg *Config) RuleSet() text.RuleSet {
	set := text.RuleSet{
		Name:  cfg.Name,
		Rules: make([]text.Rule, 0, len(cfg.Rules)),
	}
	for _, r := range cfg.Rules {
		rule := text.Rule{
			ID:      r.ID,
			Kind:    text.Kind(r.Kind),
			Match:   r.Match,
			Replace: r.Replace,
			Unless:  r.Unless,
			Files:   r.Files,
		}
		if r.Fallback != nil {
			rule.Fallback = &text.Rule{
				Kind:    text.Kind(r.Fallback.Kind),
				Match:   r.Fallback.Match,
				Replace: r.Fallback.Replace,
			}
		}
		set.Rules = append(set.Rules, rule)
	}
	return set
}

// Expectation converts the configured post-condition
func (cfg *Config) Expectation() document.Expectation {
	if cfg.Expect == nil {
		return document.Expectation{}
	}
	return document.Expectation{
		Contains: cfg.Expect.Contains,
		Excludes: cfg.Expect.Excludes,
		Once:     cfg.Expect.Once,
	}
}

// 📍 TargetPath resolves Target relative to the file the config came from
func (cfg *Config) TargetPath() string {
	if cfg.Target == "" || filepath.IsAbs(cfg.Target) || cfg.location == "" {
		return cfg.Target
	}
	return filepath.Join(filepath.Dir(cfg.location), cfg.Target)
}

// Location is the path the config was loaded from, empty for presets
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	name := cfg.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s: %d rules -> %s", name, len(cfg.Rules), cfg.Target)
}
