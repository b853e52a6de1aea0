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
	"context"
	"embed"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultTarget is patched when neither a flag nor the config names a file
const DefaultTarget = "pom.xml"

// EnvConfigDir overrides the user config directory
const EnvConfigDir = "CFGPATCH_CONFIG_DIR"

//go:embed presets/*.yaml
var presetFS embed.FS

// 📦 PresetNames lists the built-in rule sets in run order
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// 🎁 Preset loads a rule set by name.
// Built-in presets win over user presets with the same name.
func Preset(ctx context.Context, name string) (*Config, error) {
	file := path.Join("presets", name+".yaml")
	data, err := presetFS.ReadFile(file)
	if err != nil {
		if cfg, ok, err := userPreset(ctx, name); ok || err != nil {
			return cfg, err
		}
		available := append(PresetNames(), UserPresetNames()...)
		return nil, errors.Errorf("unknown preset %q (available: %s)", name, strings.Join(available, ", "))
	}

	cfg, err := Parse(ctx, file, data)
	if err != nil {
		return nil, errors.Errorf("loading preset %q: %w", name, err)
	}
	return cfg, nil
}

// Presets loads every built-in rule set in run order
func Presets(ctx context.Context) ([]*Config, error) {
	var cfgs []*Config
	for _, name := range PresetNames() {
		cfg, err := Preset(ctx, name)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

// 📂 UserPresetDir is where user presets live: $CFGPATCH_CONFIG_DIR/presets,
// else $XDG_CONFIG_HOME/cfgpatch/presets
func UserPresetDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, "presets")
	}
	return filepath.Join(xdg.ConfigHome, "cfgpatch", "presets")
}

// UserPresetNames lists the parseable files in UserPresetDir, minus the
// ones shadowed by a built-in preset
func UserPresetNames() []string {
	entries, err := os.ReadDir(UserPresetDir())
	if err != nil {
		return nil
	}

	builtin := make(map[string]bool)
	for _, name := range PresetNames() {
		builtin[name] = true
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() || GetParser(e.Name()) == nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if builtin[name] || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UserPresets loads every user preset
func UserPresets(ctx context.Context) ([]*Config, error) {
	var cfgs []*Config
	for _, name := range UserPresetNames() {
		cfg, _, err := userPreset(ctx, name)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}

// userPreset loads name from UserPresetDir. Targets stay relative to the
// working directory, like the built-in presets.
func userPreset(ctx context.Context, name string) (*Config, bool, error) {
	dir := UserPresetDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, nil
	}

	for _, e := range entries {
		if e.IsDir() || strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())) != name || GetParser(e.Name()) == nil {
			continue
		}

		file := filepath.Join(dir, e.Name())
		zerolog.Ctx(ctx).Debug().Str("preset", name).Str("path", file).Msg("loading user preset")

		cfg, err := Load(ctx, file)
		if err != nil {
			return nil, true, errors.Errorf("loading preset %q: %w", name, err)
		}
		if cfg.Name == "" {
			cfg.Name = name
		}
		cfg.location = ""
		return cfg, true, nil
	}
	return nil, false, nil
}
