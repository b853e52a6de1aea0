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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgpatch/pkg/text"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_config",
			filename: ".cfgpatch.yaml",
			config: `
name: bump
target: build/pom.xml
backup: true
rules:
  - id: xgboost
    match: "<version>1.6.1</version>"
    replace: "<version>1.7.3</version>"
    files: "**/pom.xml"
    fallback:
      kind: pattern
      match: '1\.6\.1'
      replace: "1.7.3"
  - id: repos
    kind: insert
    match: "</project>"
    replace: "<repositories/>"
    unless: "<repositories"
expect:
  contains: ["1.7.3"]
  once: ["</project>"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "bump", cfg.Name)
				assert.True(t, cfg.Backup)
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "xgboost", cfg.Rules[0].ID)
				assert.Equal(t, "**/pom.xml", cfg.Rules[0].Files)
				require.NotNil(t, cfg.Rules[0].Fallback)
				assert.Equal(t, `1\.6\.1`, cfg.Rules[0].Fallback.Match)
				assert.Equal(t, "<repositories", cfg.Rules[1].Unless)

				exp := cfg.Expectation()
				assert.Equal(t, []string{"1.7.3"}, exp.Contains)
				assert.Equal(t, []string{"</project>"}, exp.Once)
			},
		},
		{
			name:     "json_config",
			filename: "rules.json",
			config: `{
  "name": "json",
  "rules": [{"id": "a", "match": "foo", "replace": "bar"}]
}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Name)
				require.Len(t, cfg.Rules, 1)
				assert.Equal(t, "bar", cfg.Rules[0].Replace)
				assert.True(t, cfg.Expectation().IsZero())
			},
		},
		{
			name:     "hcl_config",
			filename: "rules.hcl",
			config: `
name   = "hcl"
target = default_target
atomic = true

rule "version" {
  kind    = "pattern"
  match   = "1\\.6\\.1"
  replace = "1.7.3"
}

rule "repos" {
  kind    = "insert"
  match   = "</project>"
  replace = "<repositories/>"
  unless  = "<repositories"

  fallback {
    kind    = "insert"
    match   = "</settings>"
    replace = "<repositories/>"
  }
}

expect {
  contains = ["1.7.3"]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "hcl", cfg.Name)
				assert.Equal(t, DefaultTarget, cfg.Target)
				assert.True(t, cfg.Atomic)
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "version", cfg.Rules[0].ID)
				assert.Equal(t, `1\.6\.1`, cfg.Rules[0].Match)
				require.NotNil(t, cfg.Rules[1].Fallback)
				assert.Equal(t, "</settings>", cfg.Rules[1].Fallback.Match)
				assert.Equal(t, []string{"1.7.3"}, cfg.Expectation().Contains)
			},
		},
		{
			name:     "toml_config",
			filename: "rules.toml",
			config: `
name = "toml"
target = "pom.xml"

[[rules]]
id = "cut"
kind = "truncate"
match = "</project>"

[[rules]]
id = "bump"
match = "<version>1.6.1</version>"
replace = "<version>1.7.3</version>"

[rules.fallback]
kind = "pattern"
match = '1\.6\.1'
replace = "1.7.3"

[expect]
once = ["</project>"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "toml", cfg.Name)
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "truncate", cfg.Rules[0].Kind)
				assert.Nil(t, cfg.Rules[0].Fallback)
				require.NotNil(t, cfg.Rules[1].Fallback)
				assert.Equal(t, `1\.6\.1`, cfg.Rules[1].Fallback.Match)
				assert.Equal(t, []string{"</project>"}, cfg.Expectation().Once)
			},
		},
		{
			name:        "unknown_toml_field",
			filename:    "rules.toml",
			config:      "x = 1\n[[rules]]\nid = \"a\"\nmatch = \"x\"\n",
			errContains: "parsing TOML",
		},
		{
			name:     "unknown_yaml_field",
			filename: "rules.yaml",
			config: `
rules:
  - id: a
    match: foo
    replce: bar
`,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "rules.json",
			config:      `{"rules": [{"id": "a", "match": "x"}], "extra": true}`,
			errContains: "parsing JSON",
		},
		{
			name:        "invalid_hcl",
			filename:    "rules.hcl",
			config:      `rule "a" {`,
			errContains: "parsing HCL",
		},
		{
			name:        "no_rules",
			filename:    "rules.yaml",
			config:      "name: empty\n",
			errContains: "at least one rule is required",
		},
		{
			name:     "invalid_rule",
			filename: "rules.yaml",
			config: `
rules:
  - id: bad
    kind: pattern
    match: "(oops"
`,
			errContains: "compiling pattern",
		},
		{
			name:        "unsupported_extension",
			filename:    "rules.ini",
			config:      "x = 1",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			dir := t.TempDir()
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0o644))

			cfg, err := Load(ctx, path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_TargetPath(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{Target: "pom.xml", location: filepath.Join(dir, ".cfgpatch.yaml")}
	assert.Equal(t, filepath.Join(dir, "pom.xml"), cfg.TargetPath())

	cfg = &Config{Target: "/abs/pom.xml", location: filepath.Join(dir, ".cfgpatch.yaml")}
	assert.Equal(t, "/abs/pom.xml", cfg.TargetPath())

	cfg = &Config{Target: "pom.xml"}
	assert.Equal(t, "pom.xml", cfg.TargetPath())

	cfg = &Config{}
	assert.Equal(t, "", cfg.TargetPath())
}

func TestConfig_RuleSet(t *testing.T) {
	cfg := &Config{
		Name: "set",
		Rules: []RuleConfig{
			{ID: "a", Kind: "literal", Match: "x", Replace: "y", Unless: "z", Files: "*.xml",
				Fallback: &FallbackConfig{Kind: "pattern", Match: "x+", Replace: "y"}},
			{ID: "b", Match: "</p>", Kind: "truncate"},
		},
	}

	set := cfg.RuleSet()
	assert.Equal(t, "set", set.Name)
	require.Len(t, set.Rules, 2)
	assert.Equal(t, text.KindLiteral, set.Rules[0].Kind)
	assert.Equal(t, "z", set.Rules[0].Unless)
	assert.Equal(t, "*.xml", set.Rules[0].Files)
	require.NotNil(t, set.Rules[0].Fallback)
	assert.Equal(t, text.KindPattern, set.Rules[0].Fallback.Kind)
	assert.Equal(t, text.KindTruncate, set.Rules[1].Kind)
	assert.Nil(t, set.Rules[1].Fallback)
	require.NoError(t, set.Validate())
}
