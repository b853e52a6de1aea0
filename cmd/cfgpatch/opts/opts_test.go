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

package opts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/cfgpatch/pkg/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestTargets(t *testing.T) {
	tests := []struct {
		name        string
		opts        RootOpts
		files       map[string]string
		errContains string
		check       func(t *testing.T, targets []Target)
	}{
		{
			name: "all_presets_by_default",
			check: func(t *testing.T, targets []Target) {
				require.Len(t, targets, 2)
				for i, name := range config.PresetNames() {
					assert.Equal(t, name, targets[i].Job.RuleSet.Name)
					assert.Equal(t, config.DefaultTarget, targets[i].Job.Path)
				}
			},
		},
		{
			name: "default_config_file",
			files: map[string]string{
				DefaultConfigFile: "name: local\ntarget: build.gradle\nbackup: true\nrules:\n  - id: a\n    match: x\n    replace: y\n",
			},
			check: func(t *testing.T, targets []Target) {
				require.Len(t, targets, 1)
				assert.Equal(t, "local", targets[0].Job.RuleSet.Name)
				assert.Equal(t, "build.gradle", targets[0].Job.Path)
				assert.True(t, targets[0].Backup)
				assert.False(t, targets[0].Atomic)
			},
		},
		{
			name: "file_flag_overrides_target",
			opts: RootOpts{File: "other/pom.xml", Presets: []string{"xgboost4j-1.7.3"}, Atomic: true, Expect: []string{"<project>"}},
			check: func(t *testing.T, targets []Target) {
				require.Len(t, targets, 1)
				assert.Equal(t, "other/pom.xml", targets[0].Job.Path)
				assert.Equal(t, "xgboost4j-1.7.3", targets[0].Job.RuleSet.Name)
				assert.True(t, targets[0].Atomic)
				assert.Equal(t, []string{"<version>1.7.3</version>", "<project>"}, targets[0].Job.Expect.Contains)
			},
		},
		{
			name: "explicit_config_file",
			opts: RootOpts{ConfigFile: "rules/patch.json"},
			files: map[string]string{
				"rules/patch.json": `{"name": "json", "target": "../pom.xml", "rules": [{"id": "a", "match": "x"}]}`,
			},
			check: func(t *testing.T, targets []Target) {
				require.Len(t, targets, 1)
				assert.Equal(t, "pom.xml", targets[0].Job.Path)
			},
		},
		{
			name: "config_without_target",
			opts: RootOpts{ConfigFile: "rules.yaml"},
			files: map[string]string{
				"rules.yaml": "rules:\n  - id: a\n    match: x\n",
			},
			check: func(t *testing.T, targets []Target) {
				require.Len(t, targets, 1)
				assert.Equal(t, config.DefaultTarget, targets[0].Job.Path)
			},
		},
		{
			name:        "missing_config_file",
			opts:        RootOpts{ConfigFile: "nope.yaml"},
			errContains: "loading config",
		},
		{
			name:        "unknown_preset",
			opts:        RootOpts{Presets: []string{"nope"}},
			errContains: "loading preset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			dir := t.TempDir()
			for name, content := range tt.files {
				path := filepath.Join(dir, name)
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			}
			chdir(t, dir)

			targets, err := tt.opts.Targets(ctx)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, targets)
		})
	}
}
