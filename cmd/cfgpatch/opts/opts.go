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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgpatch/pkg/config"
	"github.com/walteh/cfgpatch/pkg/document"
	"github.com/walteh/cfgpatch/pkg/log"
	"github.com/walteh/cfgpatch/pkg/patcher"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is picked up from the working directory when no
// --config or --preset is given
const DefaultConfigFile = ".cfgpatch.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Global
	Debug bool
	Quiet bool

	// Inputs
	File       string
	ConfigFile string
	Presets    []string

	// Write behavior
	DryRun   bool
	Backup   bool
	Atomic   bool
	NoVerify bool
	Expect   []string
}

// Target is one resolved job together with its write settings
type Target struct {
	Job    patcher.Job
	Atomic bool
	Backup bool
}

// AddInputFlags registers the flags that select the file and rule sets
func (o *RootOpts) AddInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "file to patch (default: config target, else pom.xml)")
	cmd.Flags().StringVarP(&o.ConfigFile, "config", "c", "", "rule set file (.yaml, .yml, .json, .hcl or .toml)")
	cmd.Flags().StringArrayVarP(&o.Presets, "preset", "p", nil, "preset to apply (built-in or user), repeatable")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}

// AddWriteFlags registers the flags that control how changes are written
func (o *RootOpts) AddWriteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "print the diff instead of writing")
	cmd.Flags().BoolVar(&o.Backup, "backup", false, "copy the original to <file>.bak before writing")
	cmd.Flags().BoolVar(&o.Atomic, "atomic", false, "write through a temp file and rename")
	cmd.Flags().BoolVar(&o.NoVerify, "no-verify", false, "skip the post-write expectation check")
	cmd.Flags().StringArrayVar(&o.Expect, "expect", nil, "text the file must contain after writing, repeatable")
}

// 🎯 Targets resolves the jobs to run.
//
// An explicit --config wins, then --preset. With neither, DefaultConfigFile
// is used when it exists in the working directory, otherwise every built-in
// preset runs in order.
func (o *RootOpts) Targets(ctx context.Context) ([]Target, error) {
	cfgs, err := o.configs(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(cfgs))
	for _, cfg := range cfgs {
		path := o.File
		if path == "" {
			path = cfg.TargetPath()
		}
		if path == "" {
			path = config.DefaultTarget
		}

		zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Str("path", path).Msg("resolved target")

		targets = append(targets, Target{
			Job: patcher.Job{
				Path:    path,
				RuleSet: cfg.RuleSet(),
				Expect:  cfg.Expectation().Merge(document.Expectation{Contains: o.Expect}),
			},
			Atomic: o.Atomic || cfg.Atomic,
			Backup: o.Backup || cfg.Backup,
		})
	}
	return targets, nil
}

func (o *RootOpts) configs(ctx context.Context) ([]*config.Config, error) {
	switch {
	case o.ConfigFile != "":
		cfg, err := config.Load(ctx, o.ConfigFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return []*config.Config{cfg}, nil

	case len(o.Presets) > 0:
		cfgs := make([]*config.Config, 0, len(o.Presets))
		for _, name := range o.Presets {
			cfg, err := config.Preset(ctx, name)
			if err != nil {
				return nil, errors.Errorf("loading preset: %w", err)
			}
			cfgs = append(cfgs, cfg)
		}
		return cfgs, nil
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		cfg, err := config.Load(ctx, DefaultConfigFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return []*config.Config{cfg}, nil
	}

	cfgs, err := config.Presets(ctx)
	if err != nil {
		return nil, errors.Errorf("loading presets: %w", err)
	}
	return cfgs, nil
}

// 🏭 Patcher builds a patcher for target
func (o *RootOpts) Patcher(ctx context.Context, target Target, dryRun bool) (*patcher.Patcher, error) {
	return patcher.New(patcher.Options{
		Store:    document.NewStore(document.Options{Atomic: target.Atomic}),
		Logger:   log.FromContext(ctx),
		DryRun:   dryRun,
		Backup:   target.Backup,
		NoVerify: o.NoVerify,
	})
}
