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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/cfgpatch/cmd/cfgpatch/opts"
	"github.com/walteh/cfgpatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply rule sets to a file",
		Long: `Apply loads the target file, runs every rule in order and writes the
result back only when something changed.
It will:
1. Resolve rule sets from --config, --preset or .cfgpatch.yaml
2. Repair duplicated terminators before other edits
3. Apply each rule, reporting rules that found nothing
4. Save and verify the result

Running apply twice leaves the file as the first run did.`,
		Args: cobra.NoArgs,
		RunE: ApplyRunE(o),
	}

	o.AddInputFlags(cmd)
	o.AddWriteFlags(cmd)

	return cmd
}

// ApplyRunE returns the apply handler, shared with the root command
func ApplyRunE(o *opts.RootOpts) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := log.FromContext(ctx)

		targets, err := o.Targets(ctx)
		if err != nil {
			return errors.Errorf("resolving targets: %w", err)
		}

		modified := 0
		backedUp := make(map[string]bool)
		for _, target := range targets {
			logger.Header(target.Job.RuleSet.Name + " → " + target.Job.Path)

			// the first backup of a file holds the original
			target.Backup = target.Backup && !backedUp[target.Job.Path]

			p, err := o.Patcher(ctx, target, o.DryRun)
			if err != nil {
				return errors.Errorf("creating patcher: %w", err)
			}

			report, err := p.Run(ctx, target.Job)
			if err != nil {
				return errors.Errorf("patching %s: %w", target.Job.Path, err)
			}
			if report.BackupPath != "" {
				backedUp[target.Job.Path] = true
			}
			if report.Changed() {
				modified++
			}
		}

		logger.LogNewline()
		switch {
		case o.DryRun:
			logger.Infof("%d of %d rule sets would change their file", modified, len(targets))
		case modified == 0:
			logger.Success("nothing to change")
		default:
			logger.Successf("%d of %d rule sets changed their file", modified, len(targets))
		}
		return nil
	}
}
