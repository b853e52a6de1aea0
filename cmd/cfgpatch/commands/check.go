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

// ErrChangesPending is returned by check --exit-code when a file would change
var ErrChangesPending = errors.Base("changes pending")

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a file would change",
		Long: `Check runs the same rule sets as apply without writing anything.
It prints the pending diff for every file that would change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			targets, err := o.Targets(ctx)
			if err != nil {
				return errors.Errorf("resolving targets: %w", err)
			}

			pending := 0
			for _, target := range targets {
				p, err := o.Patcher(ctx, target, true)
				if err != nil {
					return errors.Errorf("creating patcher: %w", err)
				}

				report, err := p.Run(ctx, target.Job)
				if err != nil {
					return errors.Errorf("checking %s: %w", target.Job.Path, err)
				}
				if report.Changed() {
					pending++
				}
			}

			logger.LogNewline()
			if pending == 0 {
				logger.Success("up to date")
				return nil
			}

			logger.Warningf("%d of %d rule sets would change their file", pending, len(targets))
			if exitCode {
				return ErrChangesPending
			}
			return nil
		},
	}

	o.AddInputFlags(cmd)
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when changes are pending")

	return cmd
}
