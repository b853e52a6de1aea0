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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/cfgpatch/cmd/cfgpatch/opts"
	"github.com/walteh/cfgpatch/pkg/document"
	"github.com/walteh/cfgpatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put back the copy saved by --backup",
		Long: `Restore replaces each target file with its .bak copy and removes the
backup. Targets are resolved the same way apply resolves them; files
without a backup are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			targets, err := o.Targets(ctx)
			if err != nil {
				return errors.Errorf("resolving targets: %w", err)
			}

			store := document.NewStore(document.Options{})
			seen := make(map[string]bool)
			for _, target := range targets {
				path := target.Job.Path
				if seen[path] {
					continue
				}
				seen[path] = true

				if err := store.Restore(ctx, path); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						logger.Warningf("no backup for %s", path)
						continue
					}
					return errors.Errorf("restoring %s: %w", path, err)
				}
				logger.Successf("restored %s", path)
			}
			return nil
		},
	}

	o.AddInputFlags(cmd)

	return cmd
}
