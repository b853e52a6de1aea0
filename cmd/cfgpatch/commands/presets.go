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
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgpatch/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// NewPresetsCmd creates a new presets command
func NewPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in and user rule sets",
		Long: `Presets lists the rule sets shipped with cfgpatch and the ones found in
$CFGPATCH_CONFIG_DIR/presets or $XDG_CONFIG_HOME/cfgpatch/presets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builtin, err := config.Presets(cmd.Context())
			if err != nil {
				return errors.Errorf("loading presets: %w", err)
			}
			user, err := config.UserPresets(cmd.Context())
			if err != nil {
				return errors.Errorf("loading user presets: %w", err)
			}

			data := pterm.TableData{{"NAME", "SOURCE", "TARGET", "RULES", "IDS"}}
			add := func(cfg *config.Config, source string) {
				ids := make([]string, 0, len(cfg.Rules))
				for _, r := range cfg.Rules {
					ids = append(ids, r.ID)
				}
				data = append(data, []string{cfg.Name, source, cfg.Target, strconv.Itoa(len(cfg.Rules)), strings.Join(ids, ", ")})
			}
			for _, cfg := range builtin {
				add(cfg, "built-in")
			}
			for _, cfg := range user {
				add(cfg, "user")
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
