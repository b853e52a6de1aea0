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

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cfgpatch/cmd/cfgpatch/commands"
	"github.com/walteh/cfgpatch/cmd/cfgpatch/opts"
	"github.com/walteh/cfgpatch/pkg/log"
)

// newRootCmd builds the command tree; running the root applies rule sets
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "cfgpatch",
		Short: "Idempotent text patches for build files",
		Long: `cfgpatch applies ordered find-and-replace rules to a build file such as
pom.xml and writes it back only when a rule changed something.

Rule sets come from --config (.yaml, .json, .hcl or .toml), --preset, a
.cfgpatch.yaml in the working directory, or the built-in presets.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), cmd, o))
		},
		RunE: commands.ApplyRunE(o),
	}

	addRootFlags(cmd, o)
	o.AddInputFlags(cmd)
	o.AddWriteFlags(cmd)

	cmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRestoreCmd(o),
		commands.NewPresetsCmd(),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.Quiet, "quiet", "q", false, "suppress console output")
}

// setupLogging attaches the zerolog and console loggers to ctx
func setupLogging(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(cmd.ErrOrStderr()).Level(level).With().Timestamp().Logger()

	var console io.Writer = cmd.OutOrStdout()
	if o.Quiet {
		console = io.Discard
	}

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(console, zlog))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
		},
	}
}
