// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/globstream

package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/woozymasta/globstream"
	"github.com/woozymasta/globstream/internal/logging"
)

var errNoPatterns = errors.New("no patterns given (use arguments, --from, --ext or a config file)")

func newRootCmd() *cobra.Command {
	var (
		verbosity  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "globstream [patterns...]",
		Short: "Stream files matched by glob patterns",
		Long: `globstream prints every file matched by a list of glob patterns, each path once.

Patterns starting with "!" exclude matches of the positive patterns listed
before them. A pattern without wildcards must match an existing file unless
--allow-empty is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(cmd.ErrOrStderr(), verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			return run(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")

	flags.StringSlice("from", nil, "read patterns from files, one per line")
	flags.StringSlice("ext", nil, "match files with these extensions recursively")
	flags.StringP("format", "f", formatText, "output format: text, json or msgpack")
	flags.Bool("relative", false, "print paths relative to their base")

	flags.String("cwd", "", "directory relative patterns are resolved against")
	flags.String("base", "", "override the base directory of every pattern")
	flags.String("root", "", "re-root patterns starting with /")
	flags.StringSlice("ignore", nil, "patterns excluded from every positive pattern")
	flags.Int("hwm", globstream.DefaultOptions().HighWaterMark, "per-pattern read-ahead depth")
	flags.Bool("dot", false, "match names starting with a dot")
	flags.Bool("nonull", false, "print a pattern that matched nothing as itself")
	flags.Bool("silent", true, "suppress walker diagnostics")
	flags.Bool("allow-empty", false, "do not fail when a literal path does not exist")
	flags.Bool("cwdbase", false, "use cwd as the base of every pattern")
	flags.Bool("strict", false, "fail on unreadable directories")
	flags.Bool("nodir", false, "skip directories")

	return cmd
}

func run(cmd *cobra.Command, cfg config, args []string) error {
	patterns, err := collectPatterns(cfg, args)
	if err != nil {
		return err
	}

	if len(patterns) == 0 {
		return errNoPatterns
	}

	logger := logging.GetLogger("globstream")
	opts := cfg.Options
	opts.Logger = &logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := globstream.New(patterns, opts)
	if err != nil {
		return err
	}

	enc, err := newEncoder(cmd.OutOrStdout(), cfg.Format, cfg.Relative)
	if err != nil {
		s.Destroy(nil)
		return err
	}

	count := 0
	for m, err := range globstream.All(ctx, s) {
		if err != nil {
			s.Destroy(nil)
			_ = enc.Flush()
			return err
		}

		if err := enc.Encode(m); err != nil {
			s.Destroy(err)
			return err
		}

		count++
	}

	log.Info().Int("matches", count).Int("patterns", len(patterns)).Msg("done")
	return enc.Flush()
}
