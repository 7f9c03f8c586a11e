package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/edrn/pkg/collect"
	"github.com/walteh/edrn/pkg/config"
	"github.com/walteh/edrn/pkg/editor"
	"github.com/walteh/edrn/pkg/execute"
	"github.com/walteh/edrn/pkg/log"
	"github.com/walteh/edrn/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	editorCmd  string
	force      bool
	resolveFlg bool
	dryRun     bool
	debug      bool
)

// newRootCmd creates the edrn command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edrn [paths...]",
		Short: "Bulk-rename paths by editing them in your editor",
		Long: `edrn writes the given paths (or glob matches) to a temporary listing,
opens it in your editor, and applies your edits as a batch of renames.
Chains and swaps are ordered or staged so no file is ever lost; the
whole batch is validated before the first rename happens.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userLogger := log.FromContext(ctx)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			originals, err := collect.Paths(ctx, args)
			if err != nil {
				return err
			}

			edited, err := editor.Edit(ctx, editor.Command(cfg.Editor), originals)
			if err != nil {
				return err
			}

			renamer, err := operation.New(operation.Options{
				FS:        execute.OSFileSystem(),
				Reporter:  userLogger,
				Force:     cfg.Force,
				Resolve:   cfg.Resolve,
				DryRun:    cfg.DryRun,
				TempToken: cfg.TempToken,
			})
			if err != nil {
				return err
			}

			result, err := renamer.Rename(ctx, originals, edited)
			if err != nil {
				if result != nil && result.Changed > 0 {
					// No rollback: tell the user exactly how far the run got.
					userLogger.Warning(fmt.Sprintf("stopped after %d rename(s); earlier renames are kept", result.Changed))
				}
				return err
			}

			userLogger.Summary(result.Changed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path (default: .edrn.{hcl,yaml,yml,json})")
	cmd.Flags().StringVarP(&editorCmd, "editor", "e", "", "editor command to use (default: $EDITOR, then vi)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing destinations")
	cmd.Flags().BoolVarP(&resolveFlg, "resolve", "r", false, "stage conflicting renames through temporary names")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "preview renames without making any changes")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	return cmd
}

// loadConfig merges the config file with CLI flags. Flags the user set
// explicitly always win over file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(ctx, configFile)
	} else {
		cfg, err = config.LoadDefault(ctx)
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("editor") {
		cfg.Editor = editorCmd
	}
	if cmd.Flags().Changed("force") {
		cfg.Force = force
	}
	if cmd.Flags().Changed("resolve") {
		cfg.Resolve = resolveFlg
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}

	return cfg, nil
}
