package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recast/pkg/backend"
	"recast/pkg/config"
	"recast/pkg/diffview"
	"recast/pkg/orchestration"
	"recast/pkg/utils"
	"recast/pkg/virtualdocs"
	"recast/pkg/workspace"
)

var (
	refactorDryRun     bool
	refactorApply      bool
	refactorSkipPrompt bool
	refactorServer     string
)

var refactorCmd = &cobra.Command{
	Use:   "refactor [instruction]",
	Short: "Plan and preview an AI refactoring of the current workspace",
	Long: `Samples the workspace (first 50 lines of each source file), asks the
backend which files warrant a rewrite, then submits the full content of
only those files. Each result is shown as a diff against the on-disk
original. With --apply the backend commits the changes on a new branch;
otherwise nothing is persisted.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if refactorDryRun && refactorApply {
			return fmt.Errorf("--dry-run and --apply are mutually exclusive")
		}
		logger := utils.GetLogger(refactorSkipPrompt)
		cfg, err := config.LoadOrInitConfig(refactorSkipPrompt)
		if err != nil {
			return err
		}
		if refactorServer != "" {
			cfg.ServerURL = refactorServer
		}

		instruction := strings.TrimSpace(strings.Join(args, " "))
		if instruction == "" {
			answer, ok := logger.AskForInput("Describe the refactoring you want:")
			if !ok || strings.TrimSpace(answer) == "" {
				logger.LogUserInteraction("No instruction given; run cancelled.")
				return nil
			}
			instruction = strings.TrimSpace(answer)
		}

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("no workspace open: %w", err)
		}

		var modes orchestration.ModeSelector
		switch {
		case refactorDryRun:
			modes = &orchestration.StaticModeSelector{DryRun: true}
		case refactorApply:
			if !logger.AskForConfirmation("Apply mode asks the backend to commit changes on a new branch. Continue?", true) {
				logger.LogUserInteraction("Run cancelled; no changes were requested.")
				return nil
			}
			modes = &orchestration.StaticModeSelector{DryRun: false}
		default:
			modes = &orchestration.PromptModeSelector{Logger: logger, DefaultDryRun: cfg.DryRunDefault}
		}

		store := virtualdocs.NewStore()
		controller := orchestration.NewController(
			cfg,
			logger,
			workspace.NewSampler(cfg, logger),
			backend.NewClient(cfg, logger),
			modes,
			store,
			diffview.NewTerminalRenderer(store, os.Stdout),
		)

		summary, err := controller.Run(cmd.Context(), root, instruction)
		if err != nil {
			// Cancellation and an empty workspace already produced their
			// own operator-facing message; they are not tool failures.
			if errors.Is(err, orchestration.ErrRunCancelled) || errors.Is(err, workspace.ErrNoCandidateFiles) {
				return nil
			}
			return err
		}
		logger.LogUserInteraction(fmt.Sprintf(
			"Run complete: %d sampled, %d targeted, %d refactored, %d diffs rendered, %d per-file errors.",
			summary.Sampled, summary.Targeted, summary.Refactored, summary.Rendered, summary.PerFileErrors))
		return nil
	},
}

func init() {
	refactorCmd.Flags().BoolVar(&refactorDryRun, "dry-run", false, "Preview only; never commit (skips the mode prompt)")
	refactorCmd.Flags().BoolVar(&refactorApply, "apply", false, "Ask the backend to commit the changes (skips the mode prompt)")
	refactorCmd.Flags().BoolVar(&refactorSkipPrompt, "skip-prompt", false, "Disable interactive prompts; use configured defaults")
	refactorCmd.Flags().StringVar(&refactorServer, "server", "", "Backend base URL (overrides config)")
}
