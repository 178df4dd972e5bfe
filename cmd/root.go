package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recast",
	Short: "AI-assisted refactoring with reviewable diffs",
	Long: `Recast coordinates an AI refactoring backend in two phases: a cheap
planning pass over file skeletons selects the files worth rewriting, then
the full content of only those files is submitted for refactoring. Every
proposed rewrite is shown as a diff against the on-disk original before
anything is committed; in dry-run mode nothing is ever persisted.

Available commands:
  refactor - Plan and preview an AI refactoring of the current workspace
  health   - Check that the refactoring backend is reachable
  version  - Print the recast version`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(refactorCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}
