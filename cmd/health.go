package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"recast/pkg/backend"
	"recast/pkg/config"
	"recast/pkg/utils"
)

var healthServer string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the refactoring backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetLogger(true)
		cfg, err := config.LoadOrInitConfig(true)
		if err != nil {
			return err
		}
		if healthServer != "" {
			cfg.ServerURL = healthServer
		}
		client := backend.NewClient(cfg, logger)
		health, err := client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		fmt.Printf("Backend %s: %s\n", cfg.ServerURL, health.Status)
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthServer, "server", "", "Backend base URL (overrides config)")
}
