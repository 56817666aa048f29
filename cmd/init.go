package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lexziconAI/eco-dairy-bot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ecodairy configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose an LLM provider, database location and server settings, and writes them to .ecodairy.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
