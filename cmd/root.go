package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lexziconAI/eco-dairy-bot/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ecodairy",
	Short: "Conversation lens service for dairy farmer chat",
	Long: `ecodairy reads farmer conversations through a set of lenses: linguistic
clues, orientation matrices, topic flow, narratives and exchange metrics.
It serves them over HTTP, a chat WebSocket and MCP, and can frame replies
with an LLM.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
