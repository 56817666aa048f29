package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/db"
	mcpserver "github.com/lexziconAI/eco-dairy-bot/internal/mcp"
)

var serveNoStore bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing conversation analysis and reply suggestion tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Stdout carries the protocol; the logger writes to stderr.
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		var database *db.DB
		if !serveNoStore {
			database, err = db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()
		}

		// MCP tools run offline, so no provider is created.
		engine := newEngine(cfg, database, nil, logger)

		mcpserver.Version = Version
		logger.Info("ecodairy MCP server started on stdio",
			zap.String("database", cfg.Database),
			zap.Bool("store", database != nil))

		return mcpserver.NewServer(engine).Serve()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not open the conversation database")
	rootCmd.AddCommand(serveCmd)
}
