package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexziconAI/eco-dairy-bot/internal/db"
	"github.com/lexziconAI/eco-dairy-bot/internal/server"
)

var (
	serverPort int
	serverHost string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the lens HTTP server",
	Long:  `Starts the ecodairy HTTP server with the lens REST API, stored conversations and the chat WebSocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		engine := newEngine(cfg, database, llmProvider, logger)
		srv := server.New(server.Config{
			Host:        cfg.Server.Host,
			Port:        cfg.Server.Port,
			CORSOrigins: cfg.Server.CORSOrigins,
		}, database, engine, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		logger.Info("ecodairy server starting",
			zap.String("version", Version),
			zap.String("addr", srv.Addr()),
			zap.String("database", cfg.Database),
			zap.String("provider", string(cfg.Provider)),
			zap.String("model", cfg.Model))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Host to bind (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
