package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-feedback/internal/apiclient"
	"github.com/jonathan/interview-feedback/internal/config"
	"github.com/jonathan/interview-feedback/internal/db"
	"github.com/jonathan/interview-feedback/internal/editor"
	"github.com/jonathan/interview-feedback/internal/llm"
	"github.com/jonathan/interview-feedback/internal/rendering"
	"github.com/jonathan/interview-feedback/internal/server"
	"github.com/jonathan/interview-feedback/internal/snapshot"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the editing sessions: transcript upload,
report generation, editing, snapshots and export.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.BackendURL == "" {
		return fmt.Errorf("backend_url (or BACKEND_URL) is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := apiclient.New(cfg.BackendURL, &apiclient.Options{
		Token:  cfg.BackendToken,
		Logger: logger.Named("backend"),
	})
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, backend)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := editor.Options{
		Backend:       backend,
		Snapshots:     store,
		Exporter:      &rendering.Exporter{PDF: rendering.NewPDFRenderer(cfg.ChromeTimeout.Std(), logger.Named("pdf"))},
		AutosaveDelay: cfg.AutosaveDelay.Std(),
		Logger:        logger.Named("editor"),
	}
	if cfg.GenerationMode == config.GenerationLocal {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Generator = llm.NewFeedbackGenerator(client)
	}

	svc, err := editor.New(opts)
	if err != nil {
		return err
	}

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		logger.Warn("JWT_SECRET is not set; session routes are unauthenticated")
	}

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		JWT:            jwtCfg,
	}, svc, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("Configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("backend", cfg.BackendURL),
		zap.String("generation", cfg.GenerationMode))
	return srv.Start(ctx)
}

// openStore picks the snapshot store: PostgreSQL when database_url is set,
// SQLite when sqlite_path is set, and the backend's snapshot API otherwise.
func openStore(ctx context.Context, cfg config.Config, backend *apiclient.Client) (snapshot.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Info("Using PostgreSQL snapshot store")
		return pg, pg.Close, nil
	case cfg.SQLitePath != "":
		lite, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite snapshot store", zap.String("path", cfg.SQLitePath))
		return lite, func() { _ = lite.Close() }, nil
	default:
		logger.Info("Using backend snapshot store")
		return backend, func() {}, nil
	}
}
