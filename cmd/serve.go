package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/patiolink/notimail/internal/api"
	"github.com/patiolink/notimail/internal/config"
	"github.com/patiolink/notimail/internal/docstore"
	"github.com/patiolink/notimail/internal/logger"
	"github.com/patiolink/notimail/internal/notify"
	"github.com/patiolink/notimail/internal/server"
	"github.com/patiolink/notimail/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP API server exposing the notification endpoints.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP server port (overrides PORT env var)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}

	log, err := logger.New(cfg.LogDir(), cfg.SlogLevel())
	if err != nil {
		return err
	}

	if !cfg.MailConfigured() {
		// The server still starts so the misconfiguration is visible at the
		// boundary: every endpoint answers 500 with a fixed message.
		log.Error("MAIL_API_KEY is not set; all notification endpoints will fail")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	directory := storage.NewSQLiteDirectoryStore(db)
	deliveryLog := storage.NewSQLiteDeliveryLogStore(db)
	docs := docstore.NewDirStore(cfg.DocsDir())

	dispatcher := notify.NewSMTPDispatcher(
		notify.SMTPConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			APIKey:   cfg.MailAPIKey,
		},
		notify.Sender{Address: cfg.MailFrom, Name: cfg.MailFromName},
	)

	resolver := notify.NewResolver(directory, cfg.RoleIDs(), log)
	pipeline := notify.NewPipeline(cfg.MailConfigured(), resolver, dispatcher, docs, deliveryLog, log)

	srv := server.New(api.New(pipeline, log), cfg.Port, log)

	log.Info("notimail server starting",
		slog.Int("port", cfg.Port),
		slog.Bool("mail_configured", cfg.MailConfigured()))

	return srv.Run(ctx)
}
