package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/attendance/internal/config"
	"github.com/rpggio/attendance/internal/domain/activity"
	"github.com/rpggio/attendance/internal/domain/tracker"
	"github.com/rpggio/attendance/internal/mcp"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries JSON-RPC, so logs go to stderr or a file.
	logWriter := io.Writer(os.Stderr)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := tracker.ParseRenamePolicy(cfg.Tracker.RenameHistory)
	if err != nil {
		return err
	}

	st, err := openStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	activitySvc := activity.NewService(st.activity, logger)
	trackerSvc := tracker.NewService(st.documents, activitySvc, logger, tracker.Options{
		Location:     loc,
		RenamePolicy: policy,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := trackerSvc.Load(ctx); err != nil {
		return fmt.Errorf("load tracker state: %w", err)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tracker:  trackerSvc,
			Activity: activitySvc,
		},
		Version: version,
		Logger:  logger,
	})

	logger.Info("starting stdio transport",
		"store", cfg.Store.Driver,
		"path", cfg.Store.Path,
		"timezone", loc.String(),
		"rename_history", string(policy),
	)

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
