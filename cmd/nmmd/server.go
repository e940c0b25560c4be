package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/config"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/migrations"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// dsn adds the connection pragmas the daemon relies on to a database path.
func dsn(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		configPath = p
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", dsn(cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("config loaded",
		"config", configPath,
		"database", cfg.Database.Path,
		"log_level", cfg.Server.LogLevel,
		"repository", cfg.Repository.URL,
		"api_key", cfg.Repository.APIKey != "",
	)

	runner := server.NewRunner(db, server.Config{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Version:           version,
		GameMode:          cfg.Game.Mode,
		ModsDir:           cfg.Game.ModsDir,
		AutoFill:          cfg.Acquisition.AutoFillMissingInfo,
		MaxConcurrent:     cfg.Acquisition.MaxConcurrent,
		ActivityRetention: cfg.Acquisition.ActivityRetention,
		RepositoryURL:     cfg.Repository.URL,
		APIKey:            cfg.Repository.APIKey,
		RepositoryTimeout: cfg.Repository.Timeout,
	}, logger)

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
