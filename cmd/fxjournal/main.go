package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/fxjournal/config"
	"github.com/alejandrodnm/fxjournal/internal/adapters/localfile"
	"github.com/alejandrodnm/fxjournal/internal/adapters/notify"
	"github.com/alejandrodnm/fxjournal/internal/adapters/storage"
	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/scope"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug and print imported rows")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	importFile := flag.String("import", "", "import an MT5 CSV export (or a directory of them) into the journal")
	workers := flag.Int("workers", 0, "files read in parallel when importing a directory (0 = NumCPU)")
	profile := flag.String("profile", "", "owning profile id (overrides resolved scope)")
	user := flag.String("user", "", "owning user id (overrides resolved scope)")
	listTrades := flag.Bool("trades", false, "list the journal trades of the resolved profile")
	history := flag.Bool("history", false, "list the import audit logs of the resolved profile")
	historyLimit := flag.Int("limit", 20, "max audit logs shown with -history")
	account := flag.Bool("account", false, "show MetaAPI accounts and usage")
	setScope := flag.String("set-scope", "", "save a local scope override: profile:user")
	publishScope := flag.String("publish-scope", "", "publish the scope to the shared config document: profile:user")
	clearScope := flag.Bool("clear-scope", false, "drop the local scope override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewConsole(*verbose)

	// El modo cuenta no necesita base de datos.
	if *account {
		if err := runAccount(ctx, cfg.MetaAPI, notifier); err != nil {
			slog.Error("account lookup failed", "err", err)
			os.Exit(1)
		}
		return
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	resolver := scope.NewResolver(
		localfile.NewOverride(cfg.Scope.OverrideFile),
		store,
		cfg.Scope.Document,
		domain.Scope{ProfileID: cfg.Scope.DefaultProfileID, UserID: cfg.Scope.DefaultUserID},
	)

	switch {
	case *setScope != "" || *publishScope != "" || *clearScope:
		err = runScope(ctx, resolver, *setScope, *publishScope, *clearScope)
	case *importFile != "":
		err = runImport(ctx, cfg, store, resolver, notifier, *importFile, *profile, *user, *workers)
	case *listTrades:
		err = runTrades(ctx, store, resolver, notifier, *profile, *user)
	case *history:
		err = runHistory(ctx, store, resolver, notifier, *profile, *user, *historyLimit)
	default:
		flag.Usage()
		return
	}
	if err != nil {
		slog.Error("fxjournal failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
