// cmd/web/main.go
//
// Consultation booking service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Vault client (only when VAULT_ADDR is set) for `vault:` config values.
//
//  2. Load config: conf/.env → conf/global.yaml → LAWDESK_* env overrides.
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Sentry and GeoLite2, both optional.
//
//  5. Open MySQL, apply embedded migrations when database.migrate is set.
//
//  6. Telegram notifier behind a circuit breaker, or a no-op dispatcher
//     when the bot token or chat id is missing.
//
//  7. Router: request id → recover → metrics → HTTPS redirect → security
//     headers → CORS → request info → components.
//
//  8. Serve until SIGINT/SIGTERM, then drain notifications and flush Sentry.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/component"
	"github.com/yanizio/lawdesk/internal/config"
	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/database"
	"github.com/yanizio/lawdesk/internal/httpx"
	"github.com/yanizio/lawdesk/internal/logger"
	"github.com/yanizio/lawdesk/internal/metrics"
	"github.com/yanizio/lawdesk/internal/middleware"
	"github.com/yanizio/lawdesk/internal/notify"
	"github.com/yanizio/lawdesk/internal/reporting"
	"github.com/yanizio/lawdesk/internal/requestinfo"
	"github.com/yanizio/lawdesk/internal/server"
	"github.com/yanizio/lawdesk/internal/vault"

	_ "github.com/yanizio/lawdesk/components/auth"
	_ "github.com/yanizio/lawdesk/components/consultation"
	_ "github.com/yanizio/lawdesk/components/health"
)

// version is stamped at build time with -ldflags "-X main.version=…".
var version = "dev"

// MsgRouteNotFound answers unknown paths.
const MsgRouteNotFound = "مسیر درخواستی یافت نشد"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("lawdesk: %v", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Secrets and config ──────────────────────────────────────────
	//
	var opts []config.Option
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, zap.L())
		if err != nil {
			return err
		}
		opts = append(opts, config.WithSecrets(ctx, vc))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	//
	// ── 2.  Logger, Sentry, GeoIP ───────────────────────────────────────
	//
	sugar, err := logger.New(cfg.Paths.Root, logger.Options{
		Tee:   logger.IsTTY(),
		Debug: cfg.App.Environment == "development",
	})
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()
	lg := sugar.Desugar()

	if on, err := reporting.Init(reporting.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.App.Environment,
		Release:     "lawdesk@" + version,
	}); err != nil {
		sugar.Warnw("sentry disabled", "err", err)
	} else if on {
		sugar.Infow("sentry online", "environment", cfg.App.Environment)
	}

	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		sugar.Warnw("geoip disabled", "path", cfg.Geo.DBPath, "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 3.  Database ────────────────────────────────────────────────────
	//
	if cfg.Database.DSN == "" {
		sugar.Error("database.dsn is not set")
		return config.ErrMissingDSN
	}
	dsn, err := database.BuildDSN(cfg.Database.DSN, cfg.Database.Password, cfg.Location())
	if err != nil {
		return err
	}
	sugar.Info("connecting to database …")
	db, err := database.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	sugar.Info("database online")

	if cfg.Database.Migrate {
		if _, err := database.Migrate(ctx, db, lg); err != nil {
			return err
		}
	}

	//
	// ── 4.  Notifier ────────────────────────────────────────────────────
	//
	var sender notify.Sender
	if cfg.NotifyEnabled() {
		tg, err := notify.NewTelegram(notify.TelegramConfig{
			Token:  cfg.Telegram.BotToken,
			ChatID: cfg.Telegram.ChatID,
			APIURL: cfg.Telegram.APIURL,
		}, lg.Named("telegram"))
		if err != nil {
			return err
		}
		sender = tg
	} else {
		sugar.Warn("telegram notifications disabled: bot_token or chat_id missing")
	}
	dispatcher := notify.NewDispatcher(
		sender,
		notify.NewFormatter(cfg.Location(), nil),
		cfg.Telegram.Timeout,
		lg.Named("notify"),
	)

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recover(lg),
		middleware.Metrics,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security,
		middleware.CORS,
		requestinfo.Enrich,
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Fail(w, http.StatusNotFound, MsgRouteNotFound)
	})
	r.Handle("/metrics", metrics.Handler())

	if cfg.Admin.Token == "" {
		sugar.Warn("admin.token is empty: management routes will reject every request")
	}
	loc := cfg.Location()
	deps := component.Deps{
		Repo:       consultation.NewRepository(db),
		Notifier:   dispatcher,
		Log:        lg,
		AdminToken: cfg.Admin.Token,
		Now:        func() time.Time { return time.Now().In(loc) },
	}
	deps.Checker = consultation.NewChecker(deps.Now)
	if err := component.Mount(r, deps); err != nil {
		return err
	}

	//
	// ── 6.  Serve until signalled ───────────────────────────────────────
	//
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r), nil, lg,
		dispatcher.Wait,
		func() { reporting.Flush(2 * time.Second) },
	)
}
