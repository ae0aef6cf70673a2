package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devgjhbj-wq/admin-nexus/internal/config"
	"github.com/devgjhbj-wq/admin-nexus/internal/console"
	apphttp "github.com/devgjhbj-wq/admin-nexus/internal/http"
	"github.com/devgjhbj-wq/admin-nexus/internal/modules/decisions"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	cfg := config.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *gorm.DB
	if dsn := cfg.Storage.DatabaseDSN; dsn != "" {
		var err error
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
	}

	st, err := storage.FromConfig(ctx, cfg.Storage, db)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var decisionLog decisions.Log
	if db != nil {
		decisionLog = decisions.NewGormLog(db)
	} else {
		decisionLog = decisions.NewMemoryLog(200)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	consoles := console.NewRegistry(console.Deps{
		Storage:      st.KV,
		APIBaseURL:   cfg.APIBaseURL,
		Timeout:      cfg.UpstreamTimeout,
		Logger:       logger,
		Decisions:    decisionLog,
		Interceptors: []rbslot.Interceptor{rbslot.NewMetrics(reg).Interceptor()},
		ListMaxAge:   cfg.ListMaxAge,
	}, cfg.ConsoleIdleTTL)
	consoles.StartJanitor(ctx, cfg.ConsoleSweepEvery)
	defer consoles.CloseAll()

	r := apphttp.NewRouter(apphttp.RouterDeps{
		Logger:        logger,
		Consoles:      consoles,
		Decisions:     decisionLog,
		Secret:        []byte(cfg.SessionSecret),
		CookieSecure:  cfg.CookieSecure,
		ConsoleCookie: cfg.ConsoleCookie,
		FlashCookie:   cfg.FlashCookie,
		AwaitTimeout:  cfg.ListAwaitTimeout,
		Registry:      reg,
		Gatherer:      reg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", slog.String("addr", cfg.HTTPAddr), slog.String("storage", st.Driver), slog.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("err", err))
	}
}
