package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gavel/internal/jwttoken"
	moderationhandler "gavel/internal/moderation/handler"
	moderationmetrics "gavel/internal/moderation/metrics"
	moderationservice "gavel/internal/moderation/service"
	actionstore "gavel/internal/moderation/store/action"
	submissionstore "gavel/internal/moderation/store/submission"
	"gavel/internal/overview"
	overviewhandler "gavel/internal/overview/handler"
	"gavel/internal/platform/config"
	"gavel/internal/platform/httpserver"
	"gavel/internal/platform/logger"
	platformmetrics "gavel/internal/platform/metrics"
	"gavel/internal/platform/redis"
	policyhandler "gavel/internal/policy/handler"
	policymetrics "gavel/internal/policy/metrics"
	policyservice "gavel/internal/policy/service"
	auditstore "gavel/internal/policy/store/audit"
	documentstore "gavel/internal/policy/store/document"
	versionstore "gavel/internal/policy/store/version"
	httptransport "gavel/internal/transport/http"
)

// main wires stores, services, and the HTTP surface. Business logic lives in
// the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	httpMetrics := platformmetrics.New()
	storeTx := newPostgresTx(db)

	moderationSvc, err := moderationservice.New(
		submissionstore.NewPostgres(db),
		actionstore.NewPostgres(db),
		moderationservice.WithTx(storeTx),
		moderationservice.WithMetrics(moderationmetrics.New()),
	)
	if err != nil {
		log.Error("failed to build moderation service", "error", err.Error())
		os.Exit(1)
	}

	policySvc, err := policyservice.New(
		documentstore.NewPostgres(db),
		versionstore.NewPostgres(db),
		auditstore.NewPostgres(db),
		policyservice.WithTx(storeTx),
		policyservice.WithMetrics(policymetrics.New()),
		policyservice.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build policy service", "error", err.Error())
		os.Exit(1)
	}

	overviewOpts := []overview.Option{overview.WithLogger(log)}
	if redisClient != nil && cfg.OverviewCacheTTL > 0 {
		overviewOpts = append(overviewOpts,
			overview.WithCache(overview.NewReportCache(redisClient, cfg.OverviewCacheTTL)))
	}
	overviewSvc, err := overview.New(moderationSvc, policySvc, overviewOpts...)
	if err != nil {
		log.Error("failed to build overview service", "error", err.Error())
		os.Exit(1)
	}

	validator := jwttoken.NewJWTService(cfg.JWTSigningKey, "gavel", "gavel-backoffice")

	checks := map[string]httptransport.HealthChecker{
		"database": dbHealth{db: db},
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Moderation: moderationhandler.New(moderationSvc, log, httpMetrics, validator),
		Policy:     policyhandler.New(policySvc, log, httpMetrics, validator),
		Overview:   overviewhandler.New(overviewSvc, log, httpMetrics, validator),
		Checks:     checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting governance service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
