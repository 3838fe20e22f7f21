// Command server runs the badge lifecycle backend: badge CRUD, the
// notification feed, statistics, contract storage, and session auth behind
// one HTTP listener.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditservice "gatepass/internal/audit/service"
	auditstore "gatepass/internal/audit/store"
	authhandler "gatepass/internal/auth/handler"
	authservice "gatepass/internal/auth/service"
	authstore "gatepass/internal/auth/store"
	badgehandler "gatepass/internal/badge/handler"
	badgemetrics "gatepass/internal/badge/metrics"
	badgeservice "gatepass/internal/badge/service"
	badgestore "gatepass/internal/badge/store"
	"gatepass/internal/contract"
	"gatepass/internal/jwttoken"
	"gatepass/internal/notification"
	notifmetrics "gatepass/internal/notification/metrics"
	"gatepass/internal/platform/config"
	"gatepass/internal/platform/httpserver"
	"gatepass/internal/platform/kafka"
	"gatepass/internal/platform/logger"
	platformmetrics "gatepass/internal/platform/metrics"
	"gatepass/internal/platform/postgres"
	platformredis "gatepass/internal/platform/redis"
	"gatepass/internal/stats"
	httptransport "gatepass/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := platformmetrics.New()

	// Badge stores: Postgres when a DSN is configured, in-memory otherwise.
	var (
		badges    badgestore.BadgeStore
		additions badgestore.AdditionLog
		ledger    badgestore.ResolutionLedger
	)
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		pgBadges := badgestore.NewPostgresBadgeStore(pool)
		if err := pgBadges.EnsureSchema(ctx); err != nil {
			return err
		}
		badges = pgBadges
		additions = badgestore.NewPostgresAdditionLog(pool)
		ledger = badgestore.NewPostgresResolutionLedger(pool)
		log.Info("using postgres badge stores")
	} else {
		badges = badgestore.NewInMemoryBadgeStore()
		additions = badgestore.NewInMemoryAdditionLog()
		ledger = badgestore.NewInMemoryResolutionLedger()
		log.Warn("no POSTGRES_DSN configured, badge data is in memory")
	}

	// Audit trail: same database over database/sql, or in memory.
	var auditSink auditstore.Store
	db, err := postgres.NewDB(cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		pgAudit := auditstore.NewPostgresStore(db)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			return err
		}
		auditSink = pgAudit
	} else {
		auditSink = auditstore.NewInMemoryStore()
	}

	// Sessions: Redis when configured, in memory otherwise.
	var sessions authstore.SessionStore
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = authstore.NewRedisSessionStore(redisClient)
		log.Info("using redis session store")
	} else {
		sessions = authstore.NewInMemorySessionStore()
		log.Warn("no REDIS_URL configured, sessions are in memory")
	}

	users := authstore.NewInMemoryUserStore()
	if err := authstore.EnsureDefaultUsers(ctx, users, cfg.Server.AdminPassword, cfg.Server.ServicePassword); err != nil {
		return err
	}

	publisher, err := kafka.NewPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Close()
		log.Info("mirroring audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	}

	auditSvc := auditservice.NewService(log)
	worker := auditservice.NewWorker(auditSink, publisher, auditSvc.Events(), log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	tokens := jwttoken.NewService(cfg.Server.SessionKey, "gatepass")
	authSvc := authservice.NewAuthService(users, sessions, tokens, cfg.Server.SessionTTL, log,
		authservice.WithMetrics(metrics),
		authservice.WithAuditor(auditSvc),
	)

	badgeSvc := badgeservice.NewBadgeService(badges, additions, ledger, log,
		badgeservice.WithMetrics(badgemetrics.New()),
		badgeservice.WithAuditor(auditSvc),
	)
	notifSvc := notification.NewService(badges, additions, ledger, log,
		notification.WithMetrics(notifmetrics.New()),
		notification.WithAuditor(auditSvc),
	)
	statsSvc := stats.NewService(badges, additions, log)
	contracts := contract.NewStorage(cfg.Server.ContractDir)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Metrics:       metrics,
		Validator:     authSvc,
		Auth:          authhandler.NewHandler(authSvc, log, cfg.Server.CookieSecure),
		Badges:        badgehandler.New(badgeSvc, log),
		Notifications: notification.NewHandler(notifSvc, log),
		Stats:         stats.NewHandler(statsSvc, log),
		Contracts:     contract.NewHandler(badgeSvc, contracts, log),
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting gatepass server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-workerDone
	return nil
}
