package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"auracare/internal/admin"
	"auracare/internal/auth"
	"auracare/internal/contact"
	"auracare/internal/directory"
	"auracare/internal/domain"
	"auracare/internal/gateway"
	"auracare/internal/platform/audit"
	"auracare/internal/platform/config"
	"auracare/internal/platform/httpserver"
	"auracare/internal/platform/logger"
	"auracare/internal/platform/metrics"
	platformredis "auracare/internal/platform/redis"
	"auracare/internal/premium"
	"auracare/internal/profile"
	"auracare/internal/registration"
	"auracare/internal/session"
	httptransport "auracare/internal/transport/http"
)

// main wires the dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New(prometheus.DefaultRegisterer)

	var (
		store  session.Store
		health func(ctx context.Context) error
	)
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		scope := cfg.SessionScope
		if scope == "" {
			scope = uuid.NewString()
		}
		store = session.NewRedisStore(redisClient.Client, scope, cfg.SessionTTL, log)
		health = redisClient.Health
		defer redisClient.Close()
		log.Info("session store: redis", "scope", scope)
	} else {
		store = session.NewInMemoryStore()
		log.Info("session store: in-memory")
	}

	var auditPub audit.Publisher = audit.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		auditPub = kafkaPub
		defer kafkaPub.Close()
		log.Info("admin audit publisher enabled", "topic", cfg.AuditTopic)
	}

	manager := auth.NewManager(ctx, store, log, m)

	gw := gateway.NewClient(gateway.Options{
		BaseURL:     cfg.BackendURL,
		Tokens:      manager,
		Invalidator: manager,
		Logger:      log,
		Metrics:     m,
	})

	// The DELETE confirmation is collected by the transport layer; by the
	// time the service runs, the human has already answered yes.
	confirmed := admin.ConfirmerFunc(func(string) bool { return true })

	handler := httptransport.NewHandler(httptransport.Options{
		Logger:    log,
		Auth:      auth.NewService(gw, manager, log),
		Manager:   manager,
		Donor:     registration.NewWorkflow(domain.VariantDonor, gw, manager, log, m),
		Receiver:  registration.NewWorkflow(domain.VariantReceiver, gw, manager, log, m),
		Admin:     admin.NewService(gw, manager, log, m, auditPub, confirmed),
		Directory: directory.NewService(gw, manager, log),
		Premium:   premium.NewService(gw, manager, log),
		Profile:   profile.NewService(gw, manager, log),
		Contact:   contact.NewService(gw, log),
		Health:    health,
	})
	router := httptransport.NewRouter(handler, prometheus.DefaultGatherer)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting auracare", "addr", cfg.Addr, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("stopped")
}
