package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	batchhandler "soulmint/internal/batch/handler"
	batchmetrics "soulmint/internal/batch/metrics"
	batchservice "soulmint/internal/batch/service"
	batchstore "soulmint/internal/batch/store"
	issuancehandler "soulmint/internal/issuance/handler"
	"soulmint/internal/issuance/lock"
	issuancemetrics "soulmint/internal/issuance/metrics"
	issuanceservice "soulmint/internal/issuance/service"
	"soulmint/internal/issuance/voucher"
	jwttoken "soulmint/internal/jwt_token"
	ledgerhandler "soulmint/internal/ledger/handler"
	ledgermemory "soulmint/internal/ledger/memory"
	"soulmint/internal/platform/config"
	"soulmint/internal/platform/httpserver"
	"soulmint/internal/platform/kafka"
	"soulmint/internal/platform/logger"
	platformmetrics "soulmint/internal/platform/metrics"
	"soulmint/internal/platform/middleware"
	"soulmint/internal/platform/postgres"
	platformredis "soulmint/internal/platform/redis"
	"soulmint/internal/platform/tracing"
	httptransport "soulmint/internal/transport/http"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/events/publisher"
	"soulmint/pkg/platform/events/relay"
	eventmemory "soulmint/pkg/platform/events/store/memory"
	eventpostgres "soulmint/pkg/platform/events/store/postgres"
	txcontext "soulmint/pkg/platform/tx"
)

const (
	shutdownTimeout    = 10 * time.Second
	eventBufferSize    = 256
	startupDialTimeout = 15 * time.Second
)

// registry is what both batch stores provide to the batch and issuance services.
type registry interface {
	batchservice.Store
	issuanceservice.Registry
}

// outbox is what both event stores provide to the publisher and the relay.
type outbox interface {
	events.Store
	events.Outbox
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "soulmint: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupDialTimeout)
	defer cancelStartup()

	db, err := postgres.Open(startupCtx, cfg.Database)
	if err != nil {
		return err
	}
	checks := map[string]httptransport.ReadinessCheck{}
	var (
		batches  registry
		eventLog outbox
		runner   txcontext.Runner
	)
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(startupCtx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		batches = batchstore.NewPostgres(db)
		eventLog = eventpostgres.New(db)
		runner = txcontext.SQLRunner{DB: db}
		checks["postgres"] = db.PingContext
		log.Info("using postgres registry")
	} else {
		batches = batchstore.NewInMemory()
		eventLog = eventmemory.NewInMemoryStore()
		runner = &txcontext.LocalRunner{}
		log.Info("using in-memory registry")
	}

	locker, closeLocker, err := newLocker(ctx, cfg, checks, log)
	if err != nil {
		return err
	}
	defer closeLocker()

	pub := publisher.NewPublisher(eventLog,
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics(reg)),
		publisher.WithAsyncBuffer(eventBufferSize),
	)
	defer pub.Close()

	sink, closeSink, err := newSink(startupCtx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()
	outboxRelay := relay.New(eventLog, sink,
		relay.WithLogger(log),
		relay.WithMetrics(relay.NewMetrics(reg)),
		relay.WithInterval(cfg.Kafka.PollInterval),
		relay.WithBatchSize(cfg.Kafka.BatchSize),
	)

	ledger := ledgermemory.New()
	batchMetrics := batchmetrics.New(reg)
	batchSvc := batchservice.New(batches,
		batchservice.WithLogger(log),
		batchservice.WithMetrics(batchMetrics),
		batchservice.WithEventEmitter(pub),
		batchservice.WithTx(runner),
	)
	issuanceSvc := issuanceservice.New(batches, locker, issuanceservice.Collaborators{
		Bank:      ledger,
		Allocator: ledger,
		Tokens:    ledger,
		Metadata:  ledger,
	}, pub,
		issuanceservice.WithLogger(log),
		issuanceservice.WithMetrics(issuancemetrics.New(reg)),
		issuanceservice.WithBatchMetrics(batchMetrics),
		issuanceservice.WithVoucherVerifier(voucher.NewVerifier(cfg.Issuance.VoucherChainID)),
	)

	tokens := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	requireAuth := middleware.RequireAuth(tokens, log)
	requireAdmin := middleware.RequireAdminToken(cfg.AdminToken, log)
	if cfg.AdminTokenHash != "" {
		requireAdmin = middleware.RequireAdminTokenHash(cfg.AdminTokenHash, log)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   log,
		Metrics:  platformmetrics.New(reg),
		Gatherer: reg,
		Checks:   checks,
		Tracing:  cfg.Tracing.Endpoint != "",
	},
		batchhandler.New(batchSvc, log, requireAuth),
		issuancehandler.New(issuanceSvc, log, requireAuth),
		ledgerhandler.New(ledger, log, requireAdmin, ledgerhandler.WithTokenIssuer(tokens, cfg.JWT.TokenTTL)),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting soulmint", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := outboxRelay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox relay: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newLocker uses Redis leases when configured so replicas serialize on the
// same batch, and in-process locks otherwise.
func newLocker(ctx context.Context, cfg config.Server, checks map[string]httptransport.ReadinessCheck, log *slog.Logger) (issuanceservice.Locker, func(), error) {
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("using in-process batch locks")
		return lock.NewSharded(), func() {}, nil
	}
	checks["redis"] = client.Health
	log.Info("using redis batch locks", "ttl", cfg.Issuance.LockTTL)
	return lock.NewRedis(client.Client, cfg.Issuance.LockTTL), func() { _ = client.Close() }, nil
}

// newSink publishes to Kafka when brokers are configured and logs events otherwise.
func newSink(ctx context.Context, cfg config.Server, log *slog.Logger) (relay.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("relaying events to log")
		return relay.LogSink{Logger: log}, func() {}, nil
	}
	client, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka); err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Info("relaying events to kafka", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	return kafka.NewSink(client, cfg.Kafka.Topic), client.Close, nil
}
