// Command server runs the verification core: the HTTP API, the expiry
// scanner, and the audit event pipeline. main wires dependencies and keeps
// the lifecycle small; business logic lives in the internal packages.
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

	"golang.org/x/sync/errgroup"

	appmetrics "github.com/Mutawai/ThiQaX-sub002/internal/application/metrics"
	appservice "github.com/Mutawai/ThiQaX-sub002/internal/application/service"
	appstore "github.com/Mutawai/ThiQaX-sub002/internal/application/store"
	"github.com/Mutawai/ThiQaX-sub002/internal/audit"
	docmetrics "github.com/Mutawai/ThiQaX-sub002/internal/document/metrics"
	docservice "github.com/Mutawai/ThiQaX-sub002/internal/document/service"
	docstore "github.com/Mutawai/ThiQaX-sub002/internal/document/store"
	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	jobservice "github.com/Mutawai/ThiQaX-sub002/internal/job/service"
	jobstore "github.com/Mutawai/ThiQaX-sub002/internal/job/store"
	"github.com/Mutawai/ThiQaX-sub002/internal/jwttoken"
	"github.com/Mutawai/ThiQaX-sub002/internal/platform/config"
	"github.com/Mutawai/ThiQaX-sub002/internal/platform/httpserver"
	"github.com/Mutawai/ThiQaX-sub002/internal/platform/logger"
	"github.com/Mutawai/ThiQaX-sub002/internal/platform/postgres"
	platformredis "github.com/Mutawai/ThiQaX-sub002/internal/platform/redis"
	"github.com/Mutawai/ThiQaX-sub002/internal/scanner"
	"github.com/Mutawai/ThiQaX-sub002/internal/stats"
	httptransport "github.com/Mutawai/ThiQaX-sub002/internal/transport/http"
	"github.com/Mutawai/ThiQaX-sub002/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv()
	log := logger.FromEnv()
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evaluator, err := expiry.NewEvaluator(cfg.ExpiryThresholds)
	if err != nil {
		return err
	}
	calc, err := stats.NewCalculator(stats.DefaultTrustWeights(), stats.DefaultJourneyWeights(), evaluator)
	if err != nil {
		return err
	}

	// Stores: postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		documents docservice.Store
		apps      appservice.Store
		jobs      jobservice.Store
		runner    tx.Runner = tx.NoopRunner{}
	)
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		documents = docstore.NewPostgres(db)
		apps = appstore.NewPostgres(db)
		jobs = jobstore.NewPostgres(db)
		runner = tx.NewSQLRunner(db)
		log.Info("using postgres stores")
	} else {
		documents = docstore.NewInMemory()
		apps = appstore.NewInMemory()
		jobs = jobstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Audit pipeline: Kafka when brokers are configured, the log otherwise.
	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events streaming to kafka", "topic", cfg.Kafka.Topic)
	} else {
		sink = audit.NewLogSink(log)
	}
	publisher := audit.NewPublisher(sink,
		audit.WithAsyncBuffer(cfg.AuditBufferSize),
		audit.WithLogger(log),
	)
	defer publisher.Close()

	docSvc, err := docservice.New(documents, evaluator,
		docservice.WithLogger(log),
		docservice.WithAuditPublisher(publisher),
		docservice.WithMetrics(docmetrics.New()),
	)
	if err != nil {
		return err
	}
	appSvc, err := appservice.New(apps, jobs, runner,
		appservice.WithLogger(log),
		appservice.WithAuditPublisher(publisher),
		appservice.WithMetrics(appmetrics.New()),
	)
	if err != nil {
		return err
	}
	jobSvc, err := jobservice.New(jobs,
		jobservice.WithLogger(log),
		jobservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	statsOpts := []stats.ServiceOption{stats.WithLogger(log)}
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		statsOpts = append(statsOpts, stats.WithCache(stats.NewRedisCache(redisClient.Client, cfg.Redis.DashboardTTL)))
		log.Info("dashboard cache enabled", "ttl", cfg.Redis.DashboardTTL)
	}
	statsSvc, err := stats.NewService(documents, calc, statsOpts...)
	if err != nil {
		return err
	}

	sweep, err := scanner.New(docSvc, evaluator,
		scanner.WithInterval(cfg.Scanner.Interval),
		scanner.WithConcurrency(cfg.Scanner.Concurrency),
		scanner.WithLogger(log),
	)
	if err != nil {
		return err
	}

	validator := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	router := httptransport.NewRouter(httptransport.Deps{
		Documents:    docSvc,
		Applications: appSvc,
		Jobs:         jobSvc,
		Stats:        statsSvc,
		Validator:    validator,
		Logger:       log,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting verification core", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := sweep.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
