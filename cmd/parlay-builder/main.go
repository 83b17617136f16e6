package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/cache"
	httpapi "github.com/radieske/sports-parlay-engine/internal/parlay-builder/http"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/metrics"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/producer"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/pubsub"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/recorder"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/repo"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/runner"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/scheduler"
	sharedcache "github.com/radieske/sports-parlay-engine/internal/shared/cache"
	"github.com/radieske/sports-parlay-engine/internal/shared/config"
	"github.com/radieske/sports-parlay-engine/internal/shared/db"
	"github.com/radieske/sports-parlay-engine/internal/shared/kafka"
	"github.com/radieske/sports-parlay-engine/internal/shared/logger"
	sharedmetrics "github.com/radieske/sports-parlay-engine/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	if err := cfg.LoadEngineFile(cfg.EngineFile); err != nil {
		log.Fatal("engine config", zap.Error(err))
	}
	log.Info("engine profile loaded",
		zap.String("file", cfg.EngineFile),
		zap.Int("target_bundles", cfg.Engine.TargetBundles),
		zap.Int("legs_per_bundle", cfg.Engine.LegsPerBundle),
		zap.String("correlation_mode", cfg.Engine.CorrelationMode),
		zap.Int("sport_profiles", len(cfg.Profiles)))

	// Inicializa dependências: Postgres, Redis e Kafka
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicParlayBuilt)
	defer writer.Close()

	var rec recorder.Recorder = recorder.NoopRecorder{}
	if cfg.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.SQLitePath)
		if err != nil {
			log.Fatal("sqlite recorder", zap.Error(err))
		}
		rec = sr
		log.Info("run history enabled", zap.String("path", cfg.SQLitePath))
	}
	defer rec.Close()

	// Métricas Prometheus num registry próprio
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	run := &runner.Runner{
		Log:         log,
		Config:      cfg,
		Source:      repo.NewSignals(pg),
		Store:       repo.NewParlays(pg),
		Cache:       cache.NewRedisCache(redisClient, cfg.LatestCacheTTL),
		Publisher:   producer.NewKafkaPublisher(writer, cfg.TopicParlayBuilt),
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel),
		Recorder:    rec,
		OnRun:       m.ObserveRun,
		OnError:     m.ObserveError,
	}

	if err := run.CheckProfiles(cfg.Sports); err != nil {
		log.Fatal("invalid engine profile", zap.Error(err))
	}

	metricsSrv := sharedmetrics.StartMetricsServer(cfg.MetricsPort, reg, sharedmetrics.Checks{
		"postgres": pg.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(ctx, run, cfg.Sports, log)
	if err := sched.Register(cfg.BuildCron); err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}
	sched.Start()
	if cfg.RunOnStart {
		go sched.RunNow()
	}

	api := &httpapi.API{
		Log:         log,
		Runner:      run,
		Recorder:    rec,
		Limiter:     rate.NewLimiter(rate.Limit(cfg.TriggerRPS), cfg.TriggerBurst),
		Sports:      cfg.Sports,
		OnThrottled: m.Throttled.Inc,
	}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("parlay-builder listening", zap.String("addr", srv.Addr), zap.String("cron", cfg.BuildCron))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	sched.Stop()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("parlay-builder stopped")
}
