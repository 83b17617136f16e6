package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-service/cache"
	httpapi "github.com/radieske/sports-parlay-engine/internal/parlay-service/http"
	"github.com/radieske/sports-parlay-engine/internal/parlay-service/repo"
	"github.com/radieske/sports-parlay-engine/internal/parlay-service/ws"
	sharedcache "github.com/radieske/sports-parlay-engine/internal/shared/cache"
	"github.com/radieske/sports-parlay-engine/internal/shared/config"
	"github.com/radieske/sports-parlay-engine/internal/shared/db"
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

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hub WebSocket alimentado pelo canal de broadcast do parlay-builder
	hub := ws.NewHub(func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(cfg.AllowedOrigins, "*") || slices.Contains(cfg.AllowedOrigins, origin)
	})
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	api := &httpapi.API{
		Log:            log,
		ReadRepo:       repo.NewReadRepo(pg),
		Cache:          cache.New(redisClient, cfg.LatestCacheTTL),
		WS:             hub.HandleWS,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	metricsSrv := sharedmetrics.StartMetricsServer(cfg.MetricsPort, prometheus.DefaultGatherer, sharedmetrics.Checks{
		"postgres": pg.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("parlay-service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("parlay-service stopped")
}
