package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"doclink/internal/audit"
	"doclink/internal/jwttoken"
	linkhandler "doclink/internal/link/handler"
	linkservice "doclink/internal/link/service"
	linkstore "doclink/internal/link/store"
	"doclink/internal/platform/config"
	"doclink/internal/platform/httpserver"
	"doclink/internal/platform/logger"
	"doclink/internal/platform/metrics"
	"doclink/internal/platform/middleware"
	httptransport "doclink/internal/transport/http"
	uploadhandler "doclink/internal/upload/handler"
	uploadservice "doclink/internal/upload/service"
	"doclink/internal/upload/staging"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the feature service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	var requestStore linkservice.RequestStore
	switch cfg.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		cancel()
		requestStore = linkstore.NewRedisRequestStore(client)
		log.Info("using redis request store", "addr", cfg.RedisAddr)
	default:
		requestStore = linkstore.NewInMemoryRequestStore()
		log.Info("using in-memory request store")
	}

	staged, err := staging.New(cfg.UploadDir)
	if err != nil {
		log.Error("failed to prepare staging directory", "error", err)
		os.Exit(1)
	}

	inbox := make(chan audit.Record, 256)
	auditLog := audit.NewInMemoryLog()
	worker := audit.NewWorker(auditLog, inbox)

	linkSvc := linkservice.New(requestStore,
		linkservice.WithLogger(log),
		linkservice.WithMetrics(m),
	)
	uploadSvc := uploadservice.New(staged,
		uploadservice.WithLogger(log),
		uploadservice.WithMetrics(m),
		uploadservice.WithAuditPublisher(audit.NewPublisher(inbox)),
	)

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, "doclink")
	adminAuth := middleware.NewAdminAuth(jwtSvc, log,
		middleware.WithDisabled(cfg.AdminAuthDisabled),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Links:      linkhandler.New(linkSvc, cfg.PublicBaseURL, log),
		Uploads:    uploadhandler.New(uploadSvc, log),
		AdminAuth:  adminAuth,
		UploadGate: middleware.RequireUploadToken(linkSvc, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting doclink", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
