package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DesignrKnight/shield/internal/adapters/ban"
	httpMiddleware "github.com/DesignrKnight/shield/internal/adapters/http/middleware"
	"github.com/DesignrKnight/shield/internal/adapters/http/router"
	"github.com/DesignrKnight/shield/internal/adapters/storage/memory"
	redisstorage "github.com/DesignrKnight/shield/internal/adapters/storage/redis"
	"github.com/DesignrKnight/shield/internal/config"
	"github.com/DesignrKnight/shield/internal/core/ports"
	"github.com/DesignrKnight/shield/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	bans, err := initBan(cfg)
	if err != nil {
		log.Fatalf("failed to init ban backends: %v", err)
	}
	defer bans.close()

	store := memory.NewWindowStore(cfg.RateLimiter.Window)
	evictor := memory.NewEvictor(store, cfg.RateLimiter.ScanPeriod, time.Now)

	limiter, err := services.NewRateLimiterService(store, cfg.RateLimiter, time.Now)
	if err != nil {
		log.Fatalf("failed to create limiter: %v", err)
	}

	handler := router.New(router.Deps{
		Limiter:   limiter,
		Store:     store,
		Window:    cfg.RateLimiter.Window,
		RateLimit: cfg.RateLimiter.RateLimit,
		Options: httpMiddleware.RateLimiterOptions{
			Banner:     bans.banner,
			Checker:    bans.checker,
			BanReason:  cfg.Ban.Reason,
			BanTimeout: cfg.Ban.Timeout,
			TrustProxy: cfg.Server.TrustProxy,
		},
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Bans:        bans.lifter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evictor.Start()
	defer evictor.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (window=%s rate_limit=%.2f/s scan_period=%s ban=%v)",
			srv.Addr, cfg.RateLimiter.Window, cfg.RateLimiter.RateLimit, cfg.RateLimiter.ScanPeriod, cfg.Ban.Backends)
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// banBackends holds the configured ban collaborators. checker and lifter
// are only set when the Redis ban list is enabled.
type banBackends struct {
	banner  ports.Banner
	checker ports.BanChecker
	lifter  ports.BanLifter
	closers []func()
}

func (b *banBackends) close() {
	for _, c := range b.closers {
		c()
	}
}

func initBan(cfg config.Config) (*banBackends, error) {
	var (
		bans    = &banBackends{}
		banners ban.Multi
	)

	for _, backend := range cfg.Ban.Backends {
		switch backend {
		case config.BanBackendLog:
			banners = append(banners, ban.LogBanner{})
		case config.BanBackendRedis:
			storage, err := redisstorage.New(redisstorage.Config{
				Addr:        cfg.Redis.Addr(),
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				BanDuration: cfg.Ban.Duration,
			})
			if err != nil {
				bans.close()
				return nil, err
			}
			bans.closers = append(bans.closers, func() {
				if err := storage.Close(); err != nil {
					log.Printf("failed to close redis storage: %v", err)
				}
			})
			banners = append(banners, storage)
			bans.checker = storage
			bans.lifter = storage
		case config.BanBackendWebhook:
			webhook, err := ban.NewWebhookBanner(ban.WebhookConfig{
				URL:     cfg.Ban.WebhookURL,
				Retries: cfg.Ban.WebhookRetries,
			})
			if err != nil {
				bans.close()
				return nil, err
			}
			banners = append(banners, webhook)
		default:
			bans.close()
			return nil, fmt.Errorf("unsupported ban backend: %s", backend)
		}
	}

	if len(banners) > 0 {
		bans.banner = banners
	}
	return bans, nil
}
