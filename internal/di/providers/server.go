package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/api"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/config"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/logger"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/ratelimit"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

// RateLimiterHandle wraps the keyed rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-IP write rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.RateLimit.WriteRPS, cfg.RateLimit.WriteBurst)
	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	crumbService := do.MustInvoke[*service.CrumbService](i)
	unitService := do.MustInvoke[*service.UnitService](i)
	tagService := do.MustInvoke[*service.TagService](i)

	services := &api.Services{
		Crumb: crumbService,
		Unit:  unitService,
		Tag:   tagService,
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiterHandle.KeyedRateLimiter,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
