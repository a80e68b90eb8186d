package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/api"
	"github.com/Blank-Slate-Dev/drivlet-sub007/config"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/ratelimit"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/contacts"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/fulfillment"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/garages"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/onboarding"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/quotes"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/shifts"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/verification"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services bundles the use cases the HTTP surface exposes.
type Services struct {
	Onboarding    onboarding.OnboardingUseCase
	Fulfillment   fulfillment.FulfillmentUseCase
	Quotes        quotes.QuoteUseCase
	Shifts        shifts.ShiftUseCase
	Garages       garages.GarageUseCase
	Contacts      contacts.ContactUseCase
	Verification  verification.VerificationUseCase
	Notifications repository.NotificationRepository
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, authManager *auth.Manager, limiter *ratelimit.Limiter, services Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, authManager, limiter, services),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, authManager *auth.Manager, limiter *ratelimit.Limiter, services Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	public := router.Group("/api/v1")
	limited := router.Group("/api/v1")
	if limiter != nil {
		limited.Use(limiter.Middleware("public"))
	}

	authed := router.Group("/api/v1", auth.Middleware(authManager))
	customer := authed.Group("", auth.RequireRole(auth.RoleCustomer))
	driver := authed.Group("/driver", auth.RequireRole(auth.RoleDriver))
	garage := authed.Group("/garage", auth.RequireRole(auth.RoleGarage))
	admin := authed.Group("/admin", auth.RequireRole(auth.RoleAdmin))

	internal := router.Group("/internal", auth.CronSecret(cfg.Auth.CronSecret))

	api.NewOnboardingHandler(services.Onboarding).Register(driver, admin)
	api.NewBookingHandler(services.Fulfillment).Register(customer, garage, admin)
	api.NewQuoteHandler(services.Quotes).Register(customer, admin)
	api.NewShiftHandler(services.Shifts).Register(driver, internal)
	api.NewGarageHandler(services.Garages).Register(public, admin)
	api.NewContactHandler(services.Contacts).Register(limited, admin)
	api.NewVerificationHandler(services.Verification).Register(limited)
	api.NewNotificationHandler(services.Notifications).Register(authed)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
