package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/config"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/bootstrap"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/cache"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/kafka"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/ratelimit"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/contacts"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/fulfillment"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/garages"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/onboarding"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/quotes"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/shifts"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/verification"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Garages.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	driverRepo := repository.NewDriverRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	quoteRepo := repository.NewQuoteRepository(pool)
	garageRepo := repository.NewGarageRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	contactRepo := repository.NewContactRepository(pool)

	services := bootstrap.Services{
		Onboarding: onboarding.NewOnboardingService(
			driverRepo,
			notificationRepo,
			producer,
			onboarding.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
		Fulfillment: fulfillment.NewFulfillmentService(
			bookingRepo,
			garageRepo,
			notificationRepo,
			producer,
			fulfillment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
		Quotes: quotes.NewQuoteService(
			quoteRepo,
			time.Duration(cfg.Quotes.ViewExpiryHours)*time.Hour,
			quotes.WithNotifications(producer, cfg.Kafka.NotificationsTopic),
		),
		Shifts:   shifts.NewShiftService(shiftRepo, driverRepo, time.Duration(cfg.Shifts.MaxShiftHours)*time.Hour),
		Garages:  garages.NewGarageService(garageRepo, redisCache),
		Contacts: contacts.NewContactService(contactRepo),
		Verification: verification.NewVerificationService(
			redisCache,
			producer,
			cfg.Kafka.NotificationsTopic,
			time.Duration(cfg.Verification.CodeTTLMinutes)*time.Minute,
			int64(cfg.Verification.MaxAttempts),
		),
		Notifications: notificationRepo,
	}

	authManager := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	limiter := ratelimit.New(redisCache, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second, int64(cfg.RateLimit.MaxRequests))

	if err := bootstrap.Run(ctx, cfg, authManager, limiter, services); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
