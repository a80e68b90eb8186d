package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/config"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/kafka"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/notify"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/shifts"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	driverRepo := repository.NewDriverRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)
	shiftService := shifts.NewShiftService(shiftRepo, driverRepo, time.Duration(cfg.Shifts.MaxShiftHours)*time.Hour)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewLogSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.NotificationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			closed, err := shiftService.AutoClockOut(ctx)
			if err != nil {
				log.Printf("auto-clockout error: %v", err)
				continue
			}
			if len(closed) > 0 {
				log.Printf("auto-closed %d shifts", len(closed))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
