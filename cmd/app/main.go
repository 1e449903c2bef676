package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/bootstrap"
	"github.com/Domenick1991/carrental/internal/cache"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/notify"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/agency"
	"github.com/Domenick1991/carrental/internal/service/booking"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SnapshotCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	notifier := notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic)
	storeTimeout := time.Duration(cfg.Booking.StoreTimeoutSeconds) * time.Second

	bookingRepo := repository.NewBookingRepository(pool)
	agencyRepo := repository.NewAgencyRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		catalogRepo,
		redisCache,
		notifier,
		booking.WithStoreTimeout(storeTimeout),
	)
	agencyService := agency.NewAgencyService(
		agencyRepo,
		redisCache,
		notifier,
		agency.WithStoreTimeout(storeTimeout),
	)

	if err := bootstrap.Run(ctx, cfg, bookingService, agencyService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
