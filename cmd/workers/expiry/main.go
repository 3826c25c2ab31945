package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/config"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/verification"
)

// The sweep is a safety net: expiry is also applied lazily whenever a
// token is resolved, so a missed run only delays the status flip, never
// extends a request's life.
const sweepSchedule = "*/10 * * * *"

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := verification.NewRepository(db)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(sweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		count, err := repo.SweepExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Expiry sweep failed", zap.Error(err))
			return
		}
		if count > 0 {
			logger.Info("Expired verification requests", zap.Int64("count", count))
		}
	})
	if err != nil {
		logger.Fatal("Failed to schedule expiry sweep", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Expiry worker started", zap.String("schedule", sweepSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping expiry worker...")
	<-scheduler.Stop().Done()
	logger.Info("Expiry worker exiting")
}
