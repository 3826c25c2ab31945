package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/analytics"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/config"
)

const rollupSchedule = "5 * * * *"

type rollupWorker struct {
	dynamo *dynamodb.Client
	table  string
	repo   analytics.Repository
	logger *zap.Logger
}

// run folds the past hour of raw events into per-athlete daily rollups.
// The upsert adds counts, so re-processing a window after a crash only
// needs the previous run to have failed before any write.
func (w *rollupWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	since := time.Now().UTC().Add(-time.Hour)
	counts := make(map[string]*analytics.DailyRollup)

	paginator := dynamodb.NewScanPaginator(w.dynamo, &dynamodb.ScanInput{
		TableName:        aws.String(w.table),
		FilterExpression: aws.String("occurred_at >= :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":since": &types.AttributeValueMemberS{Value: since.Format(time.RFC3339)},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			w.logger.Error("Event scan failed", zap.Error(err))
			return
		}

		var events []analytics.Event
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &events); err != nil {
			w.logger.Error("Failed to decode events", zap.Error(err))
			return
		}

		for _, event := range events {
			day := event.OccurredAt.UTC().Truncate(24 * time.Hour)
			key := event.AthleteID.String() + day.Format("2006-01-02")
			rollup, ok := counts[key]
			if !ok {
				rollup = &analytics.DailyRollup{AthleteID: event.AthleteID, Day: day}
				counts[key] = rollup
			}
			switch event.Kind {
			case analytics.EventProfileView:
				rollup.ProfileViews++
			case analytics.EventMediaPlay:
				rollup.MediaPlays++
			case analytics.EventContactReveal:
				rollup.ContactReveals++
			}
		}
	}

	for _, rollup := range counts {
		if err := w.repo.UpsertRollup(ctx, rollup); err != nil {
			w.logger.Error("Failed to apply rollup",
				zap.String("athlete_id", rollup.AthleteID.String()), zap.Error(err))
			return
		}
	}

	w.logger.Info("Rollup pass complete", zap.Int("athletes", len(counts)))
}

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

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	worker := &rollupWorker{
		dynamo: dynamodb.NewFromConfig(awsCfg),
		table:  cfg.AWS.AnalyticsTable,
		repo:   analytics.NewRepository(db),
		logger: logger,
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(rollupSchedule, worker.run); err != nil {
		logger.Fatal("Failed to schedule rollup pass", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Rollup worker started", zap.String("schedule", rollupSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping rollup worker...")
	<-scheduler.Stop().Done()
	logger.Info("Rollup worker exiting")
}
