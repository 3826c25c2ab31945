package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/access"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/analytics"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/auth"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/billing"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/cards"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/config"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/consent"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/mailer"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/media"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/search"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/verification"
	"recruitpath/athlete-portal/athlete-portal-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Relational store
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// The consent subsystem manages its own tables through gorm on the
	// same database.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to initialize gorm", zap.Error(err))
	}

	// AWS collaborators
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}
	sesClient := sesv2.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	snsClient := sns.NewFromConfig(awsCfg)

	// Search cluster; the portal degrades to unindexed profiles when the
	// cluster is unreachable.
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Search.Addresses,
		Username:  cfg.Search.Username,
		Password:  cfg.Search.Password,
	})
	if err != nil {
		logger.Warn("Search cluster unavailable, directory search disabled", zap.Error(err))
		esClient = nil
	}

	// Accounts and access
	accountsRepo := accounts.NewRepository(db)
	var indexer accounts.ProfileIndexer
	if esClient != nil {
		indexer = search.NewIndexer(esClient, cfg.Search.Index, logger)
	}
	accountsService := accounts.NewService(accountsRepo, indexer, logger)
	issuer := auth.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	authMiddleware := auth.RequireAuth(issuer)
	policy := access.NewPolicy(accountsRepo)

	// Verification workflow
	sesMailer := mailer.NewSESMailer(sesClient, cfg.Email.FromAddress, cfg.Email.FromName, logger)
	verificationRepo := verification.NewRepository(db)
	verificationService := verification.NewService(verificationRepo, accountsRepo, policy, sesMailer, cfg.Server.PublicURL, logger)

	// Media library
	mediaService := media.NewService(media.NewRepository(db), storage.NewS3Client(s3Client), cfg.AWS.MediaBucket, logger)

	// Billing
	billingService := billing.NewService(accountsRepo, snsClient, cfg.AWS.BillingEventsTopic, logger)

	// Analytics
	eventStore := analytics.NewDynamoEventStore(dynamoClient, cfg.AWS.AnalyticsTable)
	analyticsService := analytics.NewService(eventStore, analytics.NewRepository(db), policy, logger)

	// Consent
	consentService, err := consent.NewService(gormDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize consent service", zap.Error(err))
	}

	// Router
	if os.Getenv("APP_ENV") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		accounts.NewHandler(accountsService, issuer).RegisterRoutes(api, authMiddleware)
		verification.NewHandler(verificationService).RegisterRoutes(api, authMiddleware)
		media.NewHandler(mediaService).RegisterRoutes(api, authMiddleware)
		billing.NewHandler(billingService, cfg.Security.BillingWebhookSecret).RegisterRoutes(api)
		analytics.NewHandler(analyticsService).RegisterRoutes(api, authMiddleware)
		consent.NewHandler(consentService).RegisterRoutes(api, authMiddleware)
		cards.NewHandler(accountsService, verificationService, cards.NewGenerator()).RegisterRoutes(api)
		if esClient != nil {
			search.NewHandler(search.NewService(esClient, cfg.Search.Index, logger)).RegisterRoutes(api)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
