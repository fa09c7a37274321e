package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ksobremonte/sentiment-slice/internal/config"
	"github.com/ksobremonte/sentiment-slice/internal/handler"
	"github.com/ksobremonte/sentiment-slice/internal/migration"
	"github.com/ksobremonte/sentiment-slice/internal/repository"
	"github.com/ksobremonte/sentiment-slice/internal/routes"
	"github.com/ksobremonte/sentiment-slice/internal/service"
	pkgcache "github.com/ksobremonte/sentiment-slice/pkg/cache"
	"github.com/ksobremonte/sentiment-slice/pkg/jwt"
	pkglogger "github.com/ksobremonte/sentiment-slice/pkg/logger"
	pkgredis "github.com/ksobremonte/sentiment-slice/pkg/redis"
	pkgstorage "github.com/ksobremonte/sentiment-slice/pkg/storage"
)

// @title           Sentiment Slice API
// @version         1.0
// @description     Review intake and sentiment dashboard for Slice of Heaven
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// S3-compatible storage for review photos
	var photoStore service.PhotoStore
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Info("Warning: S3 storage init failed: %v (continuing without photo uploads)", s3Err)
		} else {
			photoStore = s3Client
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// JWT Manager
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn,
		cfg.JWT.RefreshIn,
	)

	// Repositories
	reviewRepo := repository.NewReviewRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)

	// Services
	captchaService := service.NewCaptchaService(cfg.HCaptcha.SiteKey, cfg.HCaptcha.Secret)
	reviewService := service.NewReviewService(
		reviewRepo,
		photoStore,
		service.NewSimulatedClassifier(),
		cacheService,
		cfg.Review.RequireReceipt,
	)
	authService := service.NewAuthService(operatorRepo, jwtManager, cacheService)
	aiSorter := service.NewAISorter(cfg.AI.GatewayURL, cfg.AI.APIKey, cfg.AI.Model)

	// Handlers
	reviewHandler := handler.NewReviewHandler(reviewService, captchaService)
	dashboardHandler := handler.NewDashboardHandler(reviewService, aiSorter)
	authHandler := handler.NewAuthHandler(authService, captchaService)
	configHandler := handler.NewConfigHandler(captchaService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	routes.Setup(router, reviewHandler, dashboardHandler, authHandler, configHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Server listening on %s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection and applies pool settings
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
