package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dsyengo/dekai-smart-poultry-backend/internal/ai/gemini"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/ai/modelarts"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/config"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/database/minio"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/database/postgres"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/database/redis"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/event"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/handlers"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/repository"
	"github.com/dsyengo/dekai-smart-poultry-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/var", "log", "poultry_service")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	// db connection
	db, err := postgres.Connect(cfg.PostgresCfg)
	if err != nil {
		log.Printf("Error connecting to PostgreSQL, retrying: %v", err)
		postgres.RetryConnectOnFailed(5*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("Error connecting to MinIO: %v", err)
	}
	defer minioClient.Close()

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer rabbitConn.Close()
	alertPublisher := event.NewAlertPublisher(rabbitConn)

	// external AI gateways
	scanGateway := modelarts.NewClient(cfg.ModelArtsCfg)
	chatGateway, err := gemini.NewChatGateway(cfg.GeminiAPICfg.APIKeys, cfg.GeminiAPICfg.FlashName)
	if err != nil {
		log.Fatalf("Error initializing chat gateway: %v", err)
	}

	// repositories
	userRepository := repository.NewUserRepository(db)
	farmRepository := repository.NewFarmRepository(db)
	scanRepository := repository.NewScanRepository(db)
	chatRepository := repository.NewChatRepository(db)

	// services
	jwtService := services.NewJWTService(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.SessionHours)
	sessionService := services.NewSessionService(redisClient.GetClient(), cfg.AuthCfg.SessionHours)
	userService := services.NewUserService(userRepository, jwtService, sessionService)
	farmService := services.NewFarmService(farmRepository)
	scanService := services.NewScanService(scanRepository, farmRepository, scanGateway, minioClient, alertPublisher, minio.Storage.ScanImages)
	chatService := services.NewChatService(chatRepository, chatGateway)
	reportService := services.NewReportService(scanRepository, userRepository, minioClient, minio.Storage.Reports)

	// handlers
	authHandler := handlers.NewAuthHandler(userService)
	farmHandler := handlers.NewFarmHandler(farmService)
	analysisHandler := handlers.NewAnalysisHandler(scanService)
	chatHandler := handlers.NewChatHandler(chatService)
	historyHandler := handlers.NewHistoryHandler(scanService, reportService)

	r := gin.Default()
	auth := handlers.AuthMiddleware(jwtService, sessionService)

	authHandler.RegisterRoutes(r, auth)
	farmHandler.RegisterRoutes(r, auth)
	analysisHandler.RegisterRoutes(r, auth)
	chatHandler.RegisterRoutes(r, auth)
	historyHandler.RegisterRoutes(r, auth)

	log.Printf("Starting poultry-service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
