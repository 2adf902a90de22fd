package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-bot/internal/config"
	"attendance-bot/internal/extract"
	"attendance-bot/internal/handler"
	"attendance-bot/internal/repository"
	"attendance-bot/internal/service"
	"attendance-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Время жизни маркера обработанного сообщения
const dedupTTL = 6 * time.Hour

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Создаем репозитории
	attendanceRepo, err := repository.NewGormAttendanceRecordRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	workspaceRepo, err := repository.NewGormWorkspaceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create workspace repository")
	}

	// Создаем сервисы
	attendanceService := service.NewAttendanceService(attendanceRepo)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	reportService := service.NewReportService(attendanceService)

	// Оракул извлечения и конвейер обработки сообщений
	oracle := extract.NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	extractor := extract.NewExtractor(oracle)

	pipeline := service.NewMessagePipeline(
		extractor,
		attendanceService,
		workspaceService,
		service.NewReconciliationEngine(),
		service.NewDedupGuard(dedupTTL),
	)

	// Создаем клиент Telegram
	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client,
		pipeline,
		attendanceService,
		workspaceService,
		reportService,
		cfg,
	)

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
