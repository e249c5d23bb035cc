package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jam7519/bugtracker-api/internal/api"
	"github.com/jam7519/bugtracker-api/internal/config"
	"github.com/jam7519/bugtracker-api/internal/logger"
	"github.com/jam7519/bugtracker-api/internal/service"
	"github.com/jam7519/bugtracker-api/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Переменные окружения из .env (в контейнере задаются снаружи)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	zapLogger, err := logger.New(logLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 1. Storage Layer (подключение к БД и миграции)
	db, err := storage.NewPostgresDB(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLife)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	zapLogger.Info("Connected to PostgreSQL and ran migrations successfully")

	repo := storage.NewRepository(db)

	// 2. Service Layer (бизнес-логика)
	manager := service.NewManager(repo, zapLogger)

	// 3. API Layer (HTTP)
	handler := api.NewHandler(manager, zapLogger)
	router := api.SetupRouter(handler, zapLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Запуск сервера
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Ждем SIGINT/SIGTERM и гасим сервер, не обрывая текущие запросы
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Возвращаем соединения пула перед выходом
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	zapLogger.Info("Server exited properly")
}
