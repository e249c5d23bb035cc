package storage

import (
	"fmt"
	"time"

	"github.com/jam7519/bugtracker-api/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB открывает соединение по DSN и настраивает пул соединений.
// Каждый запрос берет соединение из пула и возвращает его по завершении.
func NewPostgresDB(dsn string, maxOpen, maxIdle, connMaxLife int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLife) * time.Second)

	// Автомиграция - создает таблицы bugs и bug_comments на основе структур из domain/models.go
	if err := db.AutoMigrate(&domain.Bug{}, &domain.Comment{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
