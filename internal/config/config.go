package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config - настройки приложения из переменных окружения
type Config struct {
	DatabaseURL    string
	ServerPort     int
	LogLevel       string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  int // секунды
}

// Load читает настройки через viper. Значения берутся из окружения
// (файл .env подгружается в окружение на старте приложения).
func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 3600)
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("DATABASE_URL"),
		ServerPort:     viper.GetInt("SERVER_PORT"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
		DBMaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLife:  viper.GetInt("DB_CONN_MAX_LIFETIME"),
	}

	// Без строки подключения сервис стартовать не может
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is missing, check your .env file")
	}

	return cfg, nil
}
