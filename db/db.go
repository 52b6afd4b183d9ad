package db

import (
	"Gin_postgres_redis_line_bot/config"
	"Gin_postgres_redis_line_bot/models"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)
}

func ConnectDB(cfg config.Config) (*gorm.DB, error) {
	return Open(DSN(cfg))
}

// Open 連線並建表
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate models: %w", err)
	}
	slog.Info("database connected")
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Sheet{}, &models.SheetRow{}, &models.CommandLog{}); err != nil {
		return err
	}

	// 依列號讀取整張表
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_sheet_position
	  ON %s (sheet, position);
	`, models.SheetRowTable, models.SheetRowTable)).Error; err != nil {
		return err
	}

	return nil
}
