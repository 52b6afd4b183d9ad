package db

import (
	"context"

	"Gin_postgres_redis_line_bot/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Command logs

func (r *Repo) LogCommand(ctx context.Context, userID, kind, eventID, reply string) error {
	return r.DB.WithContext(ctx).Create(&models.CommandLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		EventID: eventID,
		Reply:   reply,
	}).Error
}

// 最近的指令紀錄（新到舊）
func (r *Repo) ListCommandLogs(ctx context.Context, userID string, limit int) ([]models.CommandLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tx := r.DB.WithContext(ctx).Model(&models.CommandLog{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	var logs []models.CommandLog
	if err := tx.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
