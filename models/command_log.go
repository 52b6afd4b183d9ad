package models

import "time"

// CommandLog 記錄每一則處理過的指令（稽核用）
type CommandLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index;not null" json:"userId"`
	Kind      string    `gorm:"size:32;index;not null" json:"kind"`
	EventID   string    `gorm:"size:64" json:"eventId,omitempty"`
	Reply     string    `gorm:"type:text" json:"reply"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (CommandLog) TableName() string { return "bot_command_logs" }
