// models/sheet.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

const SheetTable = "bot_sheets"
const SheetRowTable = "bot_sheet_rows"

// Sheet 一張工作表；存在與否由這張表決定
type Sheet struct {
	Name      string    `gorm:"size:100;primaryKey" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SheetRow 工作表中的一列。Position 即 1-based 列號，第 1 列為標題。
// 刪除時後面的列 Position 減一，所以 (sheet, position) 不設唯一索引。
type SheetRow struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Sheet     string         `gorm:"size:100;not null" json:"sheet"`
	Position  int            `gorm:"not null" json:"position"`
	Cells     datatypes.JSON `gorm:"not null" json:"cells"` // JSON 陣列
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Sheet) TableName() string    { return SheetTable }
func (SheetRow) TableName() string { return SheetRowTable }
