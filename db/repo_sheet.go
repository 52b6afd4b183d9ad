// db/repo_sheet.go
package db

import (
	"context"
	"errors"
	"fmt"

	"Gin_postgres_redis_line_bot/models"
	"Gin_postgres_redis_line_bot/sheet"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cellCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Sheets：Repo 以 Postgres 實作列式工作表。
// 每個寫入都在交易中先鎖住 sheet 那一列，同一張表的寫入因此依序執行。

func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Sheet{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListRows(ctx context.Context, name string) ([][]any, error) {
	ok, err := r.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}

	var rows []models.SheetRow
	if err := r.DB.WithContext(ctx).
		Where("sheet = ?", name).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells, err := decodeCells(row.Cells)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", row.Position, err)
		}
		out = append(out, cells)
	}
	return out, nil
}

// HeaderRow 只取 position = 1
func (r *Repo) HeaderRow(ctx context.Context, name string) ([]any, error) {
	ok, err := r.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}

	var sr models.SheetRow
	err = r.DB.WithContext(ctx).Where("sheet = ? AND position = ?", name, 1).First(&sr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCells(sr.Cells)
}

func (r *Repo) AppendRow(ctx context.Context, name string, cells []any) error {
	raw, err := encodeCells(cells)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSheet(tx, name); err != nil {
			return err
		}
		var last int
		if err := tx.Model(&models.SheetRow{}).
			Where("sheet = ?", name).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		return tx.Create(&models.SheetRow{
			ID:       uuid.NewString(),
			Sheet:    name,
			Position: last + 1,
			Cells:    raw,
		}).Error
	})
}

func (r *Repo) SetCell(ctx context.Context, name string, row, col int, value any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row %d col %d", sheet.ErrOutOfRange, row, col)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSheet(tx, name); err != nil {
			return err
		}
		var sr models.SheetRow
		err := tx.Where("sheet = ? AND position = ?", name, row).First(&sr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: row %d", sheet.ErrOutOfRange, row)
		}
		if err != nil {
			return err
		}

		cells, err := decodeCells(sr.Cells)
		if err != nil {
			return err
		}
		for len(cells) < col {
			cells = append(cells, "")
		}
		cells[col-1] = value

		raw, err := encodeCells(cells)
		if err != nil {
			return err
		}
		return tx.Model(&models.SheetRow{}).Where("id = ?", sr.ID).Update("cells", raw).Error
	})
}

// DeleteRow 刪除後，後面的列號全部減一
func (r *Repo) DeleteRow(ctx context.Context, name string, row int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSheet(tx, name); err != nil {
			return err
		}
		res := tx.Where("sheet = ? AND position = ?", name, row).Delete(&models.SheetRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: row %d", sheet.ErrOutOfRange, row)
		}
		return tx.Model(&models.SheetRow{}).
			Where("sheet = ? AND position > ?", name, row).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// EnsureHeader 標題正確時只讀不寫；否則建表或清空後寫入標題
func (r *Repo) EnsureHeader(ctx context.Context, name string, columns []string) (bool, error) {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	var first models.SheetRow
	err := r.DB.WithContext(ctx).Where("sheet = ? AND position = 1", name).First(&first).Error
	switch {
	case err == nil:
		cells, derr := decodeCells(first.Cells)
		if derr == nil && sheet.SameHeader(cells, columns) {
			return false, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	raw, err := encodeCells(header)
	if err != nil {
		return false, err
	}
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Sheet{Name: name}).Error; err != nil {
			return err
		}
		if err := lockSheet(tx, name); err != nil {
			return err
		}
		if err := tx.Where("sheet = ?", name).Delete(&models.SheetRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.SheetRow{
			ID:       uuid.NewString(),
			Sheet:    name,
			Position: 1,
			Cells:    raw,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DropSheet 移除整張表（含所有列）
func (r *Repo) DropSheet(ctx context.Context, name string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sheet = ?", name).Delete(&models.SheetRow{}).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", name).Delete(&models.Sheet{}).Error
	})
}

func lockSheet(tx *gorm.DB, name string) error {
	var s models.Sheet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}
	return err
}

func encodeCells(cells []any) (datatypes.JSON, error) {
	if cells == nil {
		cells = []any{}
	}
	b, err := cellCodec.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("encode cells: %w", err)
	}
	return datatypes.JSON(b), nil
}

func decodeCells(raw datatypes.JSON) ([]any, error) {
	if len(raw) == 0 {
		return []any{}, nil
	}
	var cells []any
	if err := cellCodec.Unmarshal(raw, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
