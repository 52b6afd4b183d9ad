package loans

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RowStore 以列為單位的表格儲存（工作表語意）。
// 列號 1-based，第 1 列是標題；DeleteRow 之後其後的列號全部往前移一列。
type RowStore interface {
	Exists(ctx context.Context, sheet string) (bool, error)
	// ListRows 回傳整張表，包含第 1 列標題
	ListRows(ctx context.Context, sheet string) ([][]any, error)
	// HeaderRow 只讀第 1 列；空表回傳 nil
	HeaderRow(ctx context.Context, sheet string) ([]any, error)
	AppendRow(ctx context.Context, sheet string, row []any) error
	SetCell(ctx context.Context, sheet string, row, col int, value any) error
	DeleteRow(ctx context.Context, sheet string, row int) error
	// EnsureHeader 建表或在標題不符時清空重設，已正確時不得有任何寫入
	EnsureHeader(ctx context.Context, sheet string, columns []string) (repaired bool, err error)
}

// Store 借用紀錄表
type Store struct {
	rows RowStore
	loc  *time.Location
}

func NewStore(rows RowStore, loc *time.Location) *Store {
	return &Store{rows: rows, loc: loc}
}

func (s *Store) Location() *time.Location { return s.loc }

func (s *Store) Exists(ctx context.Context) (bool, error) {
	return s.rows.Exists(ctx, SheetName)
}

// EnsureSchema 每個外部請求開頭呼叫一次；標題不符會清掉整張表
func (s *Store) EnsureSchema(ctx context.Context) error {
	repaired, err := s.rows.EnsureHeader(ctx, SheetName, Columns)
	if err != nil {
		return fmt.Errorf("ensure %s header: %w", SheetName, err)
	}
	if repaired {
		slog.Warn("loan sheet header reset", "sheet", SheetName)
	}
	return nil
}

// ListAll 依表格順序回傳所有紀錄（不含標題列）
func (s *Store) ListAll(ctx context.Context) ([]LoanRecord, error) {
	table, err := s.rows.ListRows(ctx, SheetName)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", SheetName, err)
	}
	if len(table) < 2 {
		return nil, nil
	}
	idx := headerIndex(table[0])
	out := make([]LoanRecord, 0, len(table)-1)
	for i, row := range table[1:] {
		out = append(out, LoanRecord{
			TS:         safeCell(row, idx[ColTS]),
			UserID:     cellString(safeCell(row, idx[ColUserID])),
			Username:   cellString(safeCell(row, idx[ColUsername])),
			Items:      cellString(safeCell(row, idx[ColItems])),
			BorrowedAt: safeCell(row, idx[ColBorrowedAt]),
			ReturnedAt: safeCell(row, idx[ColReturnedAt]),
			Row:        i + 2, // +2：標題列 + 1-based
		})
	}
	return out, nil
}

// Append 新增一列，不做重複檢查
func (s *Store) Append(ctx context.Context, rec LoanRecord) error {
	if err := s.rows.AppendRow(ctx, SheetName, rec.cells()); err != nil {
		return fmt.Errorf("append loan: %w", err)
	}
	return nil
}

// UpdateReturnedAt 只改 returnedAt 一格
func (s *Store) UpdateReturnedAt(ctx context.Context, row int, date time.Time) error {
	header, err := s.rows.HeaderRow(ctx, SheetName)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	col, ok := headerIndex(header)[ColReturnedAt]
	if !ok || col < 0 {
		return ErrFieldNotFound
	}
	if err := s.rows.SetCell(ctx, SheetName, row, col+1, date); err != nil {
		return fmt.Errorf("set returnedAt on row %d: %w", row, err)
	}
	return nil
}

// DeleteRow 刪掉一列，後面的列號會全部改變
func (s *Store) DeleteRow(ctx context.Context, row int) error {
	if err := s.rows.DeleteRow(ctx, SheetName, row); err != nil {
		return fmt.Errorf("delete row %d: %w", row, err)
	}
	return nil
}

func headerIndex(header []any) map[string]int {
	idx := make(map[string]int, len(Columns))
	for _, c := range Columns {
		idx[c] = -1
	}
	for i, h := range header {
		name := cellString(h)
		if cur, ok := idx[name]; ok && cur == -1 {
			idx[name] = i
		}
	}
	return idx
}

func safeCell(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
