// sheet/memory.go
package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory 記憶體中的工作表，開發模式與測試用。
// 每個呼叫各自加鎖；跨呼叫沒有隔離，和真正的試算表一樣。
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]any
	writes int
}

func NewMemory() *Memory {
	return &Memory{sheets: map[string][][]any{}}
}

// Writes 累計寫入次數（測試用來確認沒有多餘的寫入）
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Load 直接放入整張表（含標題列），不計入寫入次數
func (m *Memory) Load(sheet string, rows [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = cloneRows(rows)
}

// Drop 移除整張表
func (m *Memory) Drop(sheet string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sheets, sheet)
}

func (m *Memory) Exists(_ context.Context, sheet string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sheets[sheet]
	return ok, nil
}

func (m *Memory) ListRows(_ context.Context, sheet string) ([][]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	return cloneRows(rows), nil
}

func (m *Memory) HeaderRow(_ context.Context, sheet string) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return append([]any(nil), rows[0]...), nil
}

func (m *Memory) AppendRow(_ context.Context, sheet string, row []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	m.sheets[sheet] = append(rows, append([]any(nil), row...))
	m.writes++
	return nil
}

func (m *Memory) SetCell(_ context.Context, sheet string, row, col int, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if row < 1 || row > len(rows) || col < 1 {
		return fmt.Errorf("%w: row %d col %d", ErrOutOfRange, row, col)
	}
	r := rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	rows[row-1] = r
	m.writes++
	return nil
}

func (m *Memory) DeleteRow(_ context.Context, sheet string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	m.sheets[sheet] = append(rows[:row-1], rows[row:]...)
	m.writes++
	return nil
}

func (m *Memory) EnsureHeader(_ context.Context, sheet string, columns []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[sheet]
	if ok && len(rows) > 0 && SameHeader(rows[0], columns) {
		return false, nil
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	m.sheets[sheet] = [][]any{header}
	m.writes++
	return true, nil
}

func cloneRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}
