// sheet/sheet.go
package sheet

import (
	"errors"
	"fmt"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrOutOfRange    = errors.New("row or column out of range")
)

// SameHeader 標題列必須與 columns 完全相同（數量與順序）
func SameHeader(header []any, columns []string) bool {
	if len(header) != len(columns) {
		return false
	}
	for i, h := range header {
		if fmt.Sprint(h) != columns[i] {
			return false
		}
	}
	return true
}
