package loans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_line_bot/sheet"
)

var loc = time.FixedZone("CST", 8*60*60)

// today is fixed for every test in this package
var today = time.Date(2025, 9, 11, 15, 30, 0, 0, loc)

func fixedNow() time.Time { return today }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func header() []any {
	h := make([]any, len(Columns))
	for i, c := range Columns {
		h[i] = c
	}
	return h
}

func row(userID, name, items string, borrowed, returned time.Time) []any {
	return []any{today, userID, name, items, borrowed, returned}
}

func newTestStore(t *testing.T, rows ...[]any) (*Store, *sheet.Memory) {
	t.Helper()
	mem := sheet.NewMemory()
	mem.Load(SheetName, append([][]any{header()}, rows...))
	return NewStore(mem, loc), mem
}

func dataRows(t *testing.T, mem *sheet.Memory) [][]any {
	t.Helper()
	rows, err := mem.ListRows(context.Background(), SheetName)
	require.NoError(t, err)
	return rows[1:]
}

type fakeProfiles map[string]string

func (f fakeProfiles) DisplayName(_ context.Context, userID string) (string, error) {
	name, ok := f[userID]
	if !ok {
		return "", errors.New("profile not found")
	}
	return name, nil
}
