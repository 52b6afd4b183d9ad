package db

import (
	"context"
	"os"
	"testing"
	"time"

	"Gin_postgres_redis_line_bot/loans"
	"Gin_postgres_redis_line_bot/sheet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ loans.RowStore = (*Repo)(nil)

// setupTestRepo 需要 TEST_DATABASE_URL，否則跳過
func setupTestRepo(t *testing.T) (*Repo, string) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn, err := Open(dsn)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	repo := NewRepo(conn)
	name := "test_" + uuid.NewString()
	t.Cleanup(func() { _ = repo.DropSheet(context.Background(), name) })
	return repo, name
}

func TestCells_TimeBecomesRFC3339(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	raw, err := encodeCells([]any{"a", time.Date(2025, 9, 10, 0, 0, 0, 0, loc)})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","2025-09-10T00:00:00+08:00"]`, string(raw))

	cells, err := decodeCells(raw)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "2025-09-10T00:00:00+08:00"}, cells)

	empty, err := decodeCells(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepo_SheetLifecycle(t *testing.T) {
	repo, name := setupTestRepo(t)
	ctx := context.Background()
	cols := []string{"a", "b", "c"}

	ok, err := repo.Exists(ctx, name)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = repo.ListRows(ctx, name)
	assert.ErrorIs(t, err, sheet.ErrSheetNotFound)
	assert.ErrorIs(t, repo.AppendRow(ctx, name, []any{1}), sheet.ErrSheetNotFound)
	_, err = repo.HeaderRow(ctx, name)
	assert.ErrorIs(t, err, sheet.ErrSheetNotFound)

	repaired, err := repo.EnsureHeader(ctx, name, cols)
	require.NoError(t, err)
	assert.True(t, repaired)
	repaired, err = repo.EnsureHeader(ctx, name, cols)
	require.NoError(t, err)
	assert.False(t, repaired)

	require.NoError(t, repo.AppendRow(ctx, name, []any{"1", "x", "y"}))
	require.NoError(t, repo.AppendRow(ctx, name, []any{"2"}))
	require.NoError(t, repo.AppendRow(ctx, name, []any{"3", "x", "y"}))

	require.NoError(t, repo.SetCell(ctx, name, 3, 3, "z"))
	require.NoError(t, repo.DeleteRow(ctx, name, 2))
	assert.ErrorIs(t, repo.DeleteRow(ctx, name, 9), sheet.ErrOutOfRange)
	assert.ErrorIs(t, repo.SetCell(ctx, name, 9, 1, "z"), sheet.ErrOutOfRange)

	rows, err := repo.ListRows(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", "b", "c"}, {"2", "", "z"}, {"3", "x", "y"}}, rows)
	header, err := repo.HeaderRow(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, header)

	repaired, err = repo.EnsureHeader(ctx, name, []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, repaired)
	rows, err = repo.ListRows(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", "b"}}, rows)
}

func TestRepo_BacksLoanStore(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()
	loc := time.FixedZone("CST", 8*60*60)
	today := time.Date(2025, 9, 11, 9, 0, 0, 0, loc)

	// loans 表名固定，先清空
	require.NoError(t, repo.DropSheet(ctx, loans.SheetName))
	t.Cleanup(func() { _ = repo.DropSheet(context.Background(), loans.SheetName) })

	store := loans.NewStore(repo, loc)
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.Append(ctx, loans.LoanRecord{
		TS: today, UserID: "A", Username: "小明", Items: "相機A",
		BorrowedAt: time.Date(2025, 9, 10, 0, 0, 0, 0, loc),
		ReturnedAt: time.Date(2025, 9, 20, 0, 0, 0, 0, loc),
	}))

	got, err := store.LoansOnDay(ctx, "2025.09.11")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "小明", got[0].Username)

	res, err := loans.NewDeleter(store, nil, func() time.Time { return today }).Delete(ctx, "A", "1")
	require.NoError(t, err)
	assert.False(t, res.Cancelled)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	end, ok := all[0].ReturnDay(loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 11, 0, 0, 0, 0, loc), end)
}
