package loans

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"Gin_postgres_redis_line_bot/dateutil"
)

// SheetName 借用紀錄工作表
const SheetName = "loans"

// 欄位名稱（順序固定）
const (
	ColTS         = "ts"
	ColUserID     = "userId"
	ColUsername   = "username"
	ColItems      = "items"
	ColBorrowedAt = "borrowedAt"
	ColReturnedAt = "returnedAt"
)

// Columns 工作表標題列
var Columns = []string{ColTS, ColUserID, ColUsername, ColItems, ColBorrowedAt, ColReturnedAt}

// LoanRecord 一筆借用紀錄（一列）。
// 日期欄位保留儲存格原值，使用時再經 dateutil.CoerceToDate 轉換。
type LoanRecord struct {
	TS         any
	UserID     string
	Username   string
	Items      string
	BorrowedAt any
	ReturnedAt any

	// Row 工作表中的列號（1-based，第 1 列是標題），每次查詢重新計算
	Row int
}

var itemSep = regexp.MustCompile(`[，,]`)

// SplitItems 以中英文逗號切開器材，去空白、去空項
func SplitItems(s string) []string {
	var out []string
	for _, p := range itemSep.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ItemList 器材清單，沒有資料時回傳固定字樣
func (r LoanRecord) ItemList() []string {
	items := SplitItems(r.Items)
	if len(items) == 0 {
		return []string{"（無器材資料）"}
	}
	return items
}

// DisplayName 建立時的顯示名稱，缺少時退回 userId
func (r LoanRecord) DisplayName() string {
	if r.Username != "" {
		return r.Username
	}
	return r.UserID
}

// Span 租借期間（皆為當日 00:00），任一日期無法解析時 ok=false
func (r LoanRecord) Span(loc *time.Location) (start, end time.Time, ok bool) {
	b, ok1 := dateutil.CoerceToDate(r.BorrowedAt, loc)
	e, ok2 := dateutil.CoerceToDate(r.ReturnedAt, loc)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}
	return dateutil.StartOfDay(b.In(loc)), dateutil.StartOfDay(e.In(loc)), true
}

// ReturnDay 歸還日（當日 00:00）
func (r LoanRecord) ReturnDay(loc *time.Location) (time.Time, bool) {
	e, ok := dateutil.CoerceToDate(r.ReturnedAt, loc)
	if !ok {
		return time.Time{}, false
	}
	return dateutil.StartOfDay(e.In(loc)), true
}

// BorrowDay 租用日（當日 00:00）
func (r LoanRecord) BorrowDay(loc *time.Location) (time.Time, bool) {
	b, ok := dateutil.CoerceToDate(r.BorrowedAt, loc)
	if !ok {
		return time.Time{}, false
	}
	return dateutil.StartOfDay(b.In(loc)), true
}

func (r LoanRecord) cells() []any {
	return []any{r.TS, r.UserID, r.Username, r.Items, r.BorrowedAt, r.ReturnedAt}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
