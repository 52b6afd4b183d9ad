package loans

import (
	"regexp"
	"strings"
	"time"

	"Gin_postgres_redis_line_bot/dateutil"
)

// 表單欄位
const (
	FieldItems    = "租用器材"
	FieldBorrowed = "租用日期"
	FieldReturned = "歸還日期"
)

var (
	borrowKeyword = regexp.MustCompile(`(?i)^借器材[ \t]*`)
	lineBreak     = regexp.MustCompile(`\r?\n`)
	fieldLine     = regexp.MustCompile(`^(租用器材|租用日期|歸還日期)[\s\x{3000}]*[:：][\s\x{3000}]*(.+)$`)
)

// Draft 驗證過的借用資料，尚未寫入
type Draft struct {
	Items      string
	BorrowedAt time.Time
	ReturnedAt time.Time
}

// ParseBorrow 解析借器材表單：
//
//	借器材
//	租用器材：器材一, 器材二
//	租用日期：YYYY.MM.DD
//	歸還日期：YYYY.MM.DD
func ParseBorrow(raw string, loc *time.Location) (Draft, error) {
	text := strings.TrimSpace(borrowKeyword.ReplaceAllString(raw, ""))

	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 3 {
		return Draft{}, ErrMalformedShape
	}

	kv := make(map[string]string, 3)
	for _, l := range lines {
		m := fieldLine.FindStringSubmatch(l)
		if m == nil {
			return Draft{}, &UnparsableLineError{Line: l}
		}
		kv[m[1]] = strings.TrimSpace(m[2])
	}
	if kv[FieldItems] == "" || kv[FieldBorrowed] == "" || kv[FieldReturned] == "" {
		return Draft{}, ErrMissingFields
	}

	items := SplitItems(kv[FieldItems])
	if len(items) == 0 {
		return Draft{}, ErrMissingFields
	}

	start, ok1 := dateutil.ParseDay(kv[FieldBorrowed], loc)
	end, ok2 := dateutil.ParseDay(kv[FieldReturned], loc)
	if !ok1 || !ok2 {
		return Draft{}, ErrInvalidDateFormat
	}
	if dateutil.StartOfDay(end).Before(dateutil.StartOfDay(start)) {
		return Draft{}, ErrInvalidDateOrder
	}

	return Draft{
		Items:      strings.Join(items, ", "),
		BorrowedAt: start,
		ReturnedAt: end,
	}, nil
}
