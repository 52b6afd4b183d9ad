// dateutil/dateutil.go
package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayRe   = regexp.MustCompile(`^(\d{4})\.(\d{2})\.(\d{2})$`)
	monthRe = regexp.MustCompile(`^(\d{4})\.(\d{2})$`)
)

// Month 查詢用的月份區間，Start/End 都是當日 00:00
type Month struct {
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// ParseDay 解析 YYYY.MM.DD，失敗回傳 false
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	m := dayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	// time.Date 會把 2025.02.30 進位成 03.02，這種輸入視為無效
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay 輸出 YYYY.MM.DD（以 t 本身的時區）
func FormatDay(t time.Time) string {
	return fmt.Sprintf("%04d.%02d.%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseMonth 解析 YYYY.MM，月份需在 1..12
func ParseMonth(s string, loc *time.Location) (Month, bool) {
	m := monthRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Month{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 {
		return Month{}, false
	}
	return Month{
		Year:  y,
		Month: time.Month(mo),
		Start: time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, loc),
		// day 0 of next month = last day of this month
		End: time.Date(y, time.Month(mo)+1, 0, 0, 0, 0, 0, loc),
	}, true
}

// StartOfDay 回傳同一天 00:00 的新值
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// generic layouts tried for string cells, most specific first
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006/1/2",
}

// CoerceToDate 把儲存格的值轉成時間。
// time.Time 原樣回傳，即使是零值也一樣（已知的行為，呼叫端自行注意）。
func CoerceToDate(v any, loc *time.Location) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int:
		return fromMillis(int64(x), loc)
	case int64:
		return fromMillis(x, loc)
	case float64:
		return fromMillis(int64(x), loc)
	default:
		return time.Time{}, false
	}
}

func fromMillis(ms int64, loc *time.Location) (time.Time, bool) {
	if ms == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).In(loc), true
}
