package loans

import (
	"regexp"
	"strings"
)

// Kind 指令種類
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindBorrow
	KindQueryDay
	KindQueryMonth
	KindMyLoans
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindHelp:
		return "help"
	case KindBorrow:
		return "borrow"
	case KindQueryDay:
		return "query_day"
	case KindQueryMonth:
		return "query_month"
	case KindMyLoans:
		return "my_loans"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Command 解析後的指令；Arg 依種類為原始表單、日期、月份或編號
type Command struct {
	Kind Kind
	Arg  string
}

var (
	helpRe       = regexp.MustCompile(`^查指令$`)
	borrowRe     = regexp.MustCompile(`(?i)^借器材`)
	queryDayRe   = regexp.MustCompile(`^查器材 (\d{4}\.\d{2}\.\d{2})$`)
	queryMonthRe = regexp.MustCompile(`^查器材 (\d{4}\.\d{2})$`)
	myLoansRe    = regexp.MustCompile(`^我的租借$`)
	deleteRe     = regexp.MustCompile(`^刪除 (\d+)$`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// ParseCommand 依序比對，第一個符合的為準：
// 查指令 → 借器材 → 查器材 日期 → 查器材 月份 → 我的租借 → 刪除 N → 未知
func ParseCommand(text string) Command {
	text = strings.TrimSpace(text)

	if helpRe.MatchString(text) {
		return Command{Kind: KindHelp}
	}
	// 借器材要保留換行，不能先壓縮空白
	if borrowRe.MatchString(text) {
		return Command{Kind: KindBorrow, Arg: text}
	}

	collapsed := spaceRun.ReplaceAllString(text, " ")
	if m := queryDayRe.FindStringSubmatch(collapsed); m != nil {
		return Command{Kind: KindQueryDay, Arg: m[1]}
	}
	if m := queryMonthRe.FindStringSubmatch(collapsed); m != nil {
		return Command{Kind: KindQueryMonth, Arg: m[1]}
	}
	if myLoansRe.MatchString(collapsed) {
		return Command{Kind: KindMyLoans}
	}
	if m := deleteRe.FindStringSubmatch(collapsed); m != nil {
		return Command{Kind: KindDelete, Arg: m[1]}
	}
	return Command{Kind: KindUnknown}
}

// UnknownCommandText 未知指令的回覆
const UnknownCommandText = "目前沒有此指令，請使用「查指令」查看指令範例"

// HelpText 指令說明
func HelpText() string {
	return strings.Join([]string{
		"可用指令與範例：",
		"",
		"1) 借器材（請複製下方四行格式，包含「借器材」）",
		"借器材",
		"租用器材：器材一, 器材二, 器材三",
		"租用日期：2025.09.10",
		"歸還日期：2025.09.12",
		"",
		"2) 查器材 <YYYY.MM.DD> 或 <YYYY.MM>",
		"範例：查器材 2025.09.11（查特定日期）",
		"範例：查器材 2025.09（查整個月份）",
		"",
		"3) 我的租借",
		"查看您的未來租借記錄，並進行刪除",
		"",
		"4) 刪除 <編號>",
		"取消未來的租借，或將進行中的租借提前歸還",
		"",
		"5) 查指令",
		"顯示所有指令與使用範例",
	}, "\n")
}
