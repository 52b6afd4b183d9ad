package loans

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"Gin_postgres_redis_line_bot/dateutil"
)

// OnDay 在 day 當天占用中的紀錄：borrowedAt <= day <= returnedAt（含頭尾），保持表格順序
func OnDay(records []LoanRecord, day time.Time, loc *time.Location) []LoanRecord {
	d := dateutil.StartOfDay(day.In(loc))
	var out []LoanRecord
	for _, r := range records {
		start, end, ok := r.Span(loc)
		if !ok {
			continue
		}
		if !start.After(d) && !d.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// InMonth 與該月份有重疊的紀錄，依租用日期穩定排序
func InMonth(records []LoanRecord, month dateutil.Month, loc *time.Location) []LoanRecord {
	monthStart := dateutil.StartOfDay(month.Start)
	monthEnd := dateutil.StartOfDay(month.End)
	var out []LoanRecord
	for _, r := range records {
		start, end, ok := r.Span(loc)
		if !ok {
			continue
		}
		if !start.After(monthEnd) && !end.Before(monthStart) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].BorrowDay(loc)
		b, _ := out[j].BorrowDay(loc)
		return a.Before(b)
	})
	return out
}

// Actionable 使用者可操作的紀錄：本人、歸還日 >= 今天，保持表格順序。
// 回傳的順序就是「我的租借」與「刪除 N」用的編號，每次請求都要重新計算。
func Actionable(records []LoanRecord, userID string, today time.Time, loc *time.Location) []LoanRecord {
	t := dateutil.StartOfDay(today.In(loc))
	var out []LoanRecord
	for _, r := range records {
		if r.UserID != userID {
			continue
		}
		end, ok := r.ReturnDay(loc)
		if !ok || end.Before(t) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// LoansOnDay 查特定日期占用中的紀錄
func (s *Store) LoansOnDay(ctx context.Context, arg string) ([]LoanRecord, error) {
	if err := s.requireSheet(ctx); err != nil {
		return nil, err
	}
	day, ok := dateutil.ParseDay(arg, s.loc)
	if !ok {
		return nil, errInvalidDay
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return OnDay(all, day, s.loc), nil
}

// LoansInMonth 查與整個月份重疊的紀錄
func (s *Store) LoansInMonth(ctx context.Context, arg string) ([]LoanRecord, dateutil.Month, error) {
	if err := s.requireSheet(ctx); err != nil {
		return nil, dateutil.Month{}, err
	}
	month, ok := dateutil.ParseMonth(arg, s.loc)
	if !ok {
		return nil, dateutil.Month{}, errInvalidMonth
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, month, err
	}
	return InMonth(all, month, s.loc), month, nil
}

// QueryDay 查特定日期，回覆文字
func (s *Store) QueryDay(ctx context.Context, arg string) (string, error) {
	list, err := s.LoansOnDay(ctx, arg)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "暫無借用資訊，請確認工作室是否有拍攝。", nil
	}
	return renderBlocks(list, s.loc), nil
}

// QueryMonth 查整個月份，回覆文字
func (s *Store) QueryMonth(ctx context.Context, arg string) (string, error) {
	list, month, err := s.LoansInMonth(ctx, arg)
	if err != nil {
		return "", err
	}
	monthText := fmt.Sprintf("%d / %d", month.Year, int(month.Month))
	if len(list) == 0 {
		return monthText + " 暫無器材借用紀錄。", nil
	}
	return monthText + " 器材租借\n\n" + renderBlocks(list, s.loc), nil
}

// MyLoans 列出本人可操作的紀錄（含編號）
func (s *Store) MyLoans(ctx context.Context, userID, displayName string, today time.Time) (string, error) {
	if err := s.requireSheet(ctx); err != nil {
		return "", err
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		return "", err
	}
	mine := Actionable(all, userID, today, s.loc)
	if len(mine) == 0 {
		return "您目前沒有可操作的租借記錄。", nil
	}
	if displayName == "" {
		displayName = "您"
	}
	blocks := make([]string, 0, len(mine))
	for i, r := range mine {
		start, end := rangeText(r, s.loc)
		blocks = append(blocks, fmt.Sprintf("[%d] %s ~ %s\n%s", i+1, start, end, strings.Join(r.ItemList(), ", ")))
	}
	return fmt.Sprintf("📋 %s的租借記錄\n\n%s\n\n輸入「刪除 <編號>」即可刪除\n例如：刪除 1",
		displayName, strings.Join(blocks, "\n\n")), nil
}

func (s *Store) requireSheet(ctx context.Context) error {
	ok, err := s.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check sheet: %w", err)
	}
	if !ok {
		return ErrStoreMissing
	}
	return nil
}

// renderBlocks 每筆：日期區間、粗體借用人、器材逐行；筆與筆之間空一行
func renderBlocks(list []LoanRecord, loc *time.Location) string {
	blocks := make([]string, 0, len(list))
	for _, r := range list {
		start, end := rangeText(r, loc)
		blocks = append(blocks, fmt.Sprintf("📅 %s ~ %s\n**%s**\n%s",
			start, end, r.DisplayName(), strings.Join(r.ItemList(), "\n")))
	}
	return strings.Join(blocks, "\n\n")
}

func rangeText(r LoanRecord, loc *time.Location) (string, string) {
	return dayText(r.BorrowDay(loc)), dayText(r.ReturnDay(loc))
}

func dayText(t time.Time, ok bool) string {
	if !ok {
		return "----.--.--"
	}
	return dateutil.FormatDay(t)
}
