package loans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_redis_line_bot/dateutil"
)

var positiveDigits = regexp.MustCompile(`^\+?[0-9]+$`)

// Deleter 處理「刪除 N」：未來的紀錄整筆取消，進行中的紀錄改成今天提前歸還。
// N 是 Actionable 清單中的排名，每次都重新計算，不是固定 ID。
type Deleter struct {
	store  *Store
	locker Locker
	now    func() time.Time
}

func NewDeleter(store *Store, locker Locker, now func() time.Time) *Deleter {
	if now == nil {
		now = time.Now
	}
	return &Deleter{store: store, locker: locker, now: now}
}

// DeleteResult 處理結果，用於回覆訊息
type DeleteResult struct {
	Cancelled bool // true：整筆刪除；false：提前歸還
	Start     time.Time
	End       time.Time // 提前歸還時為今天
	Items     []string
}

func (r DeleteResult) Message() string {
	items := strings.Join(r.Items, ", ")
	span := fmt.Sprintf("📅 %s ~ %s", dateutil.FormatDay(r.Start), dateutil.FormatDay(r.End))
	if r.Cancelled {
		return strings.Join([]string{"✅ 已取消未來租借記錄", "", span, items, "", "記錄已從系統中移除。"}, "\n")
	}
	return strings.Join([]string{"✅ 已提前歸還器材", "", span, items, "", "租借期間已調整為提前歸還。"}, "\n")
}

// ParseIndex 1-based 記錄編號；超出 int 的正整數一定不在清單內
func ParseIndex(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && positiveDigits.MatchString(raw) {
		return 0, &IndexOutOfRangeError{Index: math.MaxInt, Raw: raw}
	}
	if err != nil || n < 1 {
		return 0, ErrInvalidIndex
	}
	return n, nil
}

func (d *Deleter) Delete(ctx context.Context, userID, rawIndex string) (DeleteResult, error) {
	if err := d.store.requireSheet(ctx); err != nil {
		return DeleteResult{}, err
	}
	index, err := ParseIndex(rawIndex)
	if err != nil {
		return DeleteResult{}, err
	}

	// 讀取 → 計算 → 寫入 之間鎖住同一使用者
	if d.locker != nil {
		unlock, err := d.locker.Lock(ctx, "delete:"+userID)
		if err != nil {
			return DeleteResult{}, fmt.Errorf("%w: lock: %v", ErrProcessing, err)
		}
		defer unlock()
	}

	loc := d.store.loc
	today := dateutil.StartOfDay(d.now().In(loc))

	all, err := d.store.ListAll(ctx)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	mine := Actionable(all, userID, today, loc)
	if index > len(mine) {
		return DeleteResult{}, &IndexOutOfRangeError{Index: index}
	}
	rec := mine[index-1]

	start, hasStart := rec.BorrowDay(loc)
	end, _ := rec.ReturnDay(loc)
	res := DeleteResult{Start: start, End: end, Items: rec.ItemList()}

	if hasStart && start.After(today) {
		if err := d.store.DeleteRow(ctx, rec.Row); err != nil {
			slog.Error("cancel loan failed", "user", userID, "row", rec.Row, "err", err)
			return DeleteResult{}, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		res.Cancelled = true
		return res, nil
	}

	if err := d.store.UpdateReturnedAt(ctx, rec.Row, today); err != nil {
		slog.Error("early return failed", "user", userID, "row", rec.Row, "err", err)
		if errors.Is(err, ErrFieldNotFound) {
			return DeleteResult{}, err
		}
		return DeleteResult{}, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	res.End = today
	return res, nil
}

// Reason CanOperate 的拒絕原因
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonNotOwner Reason = "只能操作自己的租借記錄"
	ReasonBadDate  Reason = "記錄日期格式錯誤"
	ReasonExpired  Reason = "無法操作已過期的租借記錄"
)

// CanOperate 單筆紀錄能否被 requester 取消或提前歸還。
// 刪除流程本身用 Actionable 過濾，不經過這裡。
func CanOperate(rec LoanRecord, requesterID string, today time.Time, loc *time.Location) (bool, Reason) {
	if rec.UserID != requesterID {
		return false, ReasonNotOwner
	}
	end, ok := rec.ReturnDay(loc)
	if !ok {
		return false, ReasonBadDate
	}
	if end.Before(dateutil.StartOfDay(today.In(loc))) {
		return false, ReasonExpired
	}
	return true, ReasonNone
}
