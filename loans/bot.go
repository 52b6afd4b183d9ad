package loans

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"Gin_postgres_redis_line_bot/dateutil"
)

// UnknownUser 事件沒有 userId 時的替代值
const UnknownUser = "unknown"

// ProfileLookup 平台上的顯示名稱查詢（盡力而為）
type ProfileLookup interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Bot 把一則文字訊息轉成一段回覆文字
type Bot struct {
	store    *Store
	deleter  *Deleter
	profiles ProfileLookup
	now      func() time.Time
}

// NewBot profiles 與 locker 可為 nil
func NewBot(store *Store, profiles ProfileLookup, locker Locker, now func() time.Time) *Bot {
	if now == nil {
		now = time.Now
	}
	return &Bot{
		store:    store,
		deleter:  NewDeleter(store, locker, now),
		profiles: profiles,
		now:      now,
	}
}

func (b *Bot) Store() *Store { return b.store }

// Handle 所有錯誤都在這裡轉成使用者看得懂的文字
func (b *Bot) Handle(ctx context.Context, userID, text string) string {
	cmd := ParseCommand(text)
	slog.Debug("command", "kind", cmd.Kind.String(), "user", userID)

	var (
		reply string
		err   error
	)
	switch cmd.Kind {
	case KindHelp:
		reply = HelpText()
	case KindBorrow:
		reply, err = b.borrow(ctx, userID, cmd.Arg)
	case KindQueryDay:
		reply, err = b.store.QueryDay(ctx, cmd.Arg)
	case KindQueryMonth:
		reply, err = b.store.QueryMonth(ctx, cmd.Arg)
	case KindMyLoans:
		name := b.displayName(ctx, userID)
		reply, err = b.store.MyLoans(ctx, userID, name, b.now())
	case KindDelete:
		var res DeleteResult
		res, err = b.deleter.Delete(ctx, userID, cmd.Arg)
		if err == nil {
			reply = res.Message()
		}
	default:
		reply = UnknownCommandText
	}

	if err != nil {
		slog.Info("command rejected", "kind", cmd.Kind.String(), "user", userID, "err", err)
		return Message(err)
	}
	return reply
}

func (b *Bot) borrow(ctx context.Context, userID, raw string) (string, error) {
	if err := b.store.requireSheet(ctx); err != nil {
		return "", err
	}
	draft, err := ParseBorrow(raw, b.store.loc)
	if err != nil {
		return "", err
	}

	// 優先用平台顯示名稱，失敗退回 userId
	username := b.displayName(ctx, userID)
	if username == "" {
		username = userID
	}

	rec := LoanRecord{
		TS:         b.now(),
		UserID:     userID,
		Username:   username,
		Items:      draft.Items,
		BorrowedAt: draft.BorrowedAt,
		ReturnedAt: draft.ReturnedAt,
	}
	if err := b.store.Append(ctx, rec); err != nil {
		slog.Error("append loan failed", "user", userID, "err", err)
		return "", ErrProcessing
	}

	return strings.Join([]string{
		"✅ 已建立借用紀錄：",
		"借用人：" + username,
		"器材：" + draft.Items,
		"租用日期：" + dateutil.FormatDay(draft.BorrowedAt),
		"歸還日期：" + dateutil.FormatDay(draft.ReturnedAt),
	}, "\n"), nil
}

func (b *Bot) displayName(ctx context.Context, userID string) string {
	if b.profiles == nil || userID == "" || userID == UnknownUser {
		return ""
	}
	name, err := b.profiles.DisplayName(ctx, userID)
	if err != nil {
		slog.Warn("profile lookup failed", "user", userID, "err", err)
		return ""
	}
	return name
}
