package controllers

import (
	"io"
	"log/slog"
	"net/http"

	"Gin_postgres_redis_line_bot/app"
	"Gin_postgres_redis_line_bot/line"
	"Gin_postgres_redis_line_bot/loans"

	"github.com/gin-gonic/gin"
)

// POST /webhook
// 一律回 200，處理失敗只記 log，不讓 LINE 重送
func (s *Srv) Webhook(c *gin.Context) {
	body, err := rawBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot read body"})
		return
	}
	payload, err := line.ParsePayload(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	if err := s.Store.EnsureSchema(ctx); err != nil {
		slog.Error("ensure schema failed", "err", err)
		c.JSON(http.StatusOK, app.H{"ok": false})
		return
	}

	for _, ev := range payload.Events {
		if !ev.IsText() {
			continue
		}
		if s.Dedupe != nil && !s.Dedupe.FirstSeen(ctx, ev.WebhookEventID) {
			slog.Info("duplicate webhook event skipped", "event", ev.WebhookEventID)
			continue
		}

		userID := ev.Source.UserID
		if userID == "" {
			userID = loans.UnknownUser
		}
		text := ev.Message.Text
		reply := s.Bot.Handle(ctx, userID, text)

		if err := s.Line.Reply(ctx, ev.ReplyToken, reply); err != nil {
			slog.Error("reply failed", "user", userID, "err", err)
		}
		if s.Audit != nil {
			kind := loans.ParseCommand(text).Kind.String()
			if err := s.Audit.LogCommand(ctx, userID, kind, ev.WebhookEventID, reply); err != nil {
				slog.Warn("command log failed", "user", userID, "err", err)
			}
		}
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func rawBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(app.RawBodyKey); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	return io.ReadAll(c.Request.Body)
}
