// controllers/srv.go
package controllers

import (
	"context"
	"net/http"

	"Gin_postgres_redis_line_bot/app"
	"Gin_postgres_redis_line_bot/loans"

	"github.com/gin-gonic/gin"
)

// Replier 送出回覆訊息
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// EventDeduper 擋掉重送的 webhook 事件
type EventDeduper interface {
	FirstSeen(ctx context.Context, eventID string) bool
}

// CommandLogger 指令稽核紀錄
type CommandLogger interface {
	LogCommand(ctx context.Context, userID, kind, eventID, reply string) error
}

type Srv struct {
	Bot    *loans.Bot
	Store  *loans.Store
	Line   Replier
	Dedupe EventDeduper  // 可為 nil
	Audit  CommandLogger // 可為 nil
}

func GetSrv(a *app.App) *Srv {
	s := &Srv{
		Bot:   a.Bot,
		Store: a.Store,
		Line:  a.Line,
	}
	// 避免把 nil 指標包進介面
	if a.Dedupe != nil {
		s.Dedupe = a.Dedupe
	}
	if a.Repo != nil {
		s.Audit = a.Repo
	}
	return s
}

// GET / 建表並回 OK（部署後手動打一次即可）
func (s *Srv) Root(c *gin.Context) {
	if err := s.Store.EnsureSchema(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, "OK")
}

// GET /healthz
func (s *Srv) Health(c *gin.Context) {
	ok, err := s.Store.Exists(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, app.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "sheet": ok})
}
