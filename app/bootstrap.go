// app/bootstrap.go
package app

import (
	"context"
	"log/slog"

	"Gin_postgres_redis_line_bot/loans"
)

// Bootstrap 啟動時先建好 loans 表，第一次部署不必等第一則訊息
func (a *App) Bootstrap(ctx context.Context) {
	if err := a.Store.EnsureSchema(ctx); err != nil {
		// 不阻擋啟動，每個請求還會再檢查一次
		slog.Error("bootstrap sheet failed", "sheet", loans.SheetName, "err", err)
		return
	}
	if a.Config.LineChannelToken == "" {
		slog.Warn("LINE_CHANNEL_TOKEN not set, replies will fail")
	}
	if a.Config.LineChannelSecret == "" {
		slog.Warn("LINE_CHANNEL_SECRET not set, webhook signatures are not checked")
	}
	if a.Config.APIToken == "" {
		slog.Info("API_TOKEN not set, /api is disabled")
	}
	slog.Info("bootstrap done", "sheet", loans.SheetName, "store", a.Config.Store, "tz", a.Config.Location.String())
}
