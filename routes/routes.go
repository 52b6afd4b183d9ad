package routes

import (
	"Gin_postgres_redis_line_bot/app"
	"Gin_postgres_redis_line_bot/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器與依賴
	s := controllers.GetSrv(a)
	RegisterWith(r, s, a)
}

// RegisterWith 測試時可以換掉 Srv 裡的依賴
func RegisterWith(r *gin.Engine, s *controllers.Srv, a *app.App) {
	r.GET("/", s.Root)
	r.GET("/healthz", s.Health)

	// ------------------------------
	// LINE webhook
	// ------------------------------
	r.POST("/webhook", app.VerifyLineSignature(a.Config.LineChannelSecret), s.Webhook)

	// ------------------------------
	// 只讀 API（沒設 API_TOKEN 就不開）
	// ------------------------------
	if a.Config.APIToken == "" {
		return
	}
	api := r.Group("/api", app.APITokenRequired(a.Config.APIToken))
	{
		api.GET("/loans", s.ListLoans) // ?date= | ?month=
		if a.Repo != nil {
			api.GET("/commands", controllers.NewCommandLogController(a.Repo).ListCommands)
		}
	}
}
