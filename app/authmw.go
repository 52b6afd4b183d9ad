package app

import (
	"bytes"
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"Gin_postgres_redis_line_bot/line"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// RawBodyKey 驗簽後的原始 body 放在 context 裡
const RawBodyKey = "rawBody"

const maxWebhookBody = 1 << 20

// VerifyLineSignature secret 為空時不驗簽，只讀 body
func VerifyLineSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, H{"error": "cannot read body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if secret != "" && !webhook.ValidateSignature(secret, c.GetHeader(line.SignatureHeader), body) {
			slog.Warn("webhook signature mismatch", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid signature"})
			return
		}
		c.Set(RawBodyKey, body)
		c.Next()
	}
}

// APITokenRequired 管理頁面用 Authorization: Bearer <API_TOKEN>
func APITokenRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
