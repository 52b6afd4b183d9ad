package line

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"golang.org/x/time/rate"
)

// MaxTextRunes LINE 單則文字訊息的上限
const MaxTextRunes = 5000

var ErrNoChannelToken = errors.New("line channel token not configured")

// Client 包住 SDK 的 MessagingApiAPI，加上限速與截斷（只用到 reply 與 profile）
type Client struct {
	api     *messaging_api.MessagingApiAPI
	token   string
	limiter *rate.Limiter
}

// NewClient baseURL 為 API 主機（例如 https://api.line.me）；perSecond <= 0 表示不限速
func NewClient(baseURL, token string, perSecond float64) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(token,
		messaging_api.WithEndpoint(strings.TrimRight(baseURL, "/")),
		messaging_api.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("line messaging api: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{api: api, token: token, limiter: rate.NewLimiter(limit, burst)}, nil
}

// Truncate 超過上限時截斷（以字元計，不切斷中文）
func Truncate(text string) string {
	r := []rune(text)
	if len(r) <= MaxTextRunes {
		return text
	}
	return string(r[:MaxTextRunes])
}

// Reply 以 replyToken 回覆一則文字訊息
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	api, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: Truncate(text)},
		},
	})
	slog.Debug("line api", "op", "reply", "took", time.Since(start), "err", err)
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// DisplayName 實作 loans.ProfileLookup
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	api, err := c.acquire(ctx)
	if err != nil {
		return "", err
	}
	start := time.Now()
	p, err := api.GetProfile(userID)
	slog.Debug("line api", "op", "profile", "took", time.Since(start), "err", err)
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return p.DisplayName, nil
}

// acquire 等限速後回傳綁定 ctx 的 client。
// SDK 的 WithContext 會改寫接收者，所以每次呼叫用一份淺拷貝。
func (c *Client) acquire(ctx context.Context) (*messaging_api.MessagingApiAPI, error) {
	if c.token == "" {
		return nil, ErrNoChannelToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	api := *c.api
	return api.WithContext(ctx), nil
}
