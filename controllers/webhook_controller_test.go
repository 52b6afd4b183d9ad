package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_line_bot/loans"
	"Gin_postgres_redis_line_bot/sheet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureReplier struct {
	replies []string
	err     error
}

func (c *captureReplier) Reply(_ context.Context, _ string, text string) error {
	c.replies = append(c.replies, text)
	return c.err
}

type memDeduper map[string]bool

func (m memDeduper) FirstSeen(_ context.Context, id string) bool {
	if m[id] {
		return false
	}
	m[id] = true
	return true
}

type entry struct{ user, kind, event string }

type memAudit struct{ entries []entry }

func (m *memAudit) LogCommand(_ context.Context, userID, kind, eventID, _ string) error {
	m.entries = append(m.entries, entry{userID, kind, eventID})
	return nil
}

func newTestSrv() (*Srv, *captureReplier, *sheet.Memory) {
	mem := sheet.NewMemory()
	store := loans.NewStore(mem, time.FixedZone("CST", 8*60*60))
	rep := &captureReplier{}
	return &Srv{
		Bot:   loans.NewBot(store, nil, nil, time.Now),
		Store: store,
		Line:  rep,
	}, rep, mem
}

func serveWebhook(s *Srv, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", s.Webhook)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	return w
}

const helpEvent = `{"events":[{"type":"message","replyToken":"rt","webhookEventId":"E1",
  "source":{"type":"user","userId":"U1"},"message":{"id":"1","type":"text","text":"查指令"}}]}`

func TestWebhook_EnsuresSchemaEvenWithoutEvents(t *testing.T) {
	s, rep, mem := newTestSrv()

	w := serveWebhook(s, `{"destination":"U","events":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rep.replies)

	ok, err := mem.Exists(context.Background(), loans.SheetName)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWebhook_InvalidJSON(t *testing.T) {
	s, _, _ := newTestSrv()
	assert.Equal(t, http.StatusBadRequest, serveWebhook(s, `{"events":`).Code)
}

func TestWebhook_DedupeAndAudit(t *testing.T) {
	s, rep, _ := newTestSrv()
	audit := &memAudit{}
	s.Dedupe = memDeduper{}
	s.Audit = audit

	serveWebhook(s, helpEvent)
	serveWebhook(s, helpEvent)

	assert.Len(t, rep.replies, 1)
	assert.Equal(t, []entry{{"U1", "help", "E1"}}, audit.entries)
}

func TestWebhook_ReplyFailureStillOK(t *testing.T) {
	s, rep, _ := newTestSrv()
	rep.err = errors.New("line down")

	w := serveWebhook(s, helpEvent)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rep.replies, 1)
}
