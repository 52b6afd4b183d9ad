package line

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, baseURL, token string, perSecond float64) *Client {
	t.Helper()
	c, err := NewClient(baseURL, token, perSecond)
	require.NoError(t, err)
	return c
}

func TestClient_Reply(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL+"/", "tok", 0)
	require.NoError(t, c.Reply(context.Background(), "rt-1", "哈囉"))
	assert.Equal(t, "Bearer tok", gotAuth)

	var sent struct {
		ReplyToken string `json:"replyToken"`
		Messages   []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(gotBody), &sent))
	assert.Equal(t, "rt-1", sent.ReplyToken)
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "text", sent.Messages[0].Type)
	assert.Equal(t, "哈囉", sent.Messages[0].Text)
}

func TestClient_ReplyTruncatesLongText(t *testing.T) {
	var sent struct {
		Messages []struct {
			Text string `json:"text"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	long := strings.Repeat("器", MaxTextRunes+10)
	require.NoError(t, newClient(t, srv.URL, "tok", 0).Reply(context.Background(), "rt", long))
	require.Len(t, sent.Messages, 1)
	assert.Equal(t, MaxTextRunes, utf8.RuneCountInString(sent.Messages[0].Text))
}

func TestClient_ReplyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	defer srv.Close()

	err := newClient(t, srv.URL, "tok", 0).Reply(context.Background(), "bad", "x")
	assert.ErrorContains(t, err, "reply message")
}

func TestClient_NoToken(t *testing.T) {
	err := newClient(t, "http://127.0.0.1:1", "", 0).Reply(context.Background(), "rt", "x")
	assert.ErrorIs(t, err, ErrNoChannelToken)
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newClient(t, "http://127.0.0.1:1", "tok", 1).DisplayName(ctx, "U1")
	assert.Error(t, err)
}

func TestClient_DisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/v2/bot/profile/U123" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"userId":"U123","displayName":"小明","pictureUrl":"x"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, "tok", 100)
	name, err := c.DisplayName(context.Background(), "U123")
	require.NoError(t, err)
	assert.Equal(t, "小明", name)

	_, err = c.DisplayName(context.Background(), "U404")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))
	assert.Equal(t, MaxTextRunes, utf8.RuneCountInString(Truncate(strings.Repeat("a", MaxTextRunes*2))))
}
