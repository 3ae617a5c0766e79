package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockCompleter struct {
	CompleteFunc func(ctx context.Context, system, message string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, system, message string) (string, error) {
	return m.CompleteFunc(ctx, system, message)
}

func serve(t *testing.T, completer Completer, method, body string) (*httptest.ResponseRecorder, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	router := NewServer("You are a test persona.", completer, log.New(&logs)).SetupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, Route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w, &logs
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestChatReplies(t *testing.T) {
	completer := &mockCompleter{
		CompleteFunc: func(_ context.Context, system, message string) (string, error) {
			assert.Equal(t, "You are a test persona.", system)
			assert.Equal(t, "what are you building?", message)
			return "A lathe that judges me.", nil
		},
	}

	w, _ := serve(t, completer, http.MethodPost, `{"message":"what are you building?"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A lathe that judges me.", decode(t, w)["reply"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestChatRequiresMessage(t *testing.T) {
	unused := &mockCompleter{CompleteFunc: func(context.Context, string, string) (string, error) {
		t.Fatal("completer called without a message")
		return "", nil
	}}

	for _, body := range []string{`{}`, `{"message":""}`, `not json`, ``} {
		w, _ := serve(t, unused, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Message is required", decode(t, w)["error"], body)
	}
}

func TestChatPreflight(t *testing.T) {
	w, _ := serve(t, nil, http.MethodOptions, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestChatRejectsOtherMethods(t *testing.T) {
	w, _ := serve(t, nil, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decode(t, w)["error"])
}

func TestChatWithoutAPIKey(t *testing.T) {
	w, logs := serve(t, nil, http.MethodPost, `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API configuration error", decode(t, w)["error"])
	assert.Contains(t, logs.String(), "OpenAI API key not found")
}

func TestChatCompletionFailure(t *testing.T) {
	completer := &mockCompleter{CompleteFunc: func(context.Context, string, string) (string, error) {
		return "", errors.New("429 too many requests")
	}}

	w, logs := serve(t, completer, http.MethodPost, `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, FailureReply, decode(t, w)["error"])
	assert.Contains(t, logs.String(), "429 too many requests")
}

func TestOpenAICompleter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		assert.InDelta(t, DefaultTemperature, req.Temperature, 1e-6)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, Ethan, req.Messages[0].Content)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "hello", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Hello from the workshop."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter("test-key", server.URL+"/v1", "")
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), Ethan, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello from the workshop.", reply)
}

func TestOpenAICompleterNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	c, err := NewOpenAICompleter("test-key", server.URL+"/v1", "gpt-4o")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "system", "hello")
	assert.ErrorIs(t, err, ErrNoReply)
}

func TestOpenAICompleterRequiresKey(t *testing.T) {
	_, err := NewOpenAICompleter("", "", "")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
