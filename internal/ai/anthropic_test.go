package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropic_Complete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "test-model",
			"content": [{"type": "text", "text": "hello "}, {"type": "text", "text": "world"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 3, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	m := NewAnthropic(AnthropicOptions{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL, Timeout: 5 * time.Second})
	reply, err := m.Complete(context.TODO(), "be brief", "say hello", 64)
	require.NoError(t, err)
	assert.Equal(t, "hello world", reply)

	assert.Equal(t, "test-model", body["model"])
	assert.EqualValues(t, 64, body["max_tokens"])
	assert.NotEmpty(t, body["system"])
}

func TestAnthropic_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{status: http.StatusTooManyRequests, kind: KindRateLimited},
		{status: http.StatusInternalServerError, kind: KindUpstream},
		{status: http.StatusUnauthorized, kind: KindUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "nope"}}`))
			}))
			defer srv.Close()

			m := NewAnthropic(AnthropicOptions{APIKey: "k", BaseURL: srv.URL})
			_, err := m.Complete(context.TODO(), "s", "p", 16)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, 1, calls)
		})
	}
}
