package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestAnthropicInterpreter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		var body struct {
			Model    string    `json:"model"`
			Messages []message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "test-model" || len(body.Messages) != 1 || body.Messages[0].Content != "en trekant med sider tre fire fem" {
			t.Errorf("request = %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"` + "```\\n" + `a=3, b=4, c=5\n"}]}`))
	}))
	defer srv.Close()

	in := NewAnthropicInterpreter("test-key", WithEndpoint(srv.URL), WithModel("test-model"))
	got, err := in.Interpret(context.Background(), "en trekant med sider tre fire fem")
	if err != nil {
		t.Fatal(err)
	}
	if got != "a=3, b=4, c=5" {
		t.Errorf("Interpret = %q, want %q", got, "a=3, b=4, c=5")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestAnthropicInterpreterSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	in := NewAnthropicInterpreter("k", WithEndpoint(srv.URL))
	_, err := in.Interpret(context.Background(), "noe")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want API error 503", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1", calls.Load())
	}
}

func TestAnthropicInterpreterDisabled(t *testing.T) {
	if _, err := NewAnthropicInterpreter("").Interpret(context.Background(), "x"); !errors.Is(err, ErrDisabled) {
		t.Errorf("error = %v, want ErrDisabled", err)
	}
}

func TestAnthropicInterpreterEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	if _, err := NewAnthropicInterpreter("k", WithEndpoint(srv.URL)).Interpret(context.Background(), "x"); err == nil {
		t.Error("expected error for empty content")
	}
}
