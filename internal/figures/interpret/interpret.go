// Package interpret asks a language model to rewrite a free-text figure
// description into one line the local parser understands.
package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("interpret: interpreter disabled")

// Interpreter rewrites one unrecognised line. Implementations make a
// single attempt; the caller falls back to its local parse on error.
type Interpreter interface {
	Interpret(ctx context.Context, line string) (string, error)
}

const (
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultModel    = "claude-sonnet-4-20250514"
	apiVersion      = "2023-06-01"
)

const systemPrompt = `You convert short Norwegian descriptions of geometric figures into exactly one line of the figure language below. Answer with that line only.

Forms:
  a=5, b=4, c=3               triangle (sides a-c, angles A-C in degrees)
  a=4, b=3, c=4, d=3, B=90    quadrilateral (sides a-d, one angle or B and D)
  kvadrat a=4 | rektangel a=5, b=3 | parallellogram a=5, b=3, B=60 | rombe a=4, B=70
  mangekant sider: 6 side: a=4
  sirkel r=3
  halvsirkel AB r=3
  dobbel trekant felles side: AB | trekant 1: a=3, b=4, c=5 | trekant 2: a=4, b=4, c=5
Decorations follow after ";": diagonal: AC, BD ; høyder: C/AB ; halvsirkel BC ; kvadrat AB`

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicInterpreter calls the Messages API.
type AnthropicInterpreter struct {
	key      string
	model    string
	endpoint string
	client   *http.Client
}

type Option func(*AnthropicInterpreter)

func WithModel(model string) Option {
	return func(a *AnthropicInterpreter) {
		if model != "" {
			a.model = model
		}
	}
}

func WithEndpoint(url string) Option {
	return func(a *AnthropicInterpreter) {
		if url != "" {
			a.endpoint = url
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(a *AnthropicInterpreter) {
		if c != nil {
			a.client = c
		}
	}
}

func NewAnthropicInterpreter(key string, opts ...Option) *AnthropicInterpreter {
	a := &AnthropicInterpreter{
		key:      key,
		model:    DefaultModel,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AnthropicInterpreter) Interpret(ctx context.Context, line string) (string, error) {
	if a == nil || a.key == "" {
		return "", ErrDisabled
	}

	body := map[string]any{
		"model":      a.model,
		"max_tokens": 256,
		"system":     systemPrompt,
		"messages":   []message{{Role: "user", Content: line}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("interpret: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("interpret: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.key)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("interpret: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("interpret: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("interpret: API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("interpret: decode response: %w", err)
	}
	for _, c := range result.Content {
		if text := firstLine(c.Text); text != "" {
			return text, nil
		}
	}
	return "", errors.New("interpret: empty response")
}

// firstLine drops code fences and returns the first non-empty line.
func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(strings.Trim(strings.TrimSpace(l), "`"))
		if l != "" {
			return l
		}
	}
	return ""
}
