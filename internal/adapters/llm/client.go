package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	perr "dragoman/internal/platform/errors"
)

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	cfg  Config
	http *resty.Client
}

var _ Provider = (*Client)(nil)

// NewClient builds a Client from Config
func NewClient(cfg Config) *Client {
	hc := resty.New().
		SetTimeout(60 * time.Second).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	return &Client{cfg: cfg, http: hc}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate sends one chat completion and returns the raw model text.
// All failures map to transport errors so callers can retry or fall
// back without inspecting the wire details
func (c *Client) Translate(ctx context.Context, req Request) (Result, error) {
	system, user := BuildPrompt(req)
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.cfg.Temperature,
	}

	var resp chatResponse
	r := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp)
	if c.cfg.APIKey != "" {
		r.SetHeader("Authorization", "Bearer "+c.cfg.APIKey)
	}

	rr, err := r.Post("/v1/chat/completions")
	if err != nil {
		return Result{}, perr.Wrapf(err, perr.ErrorCodeTransport, "llm: chat completion")
	}
	if rr.IsError() {
		return Result{}, perr.Transportf("llm: chat completion: %s: %s", rr.Status(), abbreviate(rr.String(), 300))
	}
	if len(resp.Choices) == 0 {
		return Result{}, perr.Transportf("llm: chat completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	text := extractText(content)
	if text == "" {
		return Result{}, perr.Transportf("llm: empty completion")
	}
	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}
	return Result{Text: text, Model: model, Raw: content}, nil
}

// extractText unwraps the completion content. Models sometimes wrap the
// translation in a fenced block or a {"translation": ...} object even
// when asked for plain text
func extractText(content string) string {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	var obj struct {
		Translation string `json:"translation"`
	}
	if strings.HasPrefix(s, "{") {
		if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Translation != "" {
			return strings.TrimSpace(obj.Translation)
		}
	}
	return s
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
