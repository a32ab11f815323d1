package roles

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

var (
	ErrUnavailable    = errors.New("model API unreachable")
	ErrRetryExhausted = errors.New("model API retries exhausted")
	ErrEmptyOutput    = errors.New("model returned no output text")
)

// ClientConfig configures the Responses API client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string        // default https://api.openai.com
	Model      string        // default model for roles that don't set one
	Timeout    time.Duration // per-call budget (default 60s)
	MaxRetries int           // extra attempts on 429/5xx (default 2, negative disables retries)
}

// Client talks to the OpenAI Responses API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a Responses API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model        string    `json:"model"`
	Instructions string    `json:"instructions,omitempty"`
	Input        []Message `json:"input"`
}

type responsesResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Respond sends one Responses API call and returns the concatenated
// output text plus the raw response body.
func (c *Client) Respond(ctx context.Context, model, instructions string, input []Message) (string, json.RawMessage, error) {
	if model == "" {
		model = c.cfg.Model
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := responsesRequest{Model: model, Instructions: instructions, Input: input}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		text, raw, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, raw, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	return "", nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body responsesRequest) (string, json.RawMessage, bool, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", nil, false, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.BaseURL + "/v1/responses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", nil, retryable, fmt.Errorf("responses API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed responsesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, false, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != nil {
		return "", nil, false, fmt.Errorf("responses API error: %s", parsed.Error.Message)
	}

	var sb strings.Builder
	for _, item := range parsed.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return "", nil, false, ErrEmptyOutput
	}
	return sb.String(), json.RawMessage(respBody), false, nil
}
