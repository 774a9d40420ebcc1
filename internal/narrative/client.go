package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finpulse/finpulse/internal/report"
)

const (
	apiVersion = "2023-06-01"
	maxTokens  = 1500
)

// NarrationError wraps any failure from the generation service. Non-retryable
// within a run; the customer's snapshot survives, the report record does not.
type NarrationError struct {
	Err error
}

func (e *NarrationError) Error() string {
	return fmt.Sprintf("narrative: %v", e.Err)
}

func (e *NarrationError) Unwrap() error {
	return e.Err
}

// Client generates weekly analyses through the Anthropic messages API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a narrative client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Summarize produces the Dutch weekly analysis for one customer.
func (c *Client) Summarize(ctx context.Context, req report.NarrativeRequest) (string, error) {
	payload, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: BuildPrompt(req)},
		},
	})
	if err != nil {
		return "", &NarrationError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/messages", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return "", &NarrationError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &NarrationError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", &NarrationError{Err: fmt.Errorf("generation service returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NarrationError{Err: err}
	}
	var decoded messageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &NarrationError{Err: err}
	}
	if len(decoded.Content) == 0 || decoded.Content[0].Text == "" {
		return "", &NarrationError{Err: fmt.Errorf("empty generation response")}
	}
	return decoded.Content[0].Text, nil
}
