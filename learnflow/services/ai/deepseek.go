// Package ai wraps the DeepSeek chat-completions endpoint. Calls are a
// single attempt with a 30s timeout; retries and caching are left to
// callers that want them.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"learnflow/learnflow/utils/httputils"
)

const (
	// Model is the identifier recorded on notes whose flashcards were
	// generated through this client.
	Model = "deepseek-chat"

	defaultBaseURL = "https://api.deepseek.com/v1/chat/completions"
	requestTimeout = 30 * time.Second
	temperature    = 0.7
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat runs one non-streaming completion and returns the text of the
// first choice.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	req := chatRequest{
		Model:       Model,
		Messages:    messages,
		Temperature: temperature,
	}
	var resp chatResponse
	if err := httputils.PostJSONWithAuth(ctx, c.httpClient, c.baseURL, c.apiKey, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
