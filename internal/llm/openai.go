package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenAI calls an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	rc *resty.Client
}

// NewOpenAI returns a client for the given base URL (e.g.
// "https://api.openai.com/v1") and API key.
func NewOpenAI(baseURL, apiKey string) *OpenAI {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)
	return &OpenAI{rc: rc}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the prompt as a single user message and returns the
// first choice's content.
func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}

	var out chatResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("chat completion: %s (%s)", out.Error.Message, out.Error.Type)
		}
		return "", fmt.Errorf("chat completion: status %s", resp.Status())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
