// Package ollama is a completion service backed by Ollama's /api/generate.
package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/legalsift/docsift/internal/core/ports"
	"github.com/legalsift/docsift/internal/infrastructure/llm/llmhttp"
)

const provider = "ollama"

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

func (c *Client) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	req := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: opts.System,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	}
	if opts.JSON {
		req.Format = "json"
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := llmhttp.PostJSON(ctx, c.httpClient, c.baseURL+"/api/generate", nil, req, &response, provider, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
