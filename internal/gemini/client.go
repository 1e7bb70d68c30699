// Package gemini is a thin HTTP client for the Gemini generateContent API.
// It implements types.ModelInvoker: one request in, one completion plus any
// grounding citations out. Rate-limit retries live here and nowhere else;
// orchestrators treat a failed Invoke as terminal.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"truthlens/internal/logging"
	"truthlens/internal/types"
)

// Client implements types.ModelInvoker for the Gemini API.
type Client struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
	mu              sync.Mutex
	lastRequest     time.Time
}

var _ types.ModelInvoker = (*Client)(nil)

// NewClient creates a client with default configuration.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config Config) *Client {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = 8192
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		apiKey:          config.APIKey,
		baseURL:         config.BaseURL,
		model:           model,
		maxOutputTokens: maxOutputTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// SetModel changes the model used for completions.
func (c *Client) SetModel(model string) {
	c.model = model
}

// GetModel returns the current model.
func (c *Client) GetModel() string {
	return c.model
}

// Invoke sends one generateContent request and returns the completion text
// plus any grounding citations the provider attached.
func (c *Client) Invoke(ctx context.Context, req types.ModelRequest) (*types.ModelResponse, error) {
	// Auto-apply timeout if context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.APIDebug("Invoke: model=%s parts=%d grounding=%t mime=%q",
		c.model, len(req.Parts), req.EnableGoogleSearch, req.ResponseMIMEType)

	if c.apiKey == "" {
		logging.APIError("Invoke: API key not configured")
		return nil, fmt.Errorf("API key not configured")
	}

	// Rate limiting: keep at least 100ms between requests.
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	reqBody := c.buildRequest(req)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	// Retry loop for rate limits.
	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			time.Sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			logging.APIError("Invoke: status %d: %s", resp.StatusCode, string(body))
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var apiResp Response
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if apiResp.Error != nil {
			return nil, fmt.Errorf("API error: %s", apiResp.Error.Message)
		}
		if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no completion returned")
		}

		var result strings.Builder
		for _, part := range apiResp.Candidates[0].Content.Parts {
			result.WriteString(part.Text)
		}

		out := &types.ModelResponse{Text: strings.TrimSpace(result.String())}

		if gm := apiResp.Candidates[0].GroundingMetadata; gm != nil {
			for _, chunk := range gm.GroundingChunks {
				if chunk.Web == nil {
					continue
				}
				out.GroundingChunks = append(out.GroundingChunks, types.GroundingChunk{
					Web: &types.GroundingWeb{URI: chunk.Web.URI, Title: chunk.Web.Title},
				})
			}
			if len(out.GroundingChunks) > 0 {
				logging.APIDebug("Invoke: grounding chunks=%d queries=%v",
					len(out.GroundingChunks), gm.WebSearchQueries)
			}
		}

		logging.API("Invoke: completed in %v response_len=%d grounding_chunks=%d",
			time.Since(startTime), len(out.Text), len(out.GroundingChunks))
		return out, nil
	}

	logging.APIError("Invoke: max retries exceeded after %v: %v", time.Since(startTime), lastErr)
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// buildRequest maps the boundary request onto the wire format.
func (c *Client) buildRequest(req types.ModelRequest) Request {
	parts := make([]Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		switch {
		case p.InlineData != nil:
			parts = append(parts, Part{InlineData: &InlineData{
				MIMEType: p.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.InlineData.Data),
			}})
		case p.Text != "":
			parts = append(parts, Part{Text: p.Text})
		}
	}

	out := Request{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: GenerationConfig{
			Temperature:      1.0,
			MaxOutputTokens:  c.maxOutputTokens,
			ResponseMimeType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		},
	}
	if req.System != "" {
		out.SystemInstruction = &Content{Parts: []Part{{Text: req.System}}}
	}
	if req.EnableGoogleSearch {
		out.Tools = []Tool{{GoogleSearch: &GoogleSearch{}}}
	}
	return out
}
