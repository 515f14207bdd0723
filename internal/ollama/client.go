package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL           = "http://localhost:11434"
	defaultGenerationTimeout = 5 * time.Minute
	defaultPullTimeout       = 30 * time.Minute
)

// Config captures the runtime settings required to talk to Ollama.
type Config struct {
	BaseURL           string
	GenerationTimeout time.Duration
	PullTimeout       time.Duration
}

// Client wraps the Ollama HTTP API. Generation calls stream and are bounded
// by context deadlines rather than the HTTP client timeout, which would cut
// long-running streams short.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (primarily for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an Ollama client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaultGenerationTimeout
	}
	if cfg.PullTimeout <= 0 {
		cfg.PullTimeout = defaultPullTimeout
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// GenerateRequest describes one generation call.
type GenerateRequest struct {
	Model  string
	Prompt string
	// Images holds raw page images for image-conditioned prompts.
	Images [][]byte
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate streams a completion and folds the chunks into a single string.
// onChunk, when non-nil, observes each text chunk as it arrives. The call is
// bounded by the configured generation timeout.
func (c *Client) Generate(ctx context.Context, req GenerateRequest, onChunk func(string)) (string, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", errors.New("model identifier required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.GenerationTimeout)
	defer cancel()

	body := generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: true,
	}
	for _, img := range req.Images {
		body.Images = append(body.Images, base64.StdEncoding.EncodeToString(img))
	}

	resp, err := c.post(ctx, "/api/generate", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", fmt.Errorf("decode generate stream: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama: %s", chunk.Error)
		}
		if chunk.Response != "" {
			out.WriteString(chunk.Response)
			if onChunk != nil {
				onChunk(chunk.Response)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("generation exceeded timeout: %w", ctxErr)
		}
		return "", fmt.Errorf("read generate stream: %w", err)
	}

	return out.String(), nil
}

// ModelInfo describes one installed model.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ListModels enumerates the models installed in the runtime.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list models", resp)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	return tags.Models, nil
}

// PullProgress reports incremental model download state.
type PullProgress struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

type pullChunk struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Error     string `json:"error,omitempty"`
}

// Pull downloads a model, streaming progress to onProgress when non-nil.
func (c *Client) Pull(ctx context.Context, model string, onProgress func(PullProgress)) error {
	if strings.TrimSpace(model) == "" {
		return errors.New("model identifier required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PullTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/api/pull", pullRequest{Name: model, Stream: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk pullChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("decode pull stream: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama: pull %s: %s", model, chunk.Error)
		}
		if onProgress != nil {
			onProgress(PullProgress{Status: chunk.Status, Total: chunk.Total, Completed: chunk.Completed})
		}
	}
	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("pull exceeded timeout: %w", ctxErr)
		}
		return fmt.Errorf("read pull stream: %w", err)
	}
	return nil
}

type deleteRequest struct {
	Name string `json:"name"`
}

// Delete removes an installed model from the runtime.
func (c *Client) Delete(ctx context.Context, model string) error {
	if strings.TrimSpace(model) == "" {
		return errors.New("model identifier required")
	}

	payload, err := json.Marshal(deleteRequest{Name: model})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.cfg.BaseURL+"/api/delete", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete model", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Ping validates the runtime is reachable without running inference.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError("ping", resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("ollama request exceeded timeout: %w", ctxErr)
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(strings.TrimPrefix(path, "/api/"), resp)
	}
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Errorf("ollama: %s: http %d", op, resp.StatusCode)
	}
	return fmt.Errorf("ollama: %s: http %d: %s", op, resp.StatusCode, detail)
}
