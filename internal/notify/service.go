package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/halbzeit-ai/review-platform/internal/config"
)

const userAgent = "Halbzeit-Worker/0.1.0"

// Service defines the notification surface exposed to the command worker.
type Service interface {
	NotifyAnalysisCompleted(ctx context.Context, jobID string, pages int, duration time.Duration) error
	NotifyAnalysisFailed(ctx context.Context, jobID, reason string) error
	NotifyModelPulled(ctx context.Context, model string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, jobID string, pages int, duration time.Duration) error {
	data := payload{
		title:    "Halbzeit - Analysis Complete",
		message:  fmt.Sprintf("Deck %s analyzed: %d pages in %s", jobID, pages, duration.Round(time.Second)),
		tags:     []string{"halbzeit", "analysis", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisFailed(ctx context.Context, jobID, reason string) error {
	data := payload{
		title:    "Halbzeit - Analysis Failed",
		message:  fmt.Sprintf("Deck %s failed: %s", jobID, strings.TrimSpace(reason)),
		tags:     []string{"halbzeit", "analysis", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyModelPulled(ctx context.Context, model string) error {
	data := payload{
		title:   "Halbzeit - Model Ready",
		message: fmt.Sprintf("Model downloaded: %s", model),
		tags:    []string{"halbzeit", "model", "pulled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Halbzeit - Test",
		message: "Worker notifications are configured correctly",
		tags:    []string{"halbzeit", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAnalysisCompleted(context.Context, string, int, time.Duration) error {
	return nil
}
func (noopService) NotifyAnalysisFailed(context.Context, string, string) error { return nil }
func (noopService) NotifyModelPulled(context.Context, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
