// Package notifications pushes assembly outcomes to ntfy so a long encode
// can be kicked off and walked away from.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
)

const userAgent = "demobuilder/0.1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyAssemblyStarted(ctx context.Context, scenes int) error
	NotifyAssemblyCompleted(ctx context.Context, outputPath string, assembled, skipped int, duration time.Duration) error
	NotifyAssemblyFailed(ctx context.Context, err error) error
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

	endpoint := topic
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}

	return &ntfyService{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: timeout},
		sendAssembly: cfg.Notifications.Assembly,
		sendErrors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	sendAssembly bool
	sendErrors   bool
}

func (n *ntfyService) NotifyAssemblyStarted(ctx context.Context, scenes int) error {
	if !n.sendAssembly {
		return nil
	}
	data := payload{
		title:   "Demo Builder - Assembly Started",
		message: fmt.Sprintf("Assembling demo from %d scenes", scenes),
		tags:    []string{"demobuilder", "assembly", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAssemblyCompleted(ctx context.Context, outputPath string, assembled, skipped int, duration time.Duration) error {
	if !n.sendAssembly {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if skipped == 0 {
		title = "Demo Builder - Assembly Complete"
		message = fmt.Sprintf("Demo ready: %d scenes assembled in %s", assembled, duration)
	} else {
		title = "Demo Builder - Assembly Complete (scenes skipped)"
		message = fmt.Sprintf("Demo ready: %d scenes assembled, %d skipped in %s", assembled, skipped, duration)
	}
	if outputPath = strings.TrimSpace(outputPath); outputPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, outputPath)
	}

	data := payload{
		title:    title,
		message:  message,
		tags:     []string{"demobuilder", "assembly", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAssemblyFailed(ctx context.Context, err error) error {
	if !n.sendErrors {
		return nil
	}
	message := "Assembly failed: "
	if err != nil {
		message += strings.TrimSpace(err.Error())
	} else {
		message += "unknown error"
	}
	data := payload{
		title:    "Demo Builder - Assembly Failed",
		message:  message,
		tags:     []string{"demobuilder", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Demo Builder - Test",
		message:  "Notification system test",
		tags:     []string{"demobuilder", "test"},
		priority: "low",
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
	if data.priority != "" && data.priority != "default" {
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

func (noopService) NotifyAssemblyStarted(context.Context, int) error { return nil }
func (noopService) NotifyAssemblyCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyAssemblyFailed(context.Context, error) error { return nil }
func (noopService) TestNotification(context.Context) error            { return nil }
