package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/yt-transfer/internal/domain"
	"go.uber.org/zap"
)

const notificationTimeout = 5 * time.Second

// NotificationService sends desktop notifications when transfers end
type NotificationService struct {
	config *domain.NotificationConfig
	runner CommandRunner
	logger *zap.Logger
}

// NewNotificationService creates a new notification service. A nil runner
// executes the real notifier binaries.
func NewNotificationService(config *domain.NotificationConfig, runner CommandRunner, logger *zap.Logger) *NotificationService {
	if runner == nil {
		runner = ExecCommandRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	var err error
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, appleScriptEscape(message), appleScriptEscape(title))
		err = n.runner.Run(ctx, "osascript", "-e", script)
	case "notify-send":
		err = n.runner.Run(ctx, "notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))

	return nil
}

// NotifyTransferCompleted sends notification when a transfer completes
func (n *NotificationService) NotifyTransferCompleted(title string, kind domain.MediaKind) {
	heading := "Download Completed"
	if kind == domain.MediaAudio {
		heading = "Audio Ready"
	}
	_ = n.Send(heading, truncateString(title, 60))
}

// NotifyTransferFailed sends notification when a transfer fails
func (n *NotificationService) NotifyTransferFailed(url string, err error) {
	message := fmt.Sprintf("Failed: %s", truncateString(url, 40))
	if err != nil {
		message = fmt.Sprintf("%s (%s)", message, truncateString(err.Error(), 60))
	}
	_ = n.Send("Download Failed", message)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

func appleScriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
