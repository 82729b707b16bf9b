package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/ca-srg/propertyalert/internal/types"
)

// SlackNotifier posts a one-line run summary to an incoming webhook when
// one is configured. It is an optional observer: a nil notifier or empty
// webhook URL disables it, and a post failure never affects the run.
type SlackNotifier struct {
	webhookURL string
}

// NewSlackNotifier creates a notifier; webhookURL may be empty.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

// RunCompleted posts the run summary.
func (n *SlackNotifier) RunCompleted(ctx context.Context, result *types.RunResult) error {
	if n == nil || n.webhookURL == "" {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ":house: Property search %s\n", result.Summary())
	if result.UsedFallback {
		sb.WriteString("criteria sheet was unavailable, ran with the fallback search\n")
	}
	for _, e := range result.Errors {
		fmt.Fprintf(&sb, "• %s\n", e.Error())
	}

	msg := &slack.WebhookMessage{Text: sb.String()}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to post Slack summary: %w", err)
	}
	return nil
}
