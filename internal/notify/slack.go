package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// SlackSink posts alert messages to a Slack incoming webhook.
type SlackSink struct {
	webhookURL string
}

// NewSlackSink returns a sink for the given webhook URL, or a NoopSink
// when no URL is configured.
func NewSlackSink(webhookURL string, logger *slog.Logger) Sink {
	if webhookURL == "" {
		logger.Info("slack webhook URL not configured, slack notifications disabled")
		return NewNoopSink(ChannelSlack, logger)
	}
	return &SlackSink{webhookURL: webhookURL}
}

func (s *SlackSink) Name() string { return ChannelSlack }

func (s *SlackSink) Send(ctx context.Context, payload Payload) error {
	summary := fmt.Sprintf("*Pipeline:* %s\n*Status:* %s\n*Build Time:* %ds",
		payload.PipelineName, payload.Status, payload.BuildTime)
	logs := fmt.Sprintf("*Logs:*\n```%s```", logsExcerpt(payload.Logs))

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("🔔 Pipeline Alert: %s", payload.PipelineName),
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, summary, false, false), nil, nil),
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, logs, false, false), nil, nil),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	return nil
}
