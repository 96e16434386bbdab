package notify

import (
	"context"

	slackapi "github.com/slack-go/slack"
	"github.com/squadworks/backoffice/internal/syncer"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Slack posts run summaries to a Slack channel.
type Slack struct {
	client  slackClient
	channel string
}

// NewSlack builds a Slack notifier for the given channel.
func NewSlack(token, channel string) *Slack {
	return &Slack{client: slackapi.New(token), channel: channel}
}

// Name implements Notifier.
func (s *Slack) Name() string { return "slack" }

// PostSummary implements Notifier.
func (s *Slack) PostSummary(ctx context.Context, title string, sum *syncer.Summary) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slackapi.MsgOptionText(FormatSummary(title, sum), false))
	return err
}
