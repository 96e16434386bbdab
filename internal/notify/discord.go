package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/squadworks/backoffice/internal/syncer"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts run summaries to a Discord channel over the REST API; no
// gateway connection is opened.
type Discord struct {
	sess    discordSession
	channel string
}

// NewDiscord builds a Discord notifier for the given channel.
func NewDiscord(botToken, channel string) (*Discord, error) {
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &Discord{sess: sess, channel: channel}, nil
}

// Name implements Notifier.
func (d *Discord) Name() string { return "discord" }

// PostSummary implements Notifier.
func (d *Discord) PostSummary(ctx context.Context, title string, sum *syncer.Summary) error {
	_, err := d.sess.ChannelMessageSend(d.channel, FormatSummary(title, sum), discordgo.WithContext(ctx))
	return err
}
