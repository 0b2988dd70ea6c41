package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

type Client struct {
	api    *slack.Client
	botID  string
	logger *zap.Logger
}

// NewClient authenticates the bot token and records the bot's user id.
func NewClient(ctx context.Context, token string, logger *zap.Logger, opts ...slack.Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := slack.New(token, opts...)

	authTest, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	logger.Info("Slack client authenticated", zap.String("bot_id", authTest.UserID), zap.String("team", authTest.Team))
	return &Client{
		api:    api,
		botID:  authTest.UserID,
		logger: logger,
	}, nil
}

func (c *Client) API() *slack.Client {
	return c.api
}

func (c *Client) BotID() string {
	return c.botID
}

func (c *Client) SendMessage(ctx context.Context, channelID, message string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	return nil
}

// PostBlocks posts a block message and returns its timestamp. fallback is
// shown in notifications.
func (c *Client) PostBlocks(ctx context.Context, channelID, fallback string, blocks ...slack.Block) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return "", fmt.Errorf("failed to post message: %w", err)
	}
	return ts, nil
}

func (c *Client) AddReaction(ctx context.Context, channelID, ts, name string) error {
	return c.api.AddReactionContext(ctx, name, slack.NewRefToMessage(channelID, ts))
}
