package slack

import (
	"context"
	"strings"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// MessageHandler routes app mentions to commands.
type MessageHandler struct {
	client   *Client
	commands *CommandHandler
	logger   *zap.Logger
}

func NewMessageHandler(client *Client, commands *CommandHandler, logger *zap.Logger) *MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageHandler{client: client, commands: commands, logger: logger}
}

func (h *MessageHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	if event.BotID != "" {
		return nil
	}

	text := strings.TrimSpace(strings.Replace(event.Text, "<@"+h.client.BotID()+">", "", 1))
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return h.commands.HandleHelp(ctx, event.Channel)
	}

	command, args := strings.ToLower(fields[0]), fields[1:]
	h.logger.Debug("Slack command", zap.String("command", command), zap.Strings("args", args))

	switch command {
	case "help":
		return h.commands.HandleHelp(ctx, event.Channel)
	case "status":
		canvasID := ""
		if len(args) > 0 {
			canvasID = args[0]
		}
		return h.commands.HandleStatus(ctx, event.Channel, canvasID)
	case "gate":
		return h.commands.HandleGate(ctx, event.Channel, args)
	case "sync":
		if len(args) > 0 && strings.EqualFold(args[0], "linear") {
			args = args[1:]
		}
		return h.commands.HandleLinearSync(ctx, event.Channel, args)
	}

	return h.client.SendMessage(ctx, event.Channel, "I didn't recognise that. Try `@StartupAI help`.")
}
