package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// Server handles the Slack Events API endpoint.
type Server struct {
	messages      *MessageHandler
	approvals     *ApprovalHandler
	signingSecret string
	logger        *zap.Logger
}

func NewServer(messages *MessageHandler, approvals *ApprovalHandler, signingSecret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		messages:      messages,
		approvals:     approvals,
		signingSecret: signingSecret,
		logger:        logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Warn("Failed to read Slack request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		s.logger.Warn("Invalid Slack signature headers", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := sv.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := sv.Ensure(); err != nil {
		s.logger.Warn("Slack signature verification failed", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.logger.Warn("Failed to parse Slack event", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		ctx := context.WithoutCancel(r.Context())
		inner := eventsAPIEvent.InnerEvent

		switch ev := inner.Data.(type) {
		case *slackevents.AppMentionEvent:
			if err := s.messages.HandleAppMention(ctx, ev); err != nil {
				s.logger.Error("Failed to handle app mention", zap.Error(err))
			}
		case *slackevents.ReactionAddedEvent:
			if err := s.approvals.HandleReaction(ctx, ev); err != nil {
				s.logger.Error("Failed to handle reaction", zap.Error(err))
			}
		default:
			s.logger.Debug("Ignoring Slack event", zap.String("type", inner.Type))
		}
	}

	w.WriteHeader(http.StatusOK)
}
