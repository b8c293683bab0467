package webhook

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chatgridhq/chatgrid/internal/conversation"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

// processEchoes reconciles business-app message echoes with locally
// stored outgoing messages. An echo either binds its provider id to a
// recent unbound outgoing row with the same content, or materializes as
// a new outgoing message sent by a human outside this system.
func (p *Processor) processEchoes(ctx context.Context, value whatsapp.WebhookValue) {
	ec, ok := p.resolveEvent(ctx, value)
	if !ok {
		return
	}
	for _, echo := range value.MessageEchoes {
		p.reconcileEcho(ctx, ec, echo)
	}
}

func (p *Processor) reconcileEcho(ctx context.Context, ec eventContext, echo whatsapp.IncomingMessage) {
	if echo.To == "" {
		p.logger.Warn("echo without recipient", slog.String("external_id", echo.ID))
		return
	}

	conv, err := p.conversations.FindOrCreate(ctx, conversation.FindOrCreateInput{
		ChannelID:  ec.Channel.ID,
		ExternalID: echo.To,
		Name:       ec.contactName(echo.To),
	})
	if err != nil {
		p.logger.Error("conversation resolution failed",
			slog.String("channel_id", ec.Channel.ID),
			slog.String("to", echo.To),
			slog.Any("error", err))
		return
	}

	content := echo.CaptionOrBody()
	sentAt := whatsapp.ParseTimestamp(echo.Timestamp)

	// A message we sent ourselves shows up here moments after the API
	// call stored it. Match on exact content within the window and
	// bind instead of duplicating.
	if content != "" {
		candidate, err := p.messages.FindRecentUnboundOutgoing(ctx, conv.ID, content, time.Now().Add(-p.echoWindow))
		if err == nil {
			bound, bindErr := p.messages.BindExternalID(ctx, candidate.ID, echo.ID, sentAt)
			if bindErr != nil {
				p.logger.Error("bind echo failed",
					slog.String("message_id", candidate.ID),
					slog.String("external_id", echo.ID),
					slog.Any("error", bindErr))
				return
			}
			if bound {
				p.logger.Debug("echo bound to outgoing message",
					slog.String("message_id", candidate.ID),
					slog.String("external_id", echo.ID))
				return
			}
			// Another echo won the bind between find and update.
			// Fall through and let the unique index sort it out.
		} else if !errors.Is(err, message.ErrNotFound) {
			p.logger.Error("find unbound outgoing failed",
				slog.String("conversation_id", conv.ID),
				slog.Any("error", err))
			return
		}
	}

	// No local candidate: a human sent this from the business app.
	// The source marker keeps app-originated sends distinguishable
	// from rows materialized out of an echo.
	_, err = p.messages.Create(ctx, message.CreateInput{
		ConversationID: conv.ID,
		ExternalID:     echo.ID,
		Direction:      message.DirectionOutgoing,
		Content:        content,
		ContentType:    echoContentType(echo),
		SenderType:     message.SenderHuman,
		Metadata:       map[string]any{metaSource: sourceEcho},
		SentAt:         sentAt,
	})
	if err != nil {
		if errors.Is(err, message.ErrAlreadyExists) {
			p.logger.Debug("duplicate echo delivery", slog.String("external_id", echo.ID))
			return
		}
		p.logger.Error("store echoed message failed",
			slog.String("conversation_id", conv.ID),
			slog.String("external_id", echo.ID),
			slog.Any("error", err))
		return
	}

	if err := p.conversations.RecordActivity(ctx, conv.ID, ""); err != nil {
		p.logger.Warn("record conversation activity failed",
			slog.String("conversation_id", conv.ID),
			slog.Any("error", err))
	}
}

func echoContentType(echo whatsapp.IncomingMessage) string {
	switch echo.Type {
	case whatsapp.MessageTypeImage:
		return message.ContentTypeImage
	case whatsapp.MessageTypeAudio:
		if echo.IsVoiceNote() {
			return message.ContentTypePtt
		}
		return message.ContentTypeAudio
	case whatsapp.MessageTypeDocument:
		return message.ContentTypeDocument
	}
	return message.ContentTypeText
}
