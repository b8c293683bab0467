package webhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatgridhq/chatgrid/internal/conversation"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

// processMessages ingests inbound contact messages and applies any
// delivery receipts riding in the same change.
func (p *Processor) processMessages(ctx context.Context, value whatsapp.WebhookValue) {
	ec, ok := p.resolveEvent(ctx, value)
	if !ok {
		return
	}

	for _, msg := range value.Messages {
		p.ingestMessage(ctx, ec, msg)
	}
	for _, status := range value.Statuses {
		p.applyStatus(ctx, status)
	}
}

func (p *Processor) ingestMessage(ctx context.Context, ec eventContext, msg whatsapp.IncomingMessage) {
	conv, err := p.conversations.FindOrCreate(ctx, conversation.FindOrCreateInput{
		ChannelID:  ec.Channel.ID,
		ExternalID: msg.From,
		Name:       ec.contactName(msg.From),
	})
	if err != nil {
		p.logger.Error("conversation resolution failed",
			slog.String("channel_id", ec.Channel.ID),
			slog.String("from", msg.From),
			slog.Any("error", err))
		return
	}

	input := message.CreateInput{
		ConversationID: conv.ID,
		ExternalID:     msg.ID,
		Direction:      message.DirectionIncoming,
		SenderType:     message.SenderContact,
		SentAt:         whatsapp.ParseTimestamp(msg.Timestamp),
	}

	var mediaJob *FetchJob
	switch msg.Type {
	case whatsapp.MessageTypeText:
		if msg.Text == nil {
			p.logger.Warn("text message without body", slog.String("external_id", msg.ID))
			return
		}
		input.Content = msg.Text.Body
		input.ContentType = message.ContentTypeText

	case whatsapp.MessageTypeImage, whatsapp.MessageTypeAudio:
		mediaID, mimeType, ok := msg.MediaRef()
		if !ok {
			p.logger.Warn("media message without media object",
				slog.String("type", msg.Type),
				slog.String("external_id", msg.ID))
			return
		}
		mediaType := msg.Type
		if msg.IsVoiceNote() {
			mediaType = message.ContentTypePtt
		}
		input.Content = msg.CaptionOrBody()
		input.ContentType = message.ContentTypePending
		input.Metadata = map[string]any{
			metaMediaID:   mediaID,
			metaMediaType: mediaType,
			metaMimeType:  mimeType,
		}
		mediaJob = &FetchJob{
			ChannelID:   ec.Channel.ID,
			AccessToken: ec.Channel.AccessToken,
			ExternalID:  msg.ID,
			MediaID:     mediaID,
			MediaType:   mediaType,
			MimeType:    mimeType,
		}

	case whatsapp.MessageTypeLocation:
		content := msg.LocationJSON()
		if content == "" {
			p.logger.Warn("location message without coordinates", slog.String("external_id", msg.ID))
			return
		}
		input.Content = content
		input.ContentType = message.ContentTypeLocation

	case whatsapp.MessageTypeDocument:
		// Documents are acknowledged but not stored.
		p.logger.Info("document message acknowledged",
			slog.String("conversation_id", conv.ID),
			slog.String("external_id", msg.ID))
		return

	default:
		p.logger.Warn("unsupported message type",
			slog.String("type", msg.Type),
			slog.String("external_id", msg.ID))
		return
	}

	stored, err := p.messages.Create(ctx, input)
	if err != nil {
		if errors.Is(err, message.ErrAlreadyExists) {
			p.logger.Debug("duplicate message delivery",
				slog.String("conversation_id", conv.ID),
				slog.String("external_id", msg.ID))
			return
		}
		p.logger.Error("store message failed",
			slog.String("conversation_id", conv.ID),
			slog.String("external_id", msg.ID),
			slog.Any("error", err))
		return
	}

	if err := p.conversations.RecordActivity(ctx, conv.ID, ec.contactName(msg.From)); err != nil {
		p.logger.Warn("record conversation activity failed",
			slog.String("conversation_id", conv.ID),
			slog.Any("error", err))
	}

	if mediaJob != nil {
		mediaJob.MessageID = stored.ID
		if !p.fetcher.Enqueue(*mediaJob) {
			// Queue is full. The placeholder stays pending and the
			// reconciler picks it up on its next sweep.
			p.logger.Warn("media fetch queue full",
				slog.String("external_id", msg.ID))
		}
	}
}

func (p *Processor) applyStatus(ctx context.Context, status whatsapp.StatusUpdate) {
	var detail map[string]any
	if len(status.Errors) > 0 {
		first := status.Errors[0]
		detail = map[string]any{
			"code":    first.Code,
			"title":   first.Title,
			"message": first.Message,
		}
	}
	if err := p.messages.ApplyStatus(ctx, status.ID, status.Status, whatsapp.ParseTimestamp(status.Timestamp), detail); err != nil {
		p.logger.Error("apply status failed",
			slog.String("external_id", status.ID),
			slog.String("status", status.Status),
			slog.Any("error", err))
	}
}
