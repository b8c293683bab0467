package webhook

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

// Processor routes webhook deliveries to the matching pipeline. It
// never fails a delivery: events it cannot place are logged and
// dropped so the provider does not retry a payload that will never
// parse differently.
type Processor struct {
	channels      ChannelResolver
	conversations ConversationResolver
	messages      MessageStore
	templates     TemplateSync
	fetcher       *Fetcher
	echoWindow    time.Duration
	logger        *slog.Logger
}

// NewProcessor creates a webhook processor.
func NewProcessor(
	log *slog.Logger,
	channels ChannelResolver,
	conversations ConversationResolver,
	messages MessageStore,
	templates TemplateSync,
	fetcher *Fetcher,
	echoWindow time.Duration,
) *Processor {
	if log == nil {
		log = slog.Default()
	}
	if echoWindow <= 0 {
		echoWindow = 2 * time.Minute
	}
	return &Processor{
		channels:      channels,
		conversations: conversations,
		messages:      messages,
		templates:     templates,
		fetcher:       fetcher,
		echoWindow:    echoWindow,
		logger:        log.With(slog.String("component", "webhook")),
	}
}

// Process walks every change in the delivery and hands it to the
// pipeline selected by its field discriminator.
func (p *Processor) Process(ctx context.Context, payload whatsapp.WebhookPayload) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			switch change.Field {
			case whatsapp.FieldMessages:
				p.processMessages(ctx, change.Value)
			case whatsapp.FieldMessageEchoes:
				p.processEchoes(ctx, change.Value)
			case whatsapp.FieldTemplateStatusUpdate:
				p.processTemplateStatus(ctx, change.Value)
			case whatsapp.FieldTemplateCategoryUpdate:
				p.processTemplateCategory(ctx, change.Value)
			default:
				p.logger.Warn("unhandled webhook field",
					slog.String("field", change.Field),
					slog.String("entry_id", entry.ID))
			}
		}
	}
}

// resolveEvent builds the per-change context: the active channel for
// the receiving phone number plus the contact profile names carried in
// the delivery.
func (p *Processor) resolveEvent(ctx context.Context, value whatsapp.WebhookValue) (eventContext, bool) {
	ch, err := p.channels.ResolveByPhoneNumberID(ctx, value.Metadata.PhoneNumberID)
	if err != nil {
		if errors.Is(err, channel.ErrNotFound) {
			p.logger.Warn("no active channel for phone number id",
				slog.String("phone_number_id", value.Metadata.PhoneNumberID))
		} else {
			p.logger.Error("channel resolution failed",
				slog.String("phone_number_id", value.Metadata.PhoneNumberID),
				slog.Any("error", err))
		}
		return eventContext{}, false
	}

	if err := p.channels.TouchActivity(ctx, ch.ID); err != nil {
		p.logger.Warn("touch channel activity failed",
			slog.String("channel_id", ch.ID),
			slog.Any("error", err))
	}

	names := make(map[string]string, len(value.Contacts))
	for _, contact := range value.Contacts {
		if contact.WaID != "" && contact.Profile.Name != "" {
			names[contact.WaID] = contact.Profile.Name
		}
	}
	return eventContext{Channel: ch, ContactNames: names}, true
}
