package webhook

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/chatgridhq/chatgrid/internal/template"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

// processTemplateStatus applies a template review decision.
func (p *Processor) processTemplateStatus(ctx context.Context, value whatsapp.WebhookValue) {
	if value.MessageTemplateID == 0 || value.Event == "" {
		p.logger.Warn("malformed template status update",
			slog.String("name", value.MessageTemplateName))
		return
	}
	err := p.templates.ApplyStatus(ctx, template.StatusUpdate{
		ExternalID: strconv.FormatInt(value.MessageTemplateID, 10),
		Event:      value.Event,
		Reason:     value.Reason,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			p.logger.Warn("status update for unknown template",
				slog.Int64("template_id", value.MessageTemplateID),
				slog.String("name", value.MessageTemplateName))
			return
		}
		p.logger.Error("apply template status failed",
			slog.Int64("template_id", value.MessageTemplateID),
			slog.Any("error", err))
	}
}

// processTemplateCategory applies a provider-side recategorization.
func (p *Processor) processTemplateCategory(ctx context.Context, value whatsapp.WebhookValue) {
	if value.MessageTemplateID == 0 || value.NewCategory == "" {
		p.logger.Warn("malformed template category update",
			slog.String("name", value.MessageTemplateName))
		return
	}
	err := p.templates.ApplyCategory(ctx, template.CategoryUpdate{
		ExternalID:  strconv.FormatInt(value.MessageTemplateID, 10),
		NewCategory: value.NewCategory,
	})
	if err != nil {
		switch {
		case errors.Is(err, template.ErrNotFound):
			p.logger.Warn("category update for unknown template",
				slog.Int64("template_id", value.MessageTemplateID))
		case errors.Is(err, template.ErrUnknownCategory):
			p.logger.Warn("unmappable template category",
				slog.Int64("template_id", value.MessageTemplateID),
				slog.String("category", value.NewCategory))
		default:
			p.logger.Error("apply template category failed",
				slog.Int64("template_id", value.MessageTemplateID),
				slog.Any("error", err))
		}
	}
}
