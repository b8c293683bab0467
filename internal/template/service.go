package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/chatgridhq/chatgrid/internal/db/sqlc"
)

// Provider review events, as delivered on the webhook.
const (
	EventApproved = "APPROVED"
	EventRejected = "REJECTED"
	EventPaused   = "PAUSED"
	EventDisabled = "DISABLED"
	EventPending  = "PENDING"
)

// reasonNone is the provider's sentinel for "no rejection reason".
const reasonNone = "NONE"

// categorySlugs maps provider category names to local category slugs.
var categorySlugs = map[string]string{
	"MARKETING":      "marketing",
	"UTILITY":        "utility",
	"AUTHENTICATION": "authentication",
}

// Service applies provider template lifecycle events to local records.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a template service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "template")),
	}
}

// ApplyStatus records a provider review decision on the local template.
// Approval stamps approved_at and clears any earlier rejection reason;
// other events keep the recorded approval time and reason so a pause or
// disable does not erase review history. Unknown templates return
// ErrNotFound so the caller can log and drop.
func (s *Service) ApplyStatus(ctx context.Context, update StatusUpdate) error {
	status := strings.ToLower(strings.TrimSpace(update.Event))
	if status == "" {
		return fmt.Errorf("empty template status event")
	}

	var approvedAt pgtype.Timestamptz
	var reason pgtype.Text
	switch status {
	case StatusApproved:
		approvedAt = pgtype.Timestamptz{Time: update.OccurredAt, Valid: true}
	case StatusRejected:
		if r := strings.TrimSpace(update.Reason); r != "" && r != reasonNone {
			reason = pgtype.Text{String: r, Valid: true}
		}
	}

	rows, err := s.queries.UpdateTemplateStatus(ctx, sqlc.UpdateTemplateStatusParams{
		ExternalID:      update.ExternalID,
		Status:          status,
		RejectionReason: reason,
		ApprovedAt:      approvedAt,
	})
	if err != nil {
		return fmt.Errorf("update template status: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	s.logger.Info("template status updated",
		slog.String("external_id", update.ExternalID),
		slog.String("status", status))
	return nil
}

// ApplyCategory moves the template into the local category matching the
// provider's new classification. The provider name is looked up in the
// fixed mapping first, then as a lowercase slug. No category is ever
// created here; an unmappable name returns ErrUnknownCategory.
func (s *Service) ApplyCategory(ctx context.Context, update CategoryUpdate) error {
	name := strings.TrimSpace(update.NewCategory)
	if name == "" {
		return fmt.Errorf("empty template category")
	}

	slug, ok := categorySlugs[strings.ToUpper(name)]
	if !ok {
		slug = strings.ToLower(name)
	}
	category, err := s.queries.GetActiveTemplateCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
		}
		return fmt.Errorf("get template category: %w", err)
	}

	rows, err := s.queries.UpdateTemplateCategory(ctx, sqlc.UpdateTemplateCategoryParams{
		ExternalID: update.ExternalID,
		CategoryID: category.ID,
	})
	if err != nil {
		return fmt.Errorf("update template category: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	s.logger.Info("template category updated",
		slog.String("external_id", update.ExternalID),
		slog.String("category", slug))
	return nil
}
