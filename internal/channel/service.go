package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dbpkg "github.com/chatgridhq/chatgrid/internal/db"
	"github.com/chatgridhq/chatgrid/internal/db/sqlc"
)

// Service looks up channels by their provider-side identifiers.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a channel service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "channel")),
	}
}

// ResolveByPhoneNumberID finds the active channel owning the given
// WhatsApp phone number id. Inactive channels are invisible here, so
// events addressed to a suspended channel fall out of the pipeline.
func (s *Service) ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) (Channel, error) {
	row, err := s.queries.GetActiveChannelByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Channel{}, ErrNotFound
		}
		return Channel{}, fmt.Errorf("get channel by phone number id: %w", err)
	}
	return toChannel(row), nil
}

// ResolveForConversation returns the channel a conversation belongs to.
func (s *Service) ResolveForConversation(ctx context.Context, conversationID string) (Channel, error) {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return Channel{}, fmt.Errorf("invalid conversation id: %w", err)
	}
	row, err := s.queries.GetChannelByConversationID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Channel{}, ErrNotFound
		}
		return Channel{}, fmt.Errorf("get channel for conversation: %w", err)
	}
	return toChannel(row), nil
}

// TouchActivity records that the channel just received provider traffic.
func (s *Service) TouchActivity(ctx context.Context, channelID string) error {
	pgID, err := dbpkg.ParseUUID(channelID)
	if err != nil {
		return fmt.Errorf("invalid channel id: %w", err)
	}
	return s.queries.TouchChannelActivity(ctx, pgID)
}

func toChannel(row sqlc.Channel) Channel {
	return Channel{
		ID:                 uuid.UUID(row.ID.Bytes).String(),
		PhoneNumberID:      row.PhoneNumberID,
		DisplayPhoneNumber: row.DisplayPhoneNumber,
		Name:               row.Name,
		AccessToken:        row.AccessToken,
		BusinessAccountID:  row.BusinessAccountID,
		Active:             row.Active,
		LastActivityAt:     dbpkg.TimePtrFromPg(row.LastActivityAt),
		CreatedAt:          dbpkg.TimeFromPg(row.CreatedAt),
		UpdatedAt:          dbpkg.TimeFromPg(row.UpdatedAt),
	}
}
