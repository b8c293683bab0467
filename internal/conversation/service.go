package conversation

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

// Service resolves and maintains conversation threads.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a conversation service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "conversation")),
	}
}

// FindOrCreate returns the conversation for (channel, external id),
// creating it when none exists. Concurrent creators race on the unique
// constraint; the loser re-fetches the winner's row, so every caller
// ends up with the same conversation.
func (s *Service) FindOrCreate(ctx context.Context, input FindOrCreateInput) (Conversation, error) {
	pgChannelID, err := dbpkg.ParseUUID(input.ChannelID)
	if err != nil {
		return Conversation{}, fmt.Errorf("invalid channel id: %w", err)
	}
	if input.ExternalID == "" {
		return Conversation{}, fmt.Errorf("external id is required")
	}

	row, err := s.queries.GetConversationByExternalID(ctx, sqlc.GetConversationByExternalIDParams{
		ChannelID:  pgChannelID,
		ExternalID: input.ExternalID,
	})
	if err == nil {
		return toConversation(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	kind := input.Kind
	if kind == "" {
		kind = KindDirect
	}
	created, err := s.queries.CreateConversation(ctx, sqlc.CreateConversationParams{
		ChannelID:  pgChannelID,
		ExternalID: input.ExternalID,
		Name:       input.Name,
		Kind:       kind,
	})
	if err == nil {
		s.logger.Info("conversation created",
			slog.String("channel_id", input.ChannelID),
			slog.String("external_id", input.ExternalID))
		return toConversation(created), nil
	}
	if !dbpkg.IsUniqueViolation(err) {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}

	// Lost the create race. The winner's row is committed, fetch it.
	row, err = s.queries.GetConversationByExternalID(ctx, sqlc.GetConversationByExternalIDParams{
		ChannelID:  pgChannelID,
		ExternalID: input.ExternalID,
	})
	if err != nil {
		return Conversation{}, fmt.Errorf("refetch conversation after conflict: %w", err)
	}
	return toConversation(row), nil
}

// RecordActivity bumps last_message_at and opportunistically refreshes
// the contact display name when the webhook carried one.
func (s *Service) RecordActivity(ctx context.Context, conversationID, name string) error {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	return s.queries.UpdateConversationOnMessage(ctx, sqlc.UpdateConversationOnMessageParams{
		ID:   pgID,
		Name: name,
	})
}

func toConversation(row sqlc.Conversation) Conversation {
	return Conversation{
		ID:            uuid.UUID(row.ID.Bytes).String(),
		ChannelID:     uuid.UUID(row.ChannelID.Bytes).String(),
		ExternalID:    row.ExternalID,
		Name:          row.Name,
		AvatarURL:     dbpkg.TextToString(row.AvatarUrl),
		Status:        row.Status,
		Mode:          row.Mode,
		Kind:          row.Kind,
		LastMessageAt: dbpkg.TimePtrFromPg(row.LastMessageAt),
		CreatedAt:     dbpkg.TimeFromPg(row.CreatedAt),
		UpdatedAt:     dbpkg.TimeFromPg(row.UpdatedAt),
	}
}
