package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbpkg "github.com/chatgridhq/chatgrid/internal/db"
	"github.com/chatgridhq/chatgrid/internal/db/sqlc"
)

// Service persists messages and applies delivery state transitions.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a message service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "message")),
	}
}

// Create stores a new message row. A second delivery of the same
// provider message hits the (conversation, external id) unique index
// and surfaces as ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, input CreateInput) (Message, error) {
	pgConvID, err := dbpkg.ParseUUID(input.ConversationID)
	if err != nil {
		return Message{}, fmt.Errorf("invalid conversation id: %w", err)
	}

	metaBytes, err := json.Marshal(nonNilMap(input.Metadata))
	if err != nil {
		return Message{}, fmt.Errorf("marshal message metadata: %w", err)
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = ContentTypeText
	}
	senderType := input.SenderType
	if senderType == "" {
		senderType = SenderContact
	}

	row, err := s.queries.CreateMessage(ctx, sqlc.CreateMessageParams{
		ConversationID: pgConvID,
		ExternalID:     toPgText(input.ExternalID),
		Direction:      input.Direction,
		Content:        input.Content,
		ContentType:    contentType,
		MediaUrl:       toPgText(input.MediaURL),
		SenderType:     senderType,
		Metadata:       metaBytes,
		SentAt:         toPgTimestamptz(input.SentAt),
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return Message{}, ErrAlreadyExists
		}
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return toMessage(row), nil
}

// AttachMedia flips a pending media placeholder to its final content
// type and stored location. It only matches rows still in the pending
// state, so replays and duplicate fetch completions are no-ops. The
// returned bool reports whether a row was updated.
func (s *Service) AttachMedia(ctx context.Context, externalID, contentType, mediaURL string) (bool, error) {
	rows, err := s.queries.AttachMessageMedia(ctx, sqlc.AttachMessageMediaParams{
		ExternalID:  toPgText(externalID),
		ContentType: contentType,
		MediaUrl:    toPgText(mediaURL),
	})
	if err != nil {
		return false, fmt.Errorf("attach media: %w", err)
	}
	return rows > 0, nil
}

// FindRecentUnboundOutgoing returns the newest outgoing message in the
// conversation with matching content, no external id yet, and created
// after since. Returns ErrNotFound when nothing qualifies.
func (s *Service) FindRecentUnboundOutgoing(ctx context.Context, conversationID, content string, since time.Time) (Message, error) {
	pgConvID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return Message{}, fmt.Errorf("invalid conversation id: %w", err)
	}
	row, err := s.queries.FindRecentUnboundOutgoing(ctx, sqlc.FindRecentUnboundOutgoingParams{
		ConversationID: pgConvID,
		Content:        content,
		CreatedAt:      toPgTimestamptz(since),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, fmt.Errorf("find unbound outgoing: %w", err)
	}
	return toMessage(row), nil
}

// BindExternalID stamps a provider message id onto a stored message.
// The update is guarded on external_id being null, so two echoes racing
// for the same row bind it exactly once. The returned bool reports
// whether this call won the bind.
func (s *Service) BindExternalID(ctx context.Context, messageID, externalID string, sentAt time.Time) (bool, error) {
	pgID, err := dbpkg.ParseUUID(messageID)
	if err != nil {
		return false, fmt.Errorf("invalid message id: %w", err)
	}
	rows, err := s.queries.BindMessageExternalID(ctx, sqlc.BindMessageExternalIDParams{
		ID:         pgID,
		ExternalID: toPgText(externalID),
		SentAt:     toPgTimestamptz(sentAt),
	})
	if err != nil {
		return false, fmt.Errorf("bind external id: %w", err)
	}
	return rows > 0, nil
}

// ApplyStatus records a provider delivery receipt. Transitions are
// monotonic: a receipt whose level is not above the highest already
// recorded leaves the row untouched. Receipts for unknown message ids
// are logged and dropped.
func (s *Service) ApplyStatus(ctx context.Context, externalID, status string, occurredAt time.Time, detail map[string]any) error {
	if externalID == "" {
		s.logger.Warn("status update without message id", slog.String("status", status))
		return nil
	}
	at := toPgTimestamptz(occurredAt)
	pgExternalID := toPgText(externalID)

	var (
		rows int64
		err  error
	)
	switch status {
	case StatusSent:
		rows, err = s.queries.MarkMessageSent(ctx, sqlc.MarkMessageSentParams{ExternalID: pgExternalID, SentAt: at})
	case StatusDelivered:
		rows, err = s.queries.MarkMessageDelivered(ctx, sqlc.MarkMessageDeliveredParams{ExternalID: pgExternalID, DeliveredAt: at})
	case StatusRead:
		rows, err = s.queries.MarkMessageRead(ctx, sqlc.MarkMessageReadParams{ExternalID: pgExternalID, ReadAt: at})
	case StatusFailed:
		detailBytes, mErr := json.Marshal(map[string]any{"failure": nonNilMap(detail)})
		if mErr != nil {
			return fmt.Errorf("marshal failure detail: %w", mErr)
		}
		rows, err = s.queries.MarkMessageFailed(ctx, sqlc.MarkMessageFailedParams{ExternalID: pgExternalID, FailedAt: at, Metadata: detailBytes})
	default:
		s.logger.Warn("unknown delivery status",
			slog.String("status", status),
			slog.String("external_id", externalID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply status %s: %w", status, err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing updated: either the id is unknown or the receipt arrived
	// out of order behind a higher level. Distinguish for the logs.
	if _, getErr := s.queries.GetMessageByExternalID(ctx, pgExternalID); getErr != nil {
		if errors.Is(getErr, pgx.ErrNoRows) {
			s.logger.Warn("status update for unknown message",
				slog.String("status", status),
				slog.String("external_id", externalID))
			return nil
		}
		return fmt.Errorf("lookup message for status: %w", getErr)
	}
	s.logger.Debug("status update superseded",
		slog.String("status", status),
		slog.Int("level", AckLevel(status)),
		slog.String("external_id", externalID))
	return nil
}

// ListPendingMedia returns incoming messages still waiting for their
// media binaries, oldest first.
func (s *Service) ListPendingMedia(ctx context.Context, olderThan time.Time, limit int32) ([]Message, error) {
	rows, err := s.queries.ListPendingMediaMessages(ctx, sqlc.ListPendingMediaMessagesParams{
		CreatedAt: toPgTimestamptz(olderThan),
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list pending media: %w", err)
	}
	items := make([]Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, toMessage(row))
	}
	return items, nil
}

// SetMetadata replaces the metadata document of a message.
func (s *Service) SetMetadata(ctx context.Context, messageID string, metadata map[string]any) error {
	pgID, err := dbpkg.ParseUUID(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	metaBytes, err := json.Marshal(nonNilMap(metadata))
	if err != nil {
		return fmt.Errorf("marshal message metadata: %w", err)
	}
	return s.queries.UpdateMessageMetadata(ctx, sqlc.UpdateMessageMetadataParams{
		ID:       pgID,
		Metadata: metaBytes,
	})
}

func toMessage(row sqlc.Message) Message {
	var metadata map[string]any
	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &metadata)
	}
	return Message{
		ID:             uuid.UUID(row.ID.Bytes).String(),
		ConversationID: uuid.UUID(row.ConversationID.Bytes).String(),
		ExternalID:     dbpkg.TextToString(row.ExternalID),
		Direction:      row.Direction,
		Content:        row.Content,
		ContentType:    row.ContentType,
		MediaURL:       dbpkg.TextToString(row.MediaUrl),
		SenderType:     row.SenderType,
		Metadata:       metadata,
		SentAt:         dbpkg.TimePtrFromPg(row.SentAt),
		DeliveredAt:    dbpkg.TimePtrFromPg(row.DeliveredAt),
		ReadAt:         dbpkg.TimePtrFromPg(row.ReadAt),
		FailedAt:       dbpkg.TimePtrFromPg(row.FailedAt),
		CreatedAt:      dbpkg.TimeFromPg(row.CreatedAt),
		UpdatedAt:      dbpkg.TimeFromPg(row.UpdatedAt),
	}
}

func toPgText(value string) pgtype.Text {
	if value == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: value, Valid: true}
}

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
