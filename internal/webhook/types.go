// Package webhook turns WhatsApp webhook deliveries into conversation
// state changes.
package webhook

import (
	"context"
	"time"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/conversation"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/template"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

// ChannelResolver maps provider identifiers to provisioned channels.
type ChannelResolver interface {
	ResolveByPhoneNumberID(ctx context.Context, phoneNumberID string) (channel.Channel, error)
	ResolveForConversation(ctx context.Context, conversationID string) (channel.Channel, error)
	TouchActivity(ctx context.Context, channelID string) error
}

// ConversationResolver finds or creates the thread an event belongs to.
type ConversationResolver interface {
	FindOrCreate(ctx context.Context, input conversation.FindOrCreateInput) (conversation.Conversation, error)
	RecordActivity(ctx context.Context, conversationID, name string) error
}

// MessageStore persists messages and their delivery lifecycle.
type MessageStore interface {
	Create(ctx context.Context, input message.CreateInput) (message.Message, error)
	AttachMedia(ctx context.Context, externalID, contentType, mediaURL string) (bool, error)
	FindRecentUnboundOutgoing(ctx context.Context, conversationID, content string, since time.Time) (message.Message, error)
	BindExternalID(ctx context.Context, messageID, externalID string, sentAt time.Time) (bool, error)
	ApplyStatus(ctx context.Context, externalID, status string, occurredAt time.Time, detail map[string]any) error
	ListPendingMedia(ctx context.Context, olderThan time.Time, limit int32) ([]message.Message, error)
	SetMetadata(ctx context.Context, messageID string, metadata map[string]any) error
}

// TemplateSync applies provider template lifecycle events.
type TemplateSync interface {
	ApplyStatus(ctx context.Context, update template.StatusUpdate) error
	ApplyCategory(ctx context.Context, update template.CategoryUpdate) error
}

// MediaClient fetches media objects from the Graph API.
type MediaClient interface {
	GetMediaInfo(ctx context.Context, accessToken, mediaID string) (whatsapp.MediaInfo, error)
	DownloadMedia(ctx context.Context, accessToken, url string) ([]byte, error)
}

// Metadata keys recorded on pending media messages.
const (
	metaMediaID       = "media_id"
	metaMediaType     = "media_type"
	metaMimeType      = "mime_type"
	metaFetchAttempts = "media_fetch_attempts"
	metaSource        = "source"

	// sourceEcho marks an outgoing message that was materialized from a
	// business-app echo rather than sent through this system.
	sourceEcho = "echo"
)

// eventContext carries the per-delivery resolution state. Each change
// resolves its own context instead of mutating processor fields, so
// concurrent deliveries never observe each other's channel.
type eventContext struct {
	Channel      channel.Channel
	ContactNames map[string]string
}

func (ec eventContext) contactName(waID string) string {
	if ec.ContactNames == nil {
		return ""
	}
	return ec.ContactNames[waID]
}
