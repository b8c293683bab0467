// Package message persists conversation messages and their delivery
// lifecycle.
package message

import (
	"errors"
	"time"
)

// Message direction constants.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Sender type constants.
const (
	SenderContact = "contact"
	SenderHuman   = "human"
	SenderBot     = "bot"
)

// Content type constants. ContentTypePending marks a media message whose
// binary has not been fetched yet.
const (
	ContentTypeText     = "text"
	ContentTypeImage    = "image"
	ContentTypeAudio    = "audio"
	ContentTypePtt      = "ptt"
	ContentTypeDocument = "document"
	ContentTypeLocation = "location"
	ContentTypePending  = "pending"
)

// Delivery ack levels, ordered. Higher levels subsume lower ones.
const (
	AckLevelNone      = 0
	AckLevelSent      = 1
	AckLevelDelivered = 2
	AckLevelRead      = 3
)

// Provider delivery status values.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// ErrAlreadyExists is returned when a message with the same external id
// is already recorded for the conversation.
var ErrAlreadyExists = errors.New("message already exists")

// ErrNotFound is returned when no message matches the given identifier.
var ErrNotFound = errors.New("message not found")

// Message is one stored conversation message.
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	ExternalID     string         `json:"external_id,omitempty"`
	Direction      string         `json:"direction"`
	Content        string         `json:"content"`
	ContentType    string         `json:"content_type"`
	MediaURL       string         `json:"media_url,omitempty"`
	SenderType     string         `json:"sender_type"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	FailedAt       *time.Time     `json:"failed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateInput carries the fields for storing a new message row.
type CreateInput struct {
	ConversationID string
	ExternalID     string
	Direction      string
	Content        string
	ContentType    string
	MediaURL       string
	SenderType     string
	Metadata       map[string]any
	SentAt         time.Time
}

// AckLevel maps a provider status string to its ordering level.
// Unknown statuses map to AckLevelNone.
func AckLevel(status string) int {
	switch status {
	case StatusSent:
		return AckLevelSent
	case StatusDelivered:
		return AckLevelDelivered
	case StatusRead:
		return AckLevelRead
	default:
		return AckLevelNone
	}
}
