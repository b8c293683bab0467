// Package conversation manages per-contact conversation threads.
package conversation

import "time"

// Conversation kind constants.
const (
	KindDirect = "direct"
	KindGroup  = "group"
)

// Conversation status constants.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Conversation is a thread with one external contact on one channel.
type Conversation struct {
	ID            string     `json:"id"`
	ChannelID     string     `json:"channel_id"`
	ExternalID    string     `json:"external_id"`
	Name          string     `json:"name,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Status        string     `json:"status"`
	Mode          string     `json:"mode"`
	Kind          string     `json:"kind"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FindOrCreateInput identifies the thread an inbound event belongs to.
type FindOrCreateInput struct {
	ChannelID  string
	ExternalID string
	Name       string
	Kind       string
}
