// Package whatsapp holds WhatsApp Cloud API wire types and the Graph
// media client.
package whatsapp

import (
	"encoding/json"
	"strconv"
	"time"
)

// Webhook change field discriminators.
const (
	FieldMessages               = "messages"
	FieldMessageEchoes          = "smb_message_echoes"
	FieldTemplateStatusUpdate   = "message_template_status_update"
	FieldTemplateCategoryUpdate = "template_category_update"
)

// Incoming message type values.
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeLocation = "location"
)

// WebhookPayload is the top-level webhook envelope.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one business-account entry in the envelope.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange carries one typed change. Field selects the shape of
// Value.
type WebhookChange struct {
	Value WebhookValue `json:"value"`
	Field string       `json:"field"`
}

// WebhookValue is the union of all change payloads. Which fields are
// populated depends on the change's Field discriminator.
type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product,omitempty"`
	Metadata         Metadata          `json:"metadata,omitempty"`
	Contacts         []WebhookContact  `json:"contacts,omitempty"`
	Messages         []IncomingMessage `json:"messages,omitempty"`
	Statuses         []StatusUpdate    `json:"statuses,omitempty"`

	// smb_message_echoes
	MessageEchoes []IncomingMessage `json:"message_echoes,omitempty"`

	// message_template_status_update / template_category_update
	Event                   string `json:"event,omitempty"`
	MessageTemplateID       int64  `json:"message_template_id,omitempty"`
	MessageTemplateName     string `json:"message_template_name,omitempty"`
	MessageTemplateLanguage string `json:"message_template_language,omitempty"`
	Reason                  string `json:"reason,omitempty"`
	PreviousCategory        string `json:"previous_category,omitempty"`
	NewCategory             string `json:"new_category,omitempty"`
}

// Metadata identifies the receiving phone number.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookContact carries the sender's profile as the provider knows it.
type WebhookContact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

// Profile is the sender's display profile.
type Profile struct {
	Name string `json:"name"`
}

// IncomingMessage is one inbound (or echoed outbound) message.
type IncomingMessage struct {
	From      string            `json:"from"`
	To        string            `json:"to,omitempty"`
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Type      string            `json:"type"`
	Text      *IncomingText     `json:"text,omitempty"`
	Image     *IncomingMedia    `json:"image,omitempty"`
	Audio     *IncomingMedia    `json:"audio,omitempty"`
	Video     *IncomingMedia    `json:"video,omitempty"`
	Document  *IncomingDocument `json:"document,omitempty"`
	Location  *IncomingLocation `json:"location,omitempty"`
}

// IncomingText is the body of a text message.
type IncomingText struct {
	Body string `json:"body"`
}

// IncomingMedia references a media object held by the provider. Voice
// is set on audio objects recorded as push-to-talk voice notes.
type IncomingMedia struct {
	Caption  string `json:"caption,omitempty"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256,omitempty"`
	ID       string `json:"id"`
	Voice    bool   `json:"voice,omitempty"`
}

// IncomingDocument is a document attachment reference.
type IncomingDocument struct {
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256,omitempty"`
	ID       string `json:"id"`
}

// IncomingLocation is a shared location.
type IncomingLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// StatusUpdate is one delivery receipt for an outbound message.
type StatusUpdate struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Timestamp   string        `json:"timestamp"`
	RecipientID string        `json:"recipient_id,omitempty"`
	Errors      []StatusError `json:"errors,omitempty"`
}

// StatusError describes a delivery failure.
type StatusError struct {
	Code    int    `json:"code"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"error_data,omitempty"`
}

// MediaInfo is the Graph API media object descriptor.
type MediaInfo struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}

// ParseTimestamp converts the provider's unix-seconds string to a time.
// Malformed or missing values return the zero time.
func ParseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// CaptionOrBody returns the user-visible text of a message: the text
// body, a media caption, or empty.
func (m IncomingMessage) CaptionOrBody() string {
	switch {
	case m.Text != nil:
		return m.Text.Body
	case m.Image != nil:
		return m.Image.Caption
	case m.Audio != nil:
		return m.Audio.Caption
	case m.Video != nil:
		return m.Video.Caption
	case m.Document != nil:
		return m.Document.Caption
	}
	return ""
}

// IsVoiceNote reports whether the message is an audio push-to-talk
// voice note.
func (m IncomingMessage) IsVoiceNote() bool {
	return m.Audio != nil && m.Audio.Voice
}

// MediaRef returns the provider media id and mime type of the message's
// attachment, if any.
func (m IncomingMessage) MediaRef() (id, mimeType string, ok bool) {
	switch {
	case m.Image != nil:
		return m.Image.ID, m.Image.MimeType, true
	case m.Audio != nil:
		return m.Audio.ID, m.Audio.MimeType, true
	case m.Video != nil:
		return m.Video.ID, m.Video.MimeType, true
	case m.Document != nil:
		return m.Document.ID, m.Document.MimeType, true
	}
	return "", "", false
}

// LocationJSON renders a shared location as the stored message content.
func (m IncomingMessage) LocationJSON() string {
	if m.Location == nil {
		return ""
	}
	data, err := json.Marshal(m.Location)
	if err != nil {
		return ""
	}
	return string(data)
}
