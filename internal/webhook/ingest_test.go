package webhook

import (
	"context"
	"log/slog"
	"testing"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

func messagesPayload(field string, value whatsapp.WebhookValue) whatsapp.WebhookPayload {
	return whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []whatsapp.WebhookEntry{
			{ID: "entry-1", Changes: []whatsapp.WebhookChange{{Field: field, Value: value}}},
		},
	}
}

func textValue(from, id, body string) whatsapp.WebhookValue {
	return whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Contacts: []whatsapp.WebhookContact{
			{WaID: from, Profile: whatsapp.Profile{Name: "Ada"}},
		},
		Messages: []whatsapp.IncomingMessage{
			{From: from, ID: id, Timestamp: "1700000000", Type: "text", Text: &whatsapp.IncomingText{Body: body}},
		},
	}
}

func TestProcessStoresTextMessage(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	conversations := &fakeConversations{}
	messages := &fakeMessages{}
	p := testProcessor(channels, conversations, messages, &fakeTemplates{}, newIdleFetcher(messages))

	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, textValue("491700000001", "wamid.1", "hello")))

	if len(messages.created) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(messages.created))
	}
	got := messages.created[0]
	if got.Content != "hello" || got.ContentType != message.ContentTypeText {
		t.Fatalf("unexpected stored message: %+v", got)
	}
	if got.Direction != message.DirectionIncoming || got.SenderType != message.SenderContact {
		t.Fatalf("unexpected direction/sender: %+v", got)
	}
	if got.SentAt.IsZero() {
		t.Fatalf("expected sent_at from webhook timestamp")
	}
	if len(channels.touched) != 1 {
		t.Fatalf("expected channel activity touch, got %d", len(channels.touched))
	}
	if len(conversations.activity) != 1 {
		t.Fatalf("expected conversation activity record, got %d", len(conversations.activity))
	}
}

func TestProcessDuplicateMessageIsNoOp(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	conversations := &fakeConversations{}
	messages := &fakeMessages{}
	p := testProcessor(channels, conversations, messages, &fakeTemplates{}, newIdleFetcher(messages))

	payload := messagesPayload(whatsapp.FieldMessages, textValue("491700000001", "wamid.dup", "hi"))
	p.Process(context.Background(), payload)
	p.Process(context.Background(), payload)

	if len(messages.created) != 1 {
		t.Fatalf("expected single stored message across redeliveries, got %d", len(messages.created))
	}
	// Only the first delivery bumps conversation activity.
	if len(conversations.activity) != 1 {
		t.Fatalf("expected 1 activity record, got %d", len(conversations.activity))
	}
}

func TestProcessUnknownChannelDropsEvent(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{}}
	conversations := &fakeConversations{}
	messages := &fakeMessages{}
	p := testProcessor(channels, conversations, messages, &fakeTemplates{}, newIdleFetcher(messages))

	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, textValue("491700000001", "wamid.2", "nope")))

	if len(messages.created) != 0 {
		t.Fatalf("expected no stored message for unknown channel, got %d", len(messages.created))
	}
}

func TestProcessUnknownFieldIsDropped(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, newIdleFetcher(messages))

	p.Process(context.Background(), messagesPayload("account_update", whatsapp.WebhookValue{}))

	if len(messages.created) != 0 || len(channels.touched) != 0 {
		t.Fatalf("unknown field must not reach any pipeline")
	}
}

func TestProcessDocumentAcknowledgedNotStored(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, newIdleFetcher(messages))

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Messages: []whatsapp.IncomingMessage{
			{From: "491700000001", ID: "wamid.doc", Timestamp: "1700000000", Type: "document",
				Document: &whatsapp.IncomingDocument{ID: "media-9", MimeType: "application/pdf", Filename: "a.pdf"}},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.created) != 0 {
		t.Fatalf("document messages must not be persisted, got %d", len(messages.created))
	}
}

func TestProcessUnsupportedTypeIsDropped(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, newIdleFetcher(messages))

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Messages: []whatsapp.IncomingMessage{
			{From: "491700000001", ID: "wamid.sticker", Timestamp: "1700000000", Type: "sticker"},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.created) != 0 {
		t.Fatalf("unsupported type must not be persisted, got %d", len(messages.created))
	}
}

func TestProcessLocationMessageStored(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, newIdleFetcher(messages))

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Messages: []whatsapp.IncomingMessage{
			{From: "491700000001", ID: "wamid.loc", Timestamp: "1700000000", Type: "location",
				Location: &whatsapp.IncomingLocation{Latitude: 52.52, Longitude: 13.405, Name: "Berlin"}},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.created) != 1 {
		t.Fatalf("expected location message stored, got %d", len(messages.created))
	}
	if messages.created[0].ContentType != message.ContentTypeLocation {
		t.Fatalf("unexpected content type: %s", messages.created[0].ContentType)
	}
	if messages.created[0].Content == "" {
		t.Fatalf("expected serialized location content")
	}
}

func TestProcessMediaMessageCreatesPendingPlaceholder(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	fetcher := newIdleFetcher(messages)
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, fetcher)

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Messages: []whatsapp.IncomingMessage{
			{From: "491700000001", ID: "wamid.img", Timestamp: "1700000000", Type: "image",
				Image: &whatsapp.IncomingMedia{ID: "media-1", MimeType: "image/jpeg", Caption: "look"}},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.created) != 1 {
		t.Fatalf("expected placeholder stored, got %d", len(messages.created))
	}
	got := messages.created[0]
	if got.ContentType != message.ContentTypePending {
		t.Fatalf("expected pending placeholder, got %s", got.ContentType)
	}
	if got.Content != "look" {
		t.Fatalf("expected caption as content, got %q", got.Content)
	}
	if got.Metadata[metaMediaID] != "media-1" {
		t.Fatalf("expected media id in metadata, got %+v", got.Metadata)
	}

	select {
	case job := <-fetcher.queue:
		if job.MediaID != "media-1" || job.ExternalID != "wamid.img" {
			t.Fatalf("unexpected fetch job: %+v", job)
		}
		if job.AccessToken != "token-abc" {
			t.Fatalf("fetch job must carry the channel token")
		}
	default:
		t.Fatalf("expected a queued fetch job")
	}
}

func TestProcessVoiceNoteTypedAsPtt(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	fetcher := newIdleFetcher(messages)
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, fetcher)

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Messages: []whatsapp.IncomingMessage{
			{From: "491700000001", ID: "wamid.voice", Timestamp: "1700000000", Type: "audio",
				Audio: &whatsapp.IncomingMedia{ID: "media-2", MimeType: "audio/ogg; codecs=opus", Voice: true}},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.created) != 1 {
		t.Fatalf("expected placeholder stored, got %d", len(messages.created))
	}
	got := messages.created[0]
	if got.ContentType != message.ContentTypePending {
		t.Fatalf("expected pending placeholder, got %s", got.ContentType)
	}
	if got.Metadata[metaMediaType] != message.ContentTypePtt {
		t.Fatalf("expected ptt media type for voice note, got %+v", got.Metadata)
	}

	select {
	case job := <-fetcher.queue:
		if job.MediaType != message.ContentTypePtt {
			t.Fatalf("fetch job must carry the ptt type, got %+v", job)
		}
	default:
		t.Fatalf("expected a queued fetch job")
	}
}

func TestProcessAppliesStatuses(t *testing.T) {
	t.Parallel()

	channels := &fakeChannels{channels: map[string]channel.Channel{"15550001111": testChannel()}}
	messages := &fakeMessages{}
	p := testProcessor(channels, &fakeConversations{}, messages, &fakeTemplates{}, newIdleFetcher(messages))

	value := whatsapp.WebhookValue{
		Metadata: whatsapp.Metadata{PhoneNumberID: "15550001111"},
		Statuses: []whatsapp.StatusUpdate{
			{ID: "wamid.out1", Status: "delivered", Timestamp: "1700000100"},
			{ID: "wamid.out2", Status: "read", Timestamp: "1700000200"},
		},
	}
	p.Process(context.Background(), messagesPayload(whatsapp.FieldMessages, value))

	if len(messages.statuses) != 2 {
		t.Fatalf("expected 2 applied statuses, got %d", len(messages.statuses))
	}
	if messages.statuses[0].Status != "delivered" || messages.statuses[1].Status != "read" {
		t.Fatalf("unexpected statuses: %+v", messages.statuses)
	}
}

func newIdleFetcher(messages MessageStore) *Fetcher {
	return NewFetcher(slog.Default(), &fakeMediaClient{}, nil, messages, 1, 8)
}
