package webhook

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/conversation"
	"github.com/chatgridhq/chatgrid/internal/message"
	"github.com/chatgridhq/chatgrid/internal/template"
	"github.com/chatgridhq/chatgrid/internal/whatsapp"
)

type fakeChannels struct {
	channels map[string]channel.Channel
	byConv   map[string]channel.Channel
	touched  []string
}

func (f *fakeChannels) ResolveByPhoneNumberID(_ context.Context, phoneNumberID string) (channel.Channel, error) {
	ch, ok := f.channels[phoneNumberID]
	if !ok {
		return channel.Channel{}, channel.ErrNotFound
	}
	return ch, nil
}

func (f *fakeChannels) ResolveForConversation(_ context.Context, conversationID string) (channel.Channel, error) {
	ch, ok := f.byConv[conversationID]
	if !ok {
		return channel.Channel{}, channel.ErrNotFound
	}
	return ch, nil
}

func (f *fakeChannels) TouchActivity(_ context.Context, channelID string) error {
	f.touched = append(f.touched, channelID)
	return nil
}

type fakeConversations struct {
	conversations map[string]conversation.Conversation
	activity      []string
	nextID        int
}

func (f *fakeConversations) key(channelID, externalID string) string {
	return channelID + "/" + externalID
}

func (f *fakeConversations) FindOrCreate(_ context.Context, input conversation.FindOrCreateInput) (conversation.Conversation, error) {
	if f.conversations == nil {
		f.conversations = map[string]conversation.Conversation{}
	}
	key := f.key(input.ChannelID, input.ExternalID)
	if conv, ok := f.conversations[key]; ok {
		return conv, nil
	}
	f.nextID++
	conv := conversation.Conversation{
		ID:         conversationID(f.nextID),
		ChannelID:  input.ChannelID,
		ExternalID: input.ExternalID,
		Name:       input.Name,
		Kind:       conversation.KindDirect,
	}
	f.conversations[key] = conv
	return conv, nil
}

func (f *fakeConversations) RecordActivity(_ context.Context, conversationID, _ string) error {
	f.activity = append(f.activity, conversationID)
	return nil
}

func conversationID(n int) string {
	ids := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333",
	}
	return ids[(n-1)%len(ids)]
}

type fakeMessages struct {
	mu       sync.Mutex
	created  []message.CreateInput
	byExtID  map[string]message.Message
	statuses []appliedStatus
	attached []attachedMedia
	bound    []boundEcho
	pending  []message.Message
	metadata map[string]map[string]any

	unbound map[string]message.Message
}

type appliedStatus struct {
	ExternalID string
	Status     string
}

type attachedMedia struct {
	ExternalID  string
	ContentType string
	MediaURL    string
}

type boundEcho struct {
	MessageID  string
	ExternalID string
}

func (f *fakeMessages) Create(_ context.Context, input message.CreateInput) (message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byExtID == nil {
		f.byExtID = map[string]message.Message{}
	}
	if input.ExternalID != "" {
		if _, ok := f.byExtID[input.ConversationID+"/"+input.ExternalID]; ok {
			return message.Message{}, message.ErrAlreadyExists
		}
	}
	msg := message.Message{
		ID:             "aaaaaaaa-0000-0000-0000-00000000000" + string(rune('0'+len(f.created))),
		ConversationID: input.ConversationID,
		ExternalID:     input.ExternalID,
		Direction:      input.Direction,
		Content:        input.Content,
		ContentType:    input.ContentType,
		SenderType:     input.SenderType,
		Metadata:       input.Metadata,
	}
	f.created = append(f.created, input)
	if input.ExternalID != "" {
		f.byExtID[input.ConversationID+"/"+input.ExternalID] = msg
	}
	return msg, nil
}

func (f *fakeMessages) AttachMedia(_ context.Context, externalID, contentType, mediaURL string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, attachedMedia{ExternalID: externalID, ContentType: contentType, MediaURL: mediaURL})
	return true, nil
}

func (f *fakeMessages) FindRecentUnboundOutgoing(_ context.Context, conversationID, content string, _ time.Time) (message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := f.unbound[conversationID+"/"+content]; ok {
		return msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (f *fakeMessages) BindExternalID(_ context.Context, messageID, externalID string, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = append(f.bound, boundEcho{MessageID: messageID, ExternalID: externalID})
	return true, nil
}

func (f *fakeMessages) ApplyStatus(_ context.Context, externalID, status string, _ time.Time, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, appliedStatus{ExternalID: externalID, Status: status})
	return nil
}

func (f *fakeMessages) ListPendingMedia(_ context.Context, _ time.Time, _ int32) ([]message.Message, error) {
	return f.pending, nil
}

func (f *fakeMessages) SetMetadata(_ context.Context, messageID string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metadata == nil {
		f.metadata = map[string]map[string]any{}
	}
	f.metadata[messageID] = metadata
	return nil
}

type fakeTemplates struct {
	statuses   []template.StatusUpdate
	categories []template.CategoryUpdate
	statusErr  error
	catErr     error
}

func (f *fakeTemplates) ApplyStatus(_ context.Context, update template.StatusUpdate) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, update)
	return nil
}

func (f *fakeTemplates) ApplyCategory(_ context.Context, update template.CategoryUpdate) error {
	if f.catErr != nil {
		return f.catErr
	}
	f.categories = append(f.categories, update)
	return nil
}

type fakeMediaClient struct {
	info    whatsapp.MediaInfo
	infoErr error
	data    []byte
	dataErr error
}

func (f *fakeMediaClient) GetMediaInfo(_ context.Context, _, _ string) (whatsapp.MediaInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeMediaClient) DownloadMedia(_ context.Context, _, _ string) ([]byte, error) {
	return f.data, f.dataErr
}

func testProcessor(channels *fakeChannels, conversations *fakeConversations, messages *fakeMessages, templates *fakeTemplates, fetcher *Fetcher) *Processor {
	return NewProcessor(slog.Default(), channels, conversations, messages, templates, fetcher, 2*time.Minute)
}

func testChannel() channel.Channel {
	return channel.Channel{
		ID:            "99999999-9999-9999-9999-999999999999",
		PhoneNumberID: "15550001111",
		AccessToken:   "token-abc",
		Active:        true,
	}
}
