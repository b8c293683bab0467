package webhook

import (
	"context"
	"log/slog"
	"testing"

	"github.com/chatgridhq/chatgrid/internal/channel"
	"github.com/chatgridhq/chatgrid/internal/message"
)

func TestReconcilerRequeuesPendingMedia(t *testing.T) {
	t.Parallel()

	convID := "11111111-1111-1111-1111-111111111111"
	messages := &fakeMessages{
		pending: []message.Message{
			{
				ID:             "dddddddd-0000-0000-0000-000000000001",
				ConversationID: convID,
				ExternalID:     "wamid.stale",
				ContentType:    message.ContentTypePending,
				Metadata: map[string]any{
					metaMediaID:   "media-5",
					metaMediaType: "audio",
					metaMimeType:  "audio/ogg",
				},
			},
		},
	}
	channels := &fakeChannels{byConv: map[string]channel.Channel{convID: testChannel()}}
	fetcher := NewFetcher(slog.Default(), &fakeMediaClient{}, &fakeBlobs{}, messages, 1, 8)
	r := NewMediaReconciler(slog.Default(), messages, channels, fetcher, 5)

	r.Run(context.Background())

	select {
	case job := <-fetcher.queue:
		if job.MediaID != "media-5" || job.MediaType != "audio" {
			t.Fatalf("unexpected requeued job: %+v", job)
		}
		if job.AccessToken != "token-abc" {
			t.Fatalf("requeued job must carry the channel token")
		}
	default:
		t.Fatalf("expected a requeued fetch job")
	}
}

func TestReconcilerSkipsExhaustedAttempts(t *testing.T) {
	t.Parallel()

	convID := "11111111-1111-1111-1111-111111111111"
	messages := &fakeMessages{
		pending: []message.Message{
			{
				ID:             "dddddddd-0000-0000-0000-000000000002",
				ConversationID: convID,
				ExternalID:     "wamid.dead",
				ContentType:    message.ContentTypePending,
				Metadata: map[string]any{
					metaMediaID:       "media-6",
					metaMediaType:     "image",
					metaFetchAttempts: float64(5),
				},
			},
		},
	}
	channels := &fakeChannels{byConv: map[string]channel.Channel{convID: testChannel()}}
	fetcher := NewFetcher(slog.Default(), &fakeMediaClient{}, &fakeBlobs{}, messages, 1, 8)
	r := NewMediaReconciler(slog.Default(), messages, channels, fetcher, 5)

	r.Run(context.Background())

	select {
	case job := <-fetcher.queue:
		t.Fatalf("exhausted placeholder must not be requeued, got %+v", job)
	default:
	}
}

func TestReconcilerSkipsMissingMetadata(t *testing.T) {
	t.Parallel()

	messages := &fakeMessages{
		pending: []message.Message{
			{ID: "dddddddd-0000-0000-0000-000000000003", ConversationID: "11111111-1111-1111-1111-111111111111"},
		},
	}
	channels := &fakeChannels{}
	fetcher := NewFetcher(slog.Default(), &fakeMediaClient{}, &fakeBlobs{}, messages, 1, 8)
	r := NewMediaReconciler(slog.Default(), messages, channels, fetcher, 5)

	r.Run(context.Background())

	select {
	case job := <-fetcher.queue:
		t.Fatalf("placeholder without metadata must be skipped, got %+v", job)
	default:
	}
}
