package webhook

import (
	"context"
	"log/slog"
	"time"
)

// reconcileBatchSize caps how many placeholders one sweep re-enqueues.
const reconcileBatchSize = 100

// reconcileMinAge keeps the sweep from racing the first fetch attempt.
const reconcileMinAge = time.Minute

// MediaReconciler re-enqueues pending media placeholders whose fetch
// never completed, up to a bounded number of attempts.
type MediaReconciler struct {
	messages    MessageStore
	channels    ChannelResolver
	fetcher     *Fetcher
	maxAttempts int
	logger      *slog.Logger
}

// NewMediaReconciler creates a pending-media reconciler.
func NewMediaReconciler(log *slog.Logger, messages MessageStore, channels ChannelResolver, fetcher *Fetcher, maxAttempts int) *MediaReconciler {
	if log == nil {
		log = slog.Default()
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &MediaReconciler{
		messages:    messages,
		channels:    channels,
		fetcher:     fetcher,
		maxAttempts: maxAttempts,
		logger:      log.With(slog.String("component", "media_reconciler")),
	}
}

// Run sweeps placeholders older than a minute and re-submits their
// fetch jobs. Placeholders that exhausted their attempts are skipped.
func (r *MediaReconciler) Run(ctx context.Context) {
	pending, err := r.messages.ListPendingMedia(ctx, time.Now().Add(-reconcileMinAge), reconcileBatchSize)
	if err != nil {
		r.logger.Error("list pending media failed", slog.Any("error", err))
		return
	}
	if len(pending) == 0 {
		return
	}

	requeued := 0
	for _, msg := range pending {
		mediaID, _ := msg.Metadata[metaMediaID].(string)
		mediaType, _ := msg.Metadata[metaMediaType].(string)
		mimeType, _ := msg.Metadata[metaMimeType].(string)
		if mediaID == "" || mediaType == "" {
			r.logger.Warn("pending message without media metadata",
				slog.String("message_id", msg.ID))
			continue
		}
		attempts := attemptCount(msg.Metadata)
		if attempts >= r.maxAttempts {
			r.logger.Debug("media fetch attempts exhausted",
				slog.String("message_id", msg.ID),
				slog.Int("attempts", attempts))
			continue
		}

		ch, err := r.channels.ResolveForConversation(ctx, msg.ConversationID)
		if err != nil {
			r.logger.Warn("channel lookup for pending media failed",
				slog.String("message_id", msg.ID),
				slog.Any("error", err))
			continue
		}

		job := FetchJob{
			ChannelID:   ch.ID,
			AccessToken: ch.AccessToken,
			MessageID:   msg.ID,
			ExternalID:  msg.ExternalID,
			MediaID:     mediaID,
			MediaType:   mediaType,
			MimeType:    mimeType,
			Attempts:    attempts,
		}
		if !r.fetcher.Enqueue(job) {
			r.logger.Warn("media fetch queue full during reconcile")
			break
		}
		requeued++
	}
	if requeued > 0 {
		r.logger.Info("pending media requeued", slog.Int("count", requeued))
	}
}

// attemptCount reads the fetch attempt counter, tolerating the float64
// shape JSON decoding gives numbers.
func attemptCount(metadata map[string]any) int {
	switch v := metadata[metaFetchAttempts].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
