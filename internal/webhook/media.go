package webhook

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"sync"

	"github.com/chatgridhq/chatgrid/internal/storage"
)

// FetchJob is one media download request.
type FetchJob struct {
	ChannelID   string
	AccessToken string
	MessageID   string
	ExternalID  string
	MediaID     string
	MediaType   string
	MimeType    string
	Attempts    int
}

// Fetcher downloads media binaries in the background and attaches them
// to their pending placeholder messages. Failures leave the placeholder
// pending; the reconciler re-enqueues it later.
type Fetcher struct {
	client   MediaClient
	blobs    storage.Provider
	messages MessageStore
	logger   *slog.Logger

	queue   chan FetchJob
	workers int
	once    sync.Once
}

// NewFetcher creates a media fetcher with the given pool size.
func NewFetcher(log *slog.Logger, client MediaClient, blobs storage.Provider, messages MessageStore, workers, queueSize int) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Fetcher{
		client:   client,
		blobs:    blobs,
		messages: messages,
		logger:   log.With(slog.String("component", "media_fetcher")),
		queue:    make(chan FetchJob, queueSize),
		workers:  workers,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled.
func (f *Fetcher) Start(ctx context.Context) {
	f.once.Do(func() {
		for i := 0; i < f.workers; i++ {
			go f.run(ctx)
		}
		f.logger.Info("media fetch workers started", slog.Int("workers", f.workers))
	})
}

// Enqueue submits a job without blocking. Returns false when the queue
// is full.
func (f *Fetcher) Enqueue(job FetchJob) bool {
	select {
	case f.queue <- job:
		return true
	default:
		return false
	}
}

func (f *Fetcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-f.queue:
			if err := f.process(ctx, job); err != nil {
				f.logger.Warn("media fetch failed",
					slog.String("media_id", job.MediaID),
					slog.String("external_id", job.ExternalID),
					slog.Int("attempt", job.Attempts+1),
					slog.Any("error", err))
				f.recordAttempt(ctx, job)
			}
		}
	}
}

func (f *Fetcher) process(ctx context.Context, job FetchJob) error {
	info, err := f.client.GetMediaInfo(ctx, job.AccessToken, job.MediaID)
	if err != nil {
		return err
	}
	data, err := f.client.DownloadMedia(ctx, job.AccessToken, info.URL)
	if err != nil {
		return err
	}

	mimeType := info.MimeType
	if mimeType == "" {
		mimeType = job.MimeType
	}
	key := fmt.Sprintf("%s/%s%s", job.ChannelID, job.MediaID, extensionFor(mimeType))
	if err := f.blobs.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store media blob: %w", err)
	}

	attached, err := f.messages.AttachMedia(ctx, job.ExternalID, job.MediaType, f.blobs.AccessPath(key))
	if err != nil {
		return err
	}
	if !attached {
		f.logger.Debug("media already attached",
			slog.String("external_id", job.ExternalID))
		return nil
	}
	f.logger.Info("media attached",
		slog.String("external_id", job.ExternalID),
		slog.String("media_id", job.MediaID),
		slog.Int("size", len(data)))
	return nil
}

// recordAttempt bumps the fetch attempt counter on the placeholder so
// the reconciler can stop retrying eventually.
func (f *Fetcher) recordAttempt(ctx context.Context, job FetchJob) {
	if job.MessageID == "" {
		return
	}
	meta := map[string]any{
		metaMediaID:       job.MediaID,
		metaMediaType:     job.MediaType,
		metaMimeType:      job.MimeType,
		metaFetchAttempts: job.Attempts + 1,
	}
	if err := f.messages.SetMetadata(ctx, job.MessageID, meta); err != nil {
		f.logger.Warn("record fetch attempt failed",
			slog.String("message_id", job.MessageID),
			slog.Any("error", err))
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "audio/ogg", "audio/ogg; codecs=opus":
		return ".ogg"
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
