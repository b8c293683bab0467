// Package storage defines the blob storage abstraction for fetched
// media assets.
package storage

import (
	"context"
	"io"
)

// Provider stores and retrieves media blobs by routing key. Keys are
// of the form "<channel_id>/<storage_key>".
type Provider interface {
	Put(ctx context.Context, key string, reader io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// AccessPath maps a routing key to the path clients use to fetch
	// the blob through the media endpoint.
	AccessPath(key string) string
}
