package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutOpenDeleteRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := New(root)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	key := "chan-1/media-abc.jpg"
	if err := p.Put(context.Background(), key, strings.NewReader("payload")); err != nil {
		t.Fatalf("put: %v", err)
	}

	onDisk := filepath.Join(root, "channels", "chan-1", "media", "media-abc.jpg")
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("expected file at %s: %v", onDisk, err)
	}

	reader, err := p.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := p.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("expected file removed")
	}
	// Deleting again is not an error.
	if err := p.Delete(context.Background(), key); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestPutRejectsTraversal(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	bad := []string{
		"../outside/file",
		"/etc/passwd",
		"..",
		"onlychannel",
	}
	for _, key := range bad {
		if err := p.Put(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestAccessPath(t *testing.T) {
	t.Parallel()

	p, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if got := p.AccessPath("chan-1/media-abc.jpg"); got != "/media/chan-1/media-abc.jpg" {
		t.Fatalf("unexpected access path %q", got)
	}
}
