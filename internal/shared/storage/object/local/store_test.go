package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, _, err := store.Save(ctx, "user-1", "clip.mp3", bytes.NewReader([]byte("audio-bytes")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("audio-bytes")) {
		t.Fatalf("expected size %d, got %d", len("audio-bytes"), size)
	}
	if !strings.HasSuffix(key, "_clip.mp3") {
		t.Fatalf("expected key with original name suffix, got %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Fatalf("expected round-trip bytes, got %q", data)
	}
}

func TestSaveWithKeyAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "audio/abc.mp3", "audio/mpeg", bytes.NewReader([]byte("xyz")))
	if err != nil {
		t.Fatalf("save with key: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, "audio/abc.mp3")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../../etc/passwd", "/etc/passwd", "audio/../../../etc/passwd"} {
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected traversal key %q to be rejected", key)
		}
	}
}

func TestSaveWithKeyRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.SaveWithKey(ctx, "../escape.mp3", "audio/mpeg", bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
}
