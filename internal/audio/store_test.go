package audio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	localstore "docchat-backend/internal/shared/storage/object/local"
)

func TestSaveGeneratesUniqueNamesWithExtension(t *testing.T) {
	store := NewStore(localstore.New(t.TempDir()))
	ctx := context.Background()

	first, err := store.Save(ctx, "clip.mp3", bytes.NewReader([]byte("one")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save(ctx, "clip.mp3", bytes.NewReader([]byte("two")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasSuffix(first, ".mp3") || !strings.HasSuffix(second, ".mp3") {
		t.Fatalf("expected generated names to keep .mp3, got %s and %s", first, second)
	}
	if first == second {
		t.Fatalf("expected distinct generated names, got %s twice", first)
	}

	rc, err := store.Open(ctx, first)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "one" {
		t.Fatalf("expected first artifact bytes, got %q", data)
	}
}

func TestOpenRejectsTraversalNames(t *testing.T) {
	store := NewStore(localstore.New(t.TempDir()))
	ctx := context.Background()

	for _, name := range []string{
		"../../etc/passwd",
		"..",
		"a/b.mp3",
		`a\b.mp3`,
		"",
	} {
		if _, err := store.Open(ctx, name); err != ErrInvalidName {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}

func TestOpenMissingArtifact(t *testing.T) {
	store := NewStore(localstore.New(t.TempDir()))
	if _, err := store.Open(context.Background(), "nope.mp3"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMIMEForName(t *testing.T) {
	cases := map[string]string{
		"a.wav":   "audio/",
		"a.mp3":   "audio/",
		"unknown": "audio/mpeg",
	}
	for name, prefix := range cases {
		if got := MIMEForName(name); !strings.HasPrefix(got, prefix) {
			t.Fatalf("MIMEForName(%q) = %q, expected prefix %q", name, got, prefix)
		}
	}
}
