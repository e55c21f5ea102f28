package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"docchat-backend/internal/transcribe"
)

func writeTempAudio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp audio: %v", err)
	}
	return path
}

func TestTranscribeParsesSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "clip.mp3" {
			t.Errorf("expected clip.mp3, got %s", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "audio-bytes" {
			t.Errorf("expected uploaded bytes, got %q", data)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"segments":[{"start":0,"end":1.5,"text":" Hello"},{"start":1.5,"end":2,"text":"world "}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	segments, err := client.Transcribe(context.Background(), writeTempAudio(t, "audio-bytes"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got := transcribe.JoinSegments(segments); got != "Hello world" {
		t.Fatalf("expected joined text %q, got %q", "Hello world", got)
	}
}

func TestTranscribeFallsBackToPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"text":"just text"}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	segments, err := client.Transcribe(context.Background(), writeTempAudio(t, "x"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got := transcribe.JoinSegments(segments); got != "just text" {
		t.Fatalf("expected fallback text, got %q", got)
	}
}

func TestTranscribeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Transcribe(context.Background(), writeTempAudio(t, "x")); err == nil {
		t.Fatalf("expected error for non-OK status")
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
