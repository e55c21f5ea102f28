package chat

import (
	"errors"
	"strings"
	"testing"
)

const validID = "3f0c8a1e-1111-2222-3333-444444444444"

func TestValidateInputRequiresDocumentID(t *testing.T) {
	if _, err := ValidateInput("", "hello", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ValidateInput("not-a-uuid", "hello", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
}

func TestValidateInputRejectsEmptyQuery(t *testing.T) {
	_, err := ValidateInput(validID, "   ", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "either text or audio") {
		t.Fatalf("expected violated constraint in message, got %v", err)
	}
}

func TestValidateInputTrimsText(t *testing.T) {
	q, err := ValidateInput(validID, "  hello  ", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q.Text != "hello" {
		t.Fatalf("expected trimmed text, got %q", q.Text)
	}
	if q.Audio != nil {
		t.Fatalf("expected text variant, got audio")
	}
}

func TestValidateInputAudioWins(t *testing.T) {
	upload := &AudioUpload{FileName: "clip.mp3"}
	q, err := ValidateInput(validID, "also text", upload)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q.Audio != upload {
		t.Fatalf("expected audio variant")
	}
	if q.Text != "" {
		t.Fatalf("expected text cleared in audio variant, got %q", q.Text)
	}
}
