package chat

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrValidation marks malformed or incomplete chat input, rejected before
// any side effect occurs.
var ErrValidation = errors.New("validation failed")

// AudioUpload is an audio query attachment.
type AudioUpload struct {
	FileName string
	Reader   io.Reader
}

// Query is a validated chat query: a document binding plus exactly one of
// {text, audio}.
type Query struct {
	DocumentID string
	Text       string
	Audio      *AudioUpload
}

// ValidateInput checks the cross-field invariant explicitly and returns a
// tagged result: a Query carrying exactly one of text or audio, or an error
// naming the violated constraint. Audio wins when both are supplied.
func ValidateInput(documentID, text string, audio *AudioUpload) (Query, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return Query{}, fmt.Errorf("%w: document_id is required", ErrValidation)
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return Query{}, fmt.Errorf("%w: document_id must be a valid UUID", ErrValidation)
	}

	text = strings.TrimSpace(text)

	if audio != nil {
		return Query{DocumentID: documentID, Audio: audio}, nil
	}
	if text == "" {
		return Query{}, fmt.Errorf("%w: either text or audio must be provided", ErrValidation)
	}
	return Query{DocumentID: documentID, Text: text}, nil
}
