package transcribe

import (
	"context"
	"strings"
)

// Segment is one ordered piece of a transcription.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Model converts an audio file into ordered text segments. Implementations
// are constructed once at process start and must be safe for concurrent use;
// they are treated as read-only after initialization.
type Model interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// JoinSegments concatenates segment texts with single-space separators.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
