package gcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"docchat-backend/internal/transcribe"
)

// Model implements transcribe.Model using Google Cloud Speech-to-Text.
type Model struct {
	client   *speech.Client
	language string
}

// NewModel constructs a Model. The underlying client is created once and
// reused across requests.
func NewModel(ctx context.Context, language string) (*Model, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	if language == "" {
		language = "en-US"
	}
	return &Model{client: client, language: language}, nil
}

// Close releases the underlying client.
func (m *Model) Close() error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Close()
}

// Transcribe runs a synchronous recognition over the audio file and maps
// each result alternative to a segment, preserving order.
func (m *Model) Transcribe(ctx context.Context, audioPath string) ([]transcribe.Segment, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	resp, err := m.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               m.language,
			Encoding:                   encodingForPath(audioPath),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	var segments []transcribe.Segment
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		text := strings.TrimSpace(alts[0].GetTranscript())
		if text == "" {
			continue
		}
		seg := transcribe.Segment{Text: text}
		if end := result.GetResultEndTime(); end != nil {
			seg.End = end.AsDuration().Seconds()
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func encodingForPath(audioPath string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(filepath.Ext(audioPath)) {
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".mp3":
		return speechpb.RecognitionConfig_MP3
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

var _ transcribe.Model = (*Model)(nil)
