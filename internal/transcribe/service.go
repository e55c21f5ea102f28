package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docchat-backend/internal/audio"
)

// ErrDownload is returned when a stored audio file cannot be fetched from
// the streaming endpoint.
var ErrDownload = errors.New("failed to download audio file")

// Service converts audio into text using a configured Model. Remote files
// are fetched from the main API's audio streaming endpoint.
type Service struct {
	Model     Model
	FetchBase string

	httpClient *http.Client
}

func NewService(model Model, fetchBase string) *Service {
	return &Service{
		Model:      model,
		FetchBase:  fetchBase,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// TranscribeUpload writes the uploaded audio to a temporary file and runs
// the model over it. The temporary file is removed before returning.
func (s *Service) TranscribeUpload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	tmpPath, err := s.spool(fileName, r)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)
	return s.run(ctx, tmpPath)
}

// TranscribeRemote fetches a stored audio artifact by name and transcribes
// it. The name must be a bare file name; anything resembling a path is
// rejected before any network call.
func (s *Service) TranscribeRemote(ctx context.Context, filename string) (string, error) {
	if err := audio.ValidateName(filename); err != nil {
		return "", err
	}

	url := s.FetchBase + "/audio_stream/" + filename
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}

	tmpPath, err := s.spool(filename, resp.Body)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)
	return s.run(ctx, tmpPath)
}

// spool copies audio to a temp file, keeping the original extension so the
// model can infer the container format.
func (s *Service) spool(fileName string, r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "transcribe-*"+filepath.Ext(fileName))
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("spool audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("spool audio: %w", err)
	}
	return f.Name(), nil
}

func (s *Service) run(ctx context.Context, audioPath string) (string, error) {
	segments, err := s.Model.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	return JoinSegments(segments), nil
}

func (s *Service) client() *http.Client {
	if s.httpClient != nil {
		return s.httpClient
	}
	return http.DefaultClient
}
