package audio

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docchat-backend/internal/shared/storage/object"
)

// Namespace is the logical storage prefix under which artifacts live.
const Namespace = "audio"

var (
	// ErrInvalidName indicates a name that is not a single path segment.
	ErrInvalidName = errors.New("invalid audio file name")
	// ErrNotFound indicates the named artifact does not exist.
	ErrNotFound = errors.New("audio artifact not found")
)

// Store persists audio artifacts under the audio namespace of an object
// store. Names are generated with enough randomness that concurrent saves
// never collide.
type Store struct {
	Objects object.ObjectStore
}

// NewStore constructs a Store.
func NewStore(objects object.ObjectStore) *Store {
	return &Store{Objects: objects}
}

// Save writes the audio bytes under a generated name preserving the original
// extension and returns that name.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := GenerateName(originalName)
	key := path.Join(Namespace, name)
	if _, err := s.Objects.SaveWithKey(ctx, key, MIMEForName(name), r); err != nil {
		return "", err
	}
	return name, nil
}

// Open resolves an artifact by name for streaming. The name must be a single
// path segment; traversal sequences are rejected before storage is touched.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	rc, err := s.Objects.Open(ctx, path.Join(Namespace, name))
	if err != nil {
		return nil, ErrNotFound
	}
	return rc, nil
}

// GenerateName returns a collision-resistant artifact name carrying the
// original extension.
func GenerateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.NewString() + ext
}

// ValidateName rejects names that are empty or not a single path segment.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

// MIMEForName maps an artifact name to an audio content type.
func MIMEForName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); strings.HasPrefix(t, "audio/") {
		return t
	}
	return "audio/mpeg"
}
