package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docchat-backend/internal/extract"
	"docchat-backend/internal/shared/storage/object"
	"docchat-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store         object.ObjectStore
	Repo          DocumentsRepo
	Policy        AccessPolicy
	PublicBaseURL string
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userId, fileName string, r io.Reader) (Document, error) {
	if userId == "" {
		return Document{}, errors.New("user id required")
	}
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userId, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		UserID:     userId,
		Title:      fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	s.extractText(ctx, &doc)

	return doc, nil
}

// Get resolves a document by ID and applies the access policy. The not-found
// and not-owner cases are distinct errors so callers choose how much to leak.
func (s *Service) Get(ctx context.Context, principal, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if !s.policy().CanAccess(doc, principal) {
		return Document{}, ErrNotOwner
	}
	return doc, nil
}

// FileURL returns the publicly resolvable URL of the document's content.
func (s *Service) FileURL(doc Document) string {
	base := strings.TrimRight(s.PublicBaseURL, "/")
	return base + "/files/" + doc.StorageKey
}

// Response builds the outward-facing representation of a document.
func (s *Service) Response(doc Document) DocumentResponse {
	return s.toResponse(doc)
}

func (s *Service) policy() AccessPolicy {
	if s.Policy != nil {
		return s.Policy
	}
	return OwnerPolicy{}
}

// extractText derives a plain-text copy for PDF uploads. Best effort: an
// extraction failure never fails the upload.
func (s *Service) extractText(ctx context.Context, doc *Document) {
	if doc.MimeType != "application/pdf" && !strings.HasSuffix(strings.ToLower(doc.Title), ".pdf") {
		return
	}
	extractedKey, err := extract.TextFromStored(ctx, s.Store, doc.StorageKey, doc.Title)
	if err != nil {
		telemetry.Error("documents.extract_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return
	}
	if err := s.Repo.UpdateExtraction(ctx, doc.ID, extractedKey); err != nil {
		telemetry.Error("documents.extract_record_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return
	}
	doc.ExtractedTextKey = extractedKey
}
