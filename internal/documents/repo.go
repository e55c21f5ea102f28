package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	// GetByID resolves a document regardless of owner; callers apply the
	// access policy after resolution.
	GetByID(ctx context.Context, documentID string) (Document, error)
	UpdateExtraction(ctx context.Context, documentID, extractedKey string) error
}
