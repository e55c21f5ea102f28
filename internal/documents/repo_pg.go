package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    title,
    mime_type,
    size_bytes,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.MimeType,
		doc.SizeBytes,
		storageKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID returns a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, title, mime_type, size_bytes, storage_key, extracted_text_key, created_at
FROM documents
WHERE id = $1`

	var doc Document
	var storageKey sql.NullString
	var extractedKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageKey,
		&extractedKey,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.StorageKey = storageKey.String
	doc.ExtractedTextKey = extractedKey.String
	return doc, nil
}

// UpdateExtraction stores the extracted text key for a document, first write wins.
func (r *PGRepo) UpdateExtraction(ctx context.Context, documentID, extractedKey string) error {
	const query = `
UPDATE documents
SET extracted_text_key = $2
WHERE id = $1 AND extracted_text_key IS NULL`

	res, err := r.DB.ExecContext(ctx, query, documentID, extractedKey)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the document is missing or extraction already recorded.
		if _, getErr := r.GetByID(ctx, documentID); getErr != nil {
			return getErr
		}
	}
	return nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
