package documents

import "time"

// Document represents an uploaded document owned by a user.
type Document struct {
	ID               string
	UserID           string
	Title            string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	ExtractedTextKey string
	CreatedAt        time.Time
}
