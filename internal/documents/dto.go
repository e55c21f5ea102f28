package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (s *Service) toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		FileURL:    s.FileURL(doc),
		UploadedAt: doc.CreatedAt,
	}
}
