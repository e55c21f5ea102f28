package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/documents"
	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
	"docchat-backend/internal/workflow"
)

const maxAudioSize = 25 << 20 // 25MB

// Handler wires the chat endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the chat route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/chat/", h.chat)
}

func (h *Handler) chat(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioSize)

	documentID := c.PostForm("document_id")
	text := c.PostForm("text")

	var upload *AudioUpload
	if fileHeader, err := c.FormFile("audio"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read audio file", nil)
			return
		}
		defer file.Close()
		upload = &AudioUpload{FileName: fileHeader.Filename, Reader: file}
	}

	query, err := ValidateInput(documentID, text, upload)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	c.Set("documentId", query.DocumentID)

	resp, err := h.Svc.Chat(c.Request.Context(), userID, query)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found.", nil)
		case errors.Is(err, documents.ErrNotOwner):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "User not matched.", nil)
		case errors.Is(err, workflow.ErrDispatch):
			respond.Error(c, http.StatusBadGateway, "dispatch_failed", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process chat query", nil)
		}
		return
	}

	c.Data(http.StatusOK, "application/json", resp)
}
