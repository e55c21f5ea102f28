package transcribe

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/audio"
	"docchat-backend/internal/shared/server/respond"
)

const maxAudioSize = 25 << 20

// Handler exposes the transcription endpoint. A request carries either a
// multipart audio upload or a JSON body naming a stored artifact.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes attaches the transcription route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/transcribe/", h.transcribe)
}

type remoteRequest struct {
	Filename string `json:"filename"`
}

type transcriptionResponse struct {
	Transcription string `json:"transcription"`
}

func (h *Handler) transcribe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioSize)

	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable audio file", nil)
			return
		}
		defer src.Close()

		text, err := h.Service.TranscribeUpload(c.Request.Context(), file.Filename, src)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "transcription_failed", err.Error(), nil)
			return
		}
		c.JSON(http.StatusOK, transcriptionResponse{Transcription: text})
		return
	}

	var req remoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "audio file or filename is required", nil)
		return
	}

	text, err := h.Service.TranscribeRemote(c.Request.Context(), req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrInvalidName):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		case errors.Is(err, ErrDownload):
			respond.Error(c, http.StatusBadRequest, "download_failed", "Failed to download audio file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "transcription_failed", err.Error(), nil)
		}
		return
	}
	c.JSON(http.StatusOK, transcriptionResponse{Transcription: text})
}
