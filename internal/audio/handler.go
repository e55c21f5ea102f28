package audio

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/shared/server/respond"
)

// Handler streams stored audio artifacts.
type Handler struct {
	Store *Store
}

// NewHandler constructs a Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches the artifact streaming route. The route is public:
// the workflow engine and transcriber fetch artifacts by name.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/audio_stream/:filename", h.stream)
}

func (h *Handler) stream(c *gin.Context) {
	name := c.Param("filename")

	rc, err := h.Store.Open(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		default:
			respond.Error(c, http.StatusNotFound, "not_found", "audio not found", nil)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Type", MIMEForName(name))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
