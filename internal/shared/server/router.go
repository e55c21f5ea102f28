package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/audio"
	googleauth "docchat-backend/internal/auth"
	"docchat-backend/internal/chat"
	"docchat-backend/internal/documents"
	"docchat-backend/internal/shared/config"
	"docchat-backend/internal/shared/server/middleware"
	"docchat-backend/internal/shared/server/respond"
	"docchat-backend/internal/transcribe"
)

// RouterDeps carries the handlers wired into the API router.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	AudioHandler     *audio.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the API engine with middleware and routes registered.
// File and audio streaming stay public so the workflow engine and the
// transcriber can fetch content without credentials.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(r)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterPublicRoutes(r)
	}
	if deps.AudioHandler != nil {
		deps.AudioHandler.RegisterRoutes(r)
	}

	protected := r.Group("")
	protected.Use(middleware.Auth())
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(protected)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(protected)
	}

	return r
}

// NewTranscriberRouter constructs the transcription service engine. The
// service sits behind the main API, so requests are not authenticated here.
func NewTranscriberRouter(cfg config.Config, handler *transcribe.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(r)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
