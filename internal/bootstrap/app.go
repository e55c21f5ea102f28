package bootstrap

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/audio"
	googleauth "docchat-backend/internal/auth"
	"docchat-backend/internal/chat"
	"docchat-backend/internal/documents"
	"docchat-backend/internal/shared/config"
	"docchat-backend/internal/shared/server"
	"docchat-backend/internal/shared/storage/db"
	"docchat-backend/internal/shared/storage/object"
	localstore "docchat-backend/internal/shared/storage/object/local"
	s3store "docchat-backend/internal/shared/storage/object/s3"
	"docchat-backend/internal/transcribe"
	transcribegcp "docchat-backend/internal/transcribe/gcp"
	"docchat-backend/internal/transcribe/whisper"
	"docchat-backend/internal/workflow"
)

// App holds the API service's shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo    documents.DocumentsRepo
	DocumentsService *documents.Service
	AudioStore       *audio.Store
	Workflow         workflow.Dispatcher
	ChatService      *chat.Service

	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
	AudioHandler     *audio.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares the API service's dependencies and router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		ChatHandler:      app.ChatHandler,
		AudioHandler:     app.AudioHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store:         app.Store,
		Repo:          app.DocumentsRepo,
		PublicBaseURL: app.Config.PublicBaseURL,
	}
	app.AudioStore = audio.NewStore(app.Store)
	app.Workflow = buildDispatcher(app.Config)
	app.ChatService = &chat.Service{
		Docs:   app.DocumentsService,
		Audio:  app.AudioStore,
		Engine: app.Workflow,
	}

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.ChatHandler = chat.NewHandler(app.ChatService)
	app.AudioHandler = audio.NewHandler(app.AudioStore)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
}

func buildDispatcher(cfg config.Config) workflow.Dispatcher {
	if strings.TrimSpace(cfg.PipelineURL) == "" {
		log.Printf("bootstrap: PIPELINE_URL empty; chat dispatch disabled")
		return unconfiguredDispatcher{}
	}
	client, err := workflow.NewClient(cfg.PipelineURL)
	if err != nil {
		log.Printf("bootstrap: workflow client init failed; chat dispatch disabled: %v", err)
		return unconfiguredDispatcher{}
	}
	return client
}

// unconfiguredDispatcher stands in when no workflow endpoint is configured,
// so the rest of the API stays usable.
type unconfiguredDispatcher struct{}

func (unconfiguredDispatcher) Dispatch(context.Context, workflow.Payload) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: PIPELINE_URL not set", workflow.ErrDispatch)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// TranscriberApp holds the transcription service's dependencies.
type TranscriberApp struct {
	Config  config.Config
	Router  *gin.Engine
	Model   transcribe.Model
	Service *transcribe.Service
	Handler *transcribe.Handler

	closeModel func() error
}

// BuildTranscriber prepares the transcription service. The model backend is
// constructed once and reused for every request.
func BuildTranscriber(ctx context.Context, cfg config.Config) (*TranscriberApp, error) {
	app := &TranscriberApp{Config: cfg}

	switch cfg.TranscriberModel {
	case "gcp":
		model, err := transcribegcp.NewModel(ctx, cfg.SpeechLanguage)
		if err != nil {
			return nil, err
		}
		app.Model = model
		app.closeModel = model.Close
	default:
		model, err := whisper.NewClient(cfg.WhisperServerURL)
		if err != nil {
			return nil, err
		}
		app.Model = model
	}

	app.Service = transcribe.NewService(app.Model, cfg.AudioFetchBase)
	app.Handler = transcribe.NewHandler(app.Service)
	app.Router = server.NewTranscriberRouter(cfg, app.Handler)
	return app, nil
}

// Close releases model resources.
func (a *TranscriberApp) Close() error {
	if a == nil || a.closeModel == nil {
		return nil
	}
	return a.closeModel()
}
