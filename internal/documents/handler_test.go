package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/bootstrap"
	"docchat-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://api.test",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadDocument(t *testing.T, router *gin.Engine, guestID, fileName, content string) documentEnvelope {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created documentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created
}

type documentEnvelope struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	FileURL    string `json:"fileUrl"`
}

func TestDocumentsUploadAndDetail(t *testing.T) {
	app := newTestApp(t)

	created := uploadDocument(t, app.Router, "guest-a", "notes.txt", "hello world")
	if created.DocumentID == "" {
		t.Fatalf("expected documentId, got empty")
	}
	if created.Title != "notes.txt" {
		t.Fatalf("expected title notes.txt, got %s", created.Title)
	}
	if !strings.HasPrefix(created.FileURL, "http://api.test/files/") {
		t.Fatalf("unexpected fileUrl %s", created.FileURL)
	}

	req := httptest.NewRequest(http.MethodGet, "/documents/"+created.DocumentID, nil)
	req.Header.Set("X-Guest-Id", "guest-a")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var fetched documentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode detail response: %v", err)
	}
	if fetched.DocumentID != created.DocumentID {
		t.Fatalf("expected documentId %s, got %s", created.DocumentID, fetched.DocumentID)
	}
}

func TestDocumentDetailHidesForeignDocuments(t *testing.T) {
	app := newTestApp(t)

	created := uploadDocument(t, app.Router, "guest-a", "notes.txt", "hello world")

	req := httptest.NewRequest(http.MethodGet, "/documents/"+created.DocumentID, nil)
	req.Header.Set("X-Guest-Id", "guest-b")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign document, got %d", resp.Code)
	}
}

func TestDocumentDetailUnknownID(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/documents/0e7f4c9a-0000-1111-2222-333344445555", nil)
	req.Header.Set("X-Guest-Id", "guest-a")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestUploadRequiresIdentity(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader(""))
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestFileServingIsPublic(t *testing.T) {
	app := newTestApp(t)

	created := uploadDocument(t, app.Router, "guest-a", "notes.txt", "hello world")
	key := strings.TrimPrefix(created.FileURL, "http://api.test")

	req := httptest.NewRequest(http.MethodGet, key, nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Body.String() != "hello world" {
		t.Fatalf("unexpected file body %q", resp.Body.String())
	}
}
