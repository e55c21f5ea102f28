package chat_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/bootstrap"
	"docchat-backend/internal/shared/config"
)

func newChatApp(t *testing.T, pipelineURL string) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		PublicBaseURL:   "http://api.test",
		PipelineURL:     pipelineURL,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadTestDocument(t *testing.T, router *gin.Engine, guestID string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fileWriter.Write([]byte("document body"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return created.DocumentID
}

func postChat(router *gin.Engine, guestID, documentID, text string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("document_id", documentID)
	form.Set("text", text)

	req := httptest.NewRequest(http.MethodPost, "/chat/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestChatRelaysWorkflowResponse(t *testing.T) {
	var received map[string]string
	pipeline := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"it is about testing"}`))
	}))
	defer pipeline.Close()

	app := newChatApp(t, pipeline.URL)
	docID := uploadTestDocument(t, app.Router, "guest-a")

	resp := postChat(app.Router, "guest-a", docID, "what is this about?")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "it is about testing") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if received["user_query"] != "what is this about?" {
		t.Fatalf("unexpected relayed query %q", received["user_query"])
	}
	if !strings.HasPrefix(received["document_url"], "http://api.test/files/") {
		t.Fatalf("unexpected relayed document_url %q", received["document_url"])
	}
}

func TestChatUnknownDocument(t *testing.T) {
	app := newChatApp(t, "")

	resp := postChat(app.Router, "guest-a", "0e7f4c9a-0000-1111-2222-333344445555", "hello")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Document not found.") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatForeignDocument(t *testing.T) {
	app := newChatApp(t, "")
	docID := uploadTestDocument(t, app.Router, "guest-a")

	resp := postChat(app.Router, "guest-b", docID, "hello")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "User not matched.") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatDispatchFailure(t *testing.T) {
	pipeline := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer pipeline.Close()

	app := newChatApp(t, pipeline.URL)
	docID := uploadTestDocument(t, app.Router, "guest-a")

	resp := postChat(app.Router, "guest-a", docID, "hello")
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestChatValidation(t *testing.T) {
	app := newChatApp(t, "")

	// No text and no audio.
	resp := postChat(app.Router, "guest-a", "0e7f4c9a-0000-1111-2222-333344445555", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty input, got %d", resp.Code)
	}

	// Malformed document id.
	resp = postChat(app.Router, "guest-a", "not-a-uuid", "hello")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", resp.Code)
	}
}
