package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docchat/internal/llm"
	"docchat/internal/loader"
	"docchat/internal/session"
	"docchat/internal/vectorstore"
)

type fakeEmbedder struct {
	dim  int
	seen map[string]int
}

func newFakeEmbedder(dim int) *fakeEmbedder {
	return &fakeEmbedder{dim: dim, seen: map[string]int{}}
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		axis, ok := f.seen[text]
		if !ok {
			axis = len(f.seen) % f.dim
			f.seen[text] = axis
		}
		vec := make([]float32, f.dim)
		vec[axis] = 1
		out[i] = vec
	}
	return out, nil
}

type fakeGenerator struct {
	answer string
}

func (f *fakeGenerator) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return f.answer, nil
}

func newTestSession(t *testing.T, answer string) *session.Session {
	t.Helper()
	sess, err := session.New(newFakeEmbedder(8), &fakeGenerator{answer: answer}, vectorstore.NewMemoryStore(), session.Options{
		ChunkSize:    64,
		ChunkOverlap: 8,
		TopK:         2,
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return sess
}

func loadTestSource(t *testing.T, sess *session.Session) {
	t.Helper()
	units := []loader.TextUnit{{Content: "The sky is blue.", Source: "sky.txt", Page: -1}}
	if result := sess.LoadSource(context.Background(), "File: sky.txt", units); !result.OK {
		t.Fatalf("LoadSource: %v", result.Err)
	}
}

func TestQueryHandler_NoActiveSession(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewQueryHandler(sess)

	body, _ := json.Marshal(QueryRequest{Question: "anything?"})
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 without a session, got %d", rec.Code)
	}
}

func TestQueryHandler_BadRequest(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewQueryHandler(sess)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{not json"},
		{name: "empty question", body: `{"question": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestQueryHandler_Success(t *testing.T) {
	sess := newTestSession(t, "The sky is blue.")
	loadTestSource(t, sess)
	handler := NewQueryHandler(sess)

	body, _ := json.Marshal(QueryRequest{Question: "What color is the sky?"})
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp QueryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "The sky is blue." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if len(resp.References) == 0 {
		t.Errorf("expected references in response")
	}
	if len(resp.References) > 0 && resp.References[0].Source != "sky.txt" {
		t.Errorf("unexpected reference source %q", resp.References[0].Source)
	}
}

func TestSourceURLHandler_BadRequest(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewSourceURLHandler(loader.New(time.Second), sess)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{not json"},
		{name: "missing url", body: `{"url": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/source/url", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestSourceURLHandler_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>The sky is blue and vast.</p></body></html>"))
	}))
	defer server.Close()

	sess := newTestSession(t, "unused")
	handler := NewSourceURLHandler(loader.New(5*time.Second), sess)

	body, _ := json.Marshal(SourceURLRequest{URL: server.URL})
	req := httptest.NewRequest(http.MethodPost, "/api/source/url", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp LoadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Source, "URL: ") {
		t.Errorf("unexpected source label %q", resp.Source)
	}
	if resp.ChunkCount == 0 {
		t.Errorf("expected at least one chunk")
	}
}

func TestSourceURLHandler_FetchFailureResetsSession(t *testing.T) {
	sess := newTestSession(t, "The sky is blue.")
	loadTestSource(t, sess)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	handler := NewSourceURLHandler(loader.New(5*time.Second), sess)

	body, _ := json.Marshal(SourceURLRequest{URL: server.URL + "/missing"})
	req := httptest.NewRequest(http.MethodPost, "/api/source/url", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for failed fetch, got %d", rec.Code)
	}

	// The old source must not survive the failed replacement.
	info := sess.Info()
	if info.SourceLabel != "" || info.ChunkCount != 0 {
		t.Errorf("session not reset after failed load: %+v", info)
	}
}

func TestSourceFileHandler_Upload(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewSourceFileHandler(loader.New(time.Second), sess)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte("The sky is blue and the grass is green.")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/source/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp LoadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Source != "File: notes.txt" {
		t.Errorf("unexpected source label %q", resp.Source)
	}
}

func TestSourceFileHandler_UnsupportedType(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewSourceFileHandler(loader.New(time.Second), sess)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "binary.exe")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte{0x4d, 0x5a}); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/source/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported type, got %d", rec.Code)
	}
}

func TestSourceFileHandler_MissingFile(t *testing.T) {
	sess := newTestSession(t, "unused")
	handler := NewSourceFileHandler(loader.New(time.Second), sess)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "value")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/source/file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing file field, got %d", rec.Code)
	}
}

func TestSessionHandler_EmptyAndLoaded(t *testing.T) {
	sess := newTestSession(t, "The sky is blue.")
	handler := NewSessionHandler(sess)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var empty SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&empty); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if empty.Source != "" || empty.ChunkCount != 0 || len(empty.History) != 0 {
		t.Errorf("expected empty session, got %+v", empty)
	}

	loadTestSource(t, sess)
	if result := sess.Ask(context.Background(), "What color is the sky?"); !result.OK {
		t.Fatalf("Ask: %v", result.Err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	var loaded SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if loaded.Source != "File: sky.txt" {
		t.Errorf("unexpected source %q", loaded.Source)
	}
	if loaded.ChunkCount == 0 {
		t.Errorf("expected chunk count > 0")
	}
	if len(loaded.History) != 2 {
		t.Errorf("expected 2 history turns, got %d", len(loaded.History))
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler("gemini", "memory")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Provider != "gemini" || resp.Backend != "memory" {
		t.Errorf("unexpected health payload: %+v", resp)
	}
}
