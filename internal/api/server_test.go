package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lyricforge/lyricforge/internal/ffmpeg"
	"github.com/lyricforge/lyricforge/internal/overlay"
	"github.com/lyricforge/lyricforge/internal/render"
)

type stubRenderer struct{}

func (stubRenderer) Probe(path string) (*ffmpeg.Metadata, error) {
	return &ffmpeg.Metadata{Duration: 5, Width: 640, Height: 360}, nil
}

func (stubRenderer) Render(ctx context.Context, inputPath, outputPath string, chain *overlay.Chain, hasAudio bool) error {
	return os.WriteFile(outputPath, []byte("x"), 0o644)
}

type stubObjects struct{}

func (stubObjects) UploadVideo(ctx context.Context, path, folder string) (string, error) {
	return "https://cdn.example/out.mp4", nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	orchestrator := render.New(stubRenderer{}, stubObjects{}, nil, t.TempDir(), "outputs", zerolog.Nop())
	return NewServer(orchestrator, nil, nil, 2*time.Minute, zerolog.Nop()).Router()
}

func TestRenderEndpointRejectsEmptyLyrics(t *testing.T) {
	router := newTestRouter(t)

	body := `{"videoUrl":"http://example.com/in.mp4","lyrics":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("response has no error field: %s", w.Body.String())
	}
}

func TestRenderEndpointRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRenderEndpointSuccess(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video bytes"))
	}))
	defer source.Close()

	router := newTestRouter(t)

	body := `{"videoUrl":"` + source.URL + `","lyrics":[{"index":1,"start":0.5,"end":3,"text":"Hello"}],` +
		`"style":{"color":"#ff0000","animation":"fade","align":"center","position":"bottom","opacity":0.9}}`
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "https://cdn.example/out.mp4") {
		t.Errorf("response missing url: %s", w.Body.String())
	}
}

func TestProjectEndpointsWithoutStore(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/latest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("latest status = %d, want 503", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{"videoUrl":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("create status = %d, want 503", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
