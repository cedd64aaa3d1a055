// Package render sequences a render request: fetch the source video, burn
// the compiled overlay chain into it, upload the result and record the
// outcome.
package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lyricforge/lyricforge/internal/ffmpeg"
	"github.com/lyricforge/lyricforge/internal/overlay"
	"github.com/lyricforge/lyricforge/internal/style"
	"github.com/lyricforge/lyricforge/internal/subtitle"
)

// Request is one render job.
type Request struct {
	VideoURL  string
	Lyrics    []subtitle.Cue
	Style     style.Config
	ProjectID string
}

// Renderer probes and encodes video files.
type Renderer interface {
	Probe(path string) (*ffmpeg.Metadata, error)
	Render(ctx context.Context, inputPath, outputPath string, chain *overlay.Chain, hasAudio bool) error
}

// ObjectStore publishes rendered files.
type ObjectStore interface {
	UploadVideo(ctx context.Context, path, folder string) (string, error)
}

// ProjectStore records render outcomes. All of its failures are treated as
// non-fatal.
type ProjectStore interface {
	SetFinal(ctx context.Context, id, finalURL string) error
	MarkError(ctx context.Context, id, message string) error
}

// Orchestrator runs render requests strictly in sequence: one fetch, one
// encode, one upload. Collaborators are injected; projects may be nil when
// no project store is configured.
type Orchestrator struct {
	renderer Renderer
	objects  ObjectStore
	projects ProjectStore
	client   *http.Client
	tempDir  string
	folder   string
	log      zerolog.Logger
}

// New creates an Orchestrator. projects may be nil.
func New(renderer Renderer, objects ObjectStore, projects ProjectStore, tempDir, folder string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		renderer: renderer,
		objects:  objects,
		projects: projects,
		client:   &http.Client{},
		tempDir:  tempDir,
		folder:   folder,
		log:      log,
	}
}

// Render executes the pipeline and returns the uploaded output URL. Any
// fatal error aborts the remaining steps; scratch files are removed best
// effort in every outcome. Bookkeeping never affects the returned result.
func (o *Orchestrator) Render(ctx context.Context, req Request) (string, error) {
	resolved, err := validate(req)
	if err != nil {
		return "", &StageError{Stage: StageInput, Err: err}
	}

	// Unique per request so concurrent renders on one host never collide.
	now := time.Now().UnixNano()
	inputPath := filepath.Join(o.tempDir, fmt.Sprintf("input-%d.mp4", now))
	outputPath := filepath.Join(o.tempDir, fmt.Sprintf("output-%d.mp4", now))
	defer o.cleanup(inputPath, outputPath)

	url, err := o.run(ctx, req, resolved, inputPath, outputPath)
	if err != nil {
		o.recordError(req.ProjectID, err)
		return "", err
	}

	o.recordFinal(req.ProjectID, url)
	return url, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request, resolved style.Resolved, inputPath, outputPath string) (string, error) {
	if err := o.fetch(ctx, req.VideoURL, inputPath); err != nil {
		return "", &StageError{Stage: StageFetch, Err: err}
	}

	meta, err := o.renderer.Probe(inputPath)
	if err != nil {
		return "", &StageError{Stage: StageRender, Err: err}
	}

	chain, err := overlay.Compile(req.Lyrics, resolved)
	if err != nil {
		return "", &StageError{Stage: StageRender, Err: err}
	}

	o.log.Info().
		Str("source", req.VideoURL).
		Int("cues", len(req.Lyrics)).
		Bool("audio", meta.HasAudio).
		Msg("rendering")

	if err := o.renderer.Render(ctx, inputPath, outputPath, chain, meta.HasAudio); err != nil {
		return "", &StageError{Stage: StageRender, Err: err}
	}

	url, err := o.objects.UploadVideo(ctx, outputPath, o.folder)
	if err != nil {
		return "", &StageError{Stage: StageUpload, Err: err}
	}

	return url, nil
}

// validate rejects bad input before any external call is made.
func validate(req Request) (style.Resolved, error) {
	if req.VideoURL == "" {
		return style.Resolved{}, errors.New("videoUrl is required")
	}
	if len(req.Lyrics) == 0 {
		return style.Resolved{}, errors.New("lyrics must be a non-empty sequence")
	}
	resolved, err := style.Resolve(req.Style)
	if err != nil {
		return style.Resolved{}, errors.Wrap(err, "invalid style")
	}
	return resolved, nil
}

func (o *Orchestrator) fetch(ctx context.Context, url, path string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "invalid source url")
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "failed to download source video")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("failed to download source video: status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create scratch file")
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return errors.Wrap(err, "failed to write source video")
	}
	return nil
}

// cleanup removes scratch files; failures to delete are swallowed.
func (o *Orchestrator) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			o.log.Warn().Str("path", path).Err(err).Msg("failed to remove scratch file")
		}
	}
}

// recordFinal persists the output location. Bookkeeping uses its own
// short deadline so it can never block the response, and its failures are
// logged and swallowed.
func (o *Orchestrator) recordFinal(projectID, url string) {
	if projectID == "" || o.projects == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.projects.SetFinal(ctx, projectID, url); err != nil {
		o.log.Warn().Str("project", projectID).Err(err).Msg("failed to record final url")
	}
}

func (o *Orchestrator) recordError(projectID string, renderErr error) {
	if projectID == "" || o.projects == nil {
		return
	}
	var stageErr *StageError
	if errors.As(renderErr, &stageErr) && stageErr.Stage == StageInput {
		// Nothing ran; leave the record untouched.
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.projects.MarkError(ctx, projectID, renderErr.Error()); err != nil {
		o.log.Warn().Str("project", projectID).Err(err).Msg("failed to record error status")
	}
}
