// Package api exposes the HTTP surface: the render endpoint and project
// bookkeeping.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lyricforge/lyricforge/internal/project"
	"github.com/lyricforge/lyricforge/internal/render"
	"github.com/lyricforge/lyricforge/internal/store"
	"github.com/lyricforge/lyricforge/internal/style"
	"github.com/lyricforge/lyricforge/internal/subtitle"
)

const subtitleFolder = "lyricforge/subtitles"

// Server wires the orchestrator, the object store and the optional project
// store into gin handlers.
type Server struct {
	orchestrator *render.Orchestrator
	objects      *store.ObjectStore // nil in local/test setups
	projects     *project.Store     // nil when bookkeeping is disabled
	timeout      time.Duration
	log          zerolog.Logger
}

// NewServer creates a Server. objects and projects may be nil.
func NewServer(orchestrator *render.Orchestrator, objects *store.ObjectStore, projects *project.Store, timeout time.Duration, log zerolog.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		objects:      objects,
		projects:     projects,
		timeout:      timeout,
		log:          log,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/render", s.handleRender)
		apiGroup.POST("/projects", s.handleCreateProject)
		apiGroup.GET("/projects/latest", s.handleLatestProject)
		apiGroup.GET("/health", s.handleHealth)
	}

	return router
}

type renderRequest struct {
	VideoURL  string         `json:"videoUrl"`
	Lyrics    []subtitle.Cue `json:"lyrics"`
	Style     style.Config   `json:"style"`
	ProjectID string         `json:"projectId"`
}

func (s *Server) handleRender(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	url, err := s.orchestrator.Render(ctx, render.Request{
		VideoURL:  req.VideoURL,
		Lyrics:    req.Lyrics,
		Style:     req.Style,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		status, message := mapRenderError(err)
		s.log.Error().Err(err).Int("status", status).Msg("render failed")
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// mapRenderError translates pipeline failures into transport statuses. The
// caller always receives a single structured message; diagnostic detail
// stays in the logs.
func mapRenderError(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "render timed out"
	}

	var stageErr *render.StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case render.StageInput:
			return http.StatusBadRequest, stageErr.Err.Error()
		case render.StageFetch:
			return http.StatusBadGateway, stageErr.Err.Error()
		default:
			return http.StatusInternalServerError, stageErr.Err.Error()
		}
	}

	return http.StatusInternalServerError, "render failed"
}

type createProjectRequest struct {
	VideoURL string         `json:"videoUrl"`
	Srt      string         `json:"srt"` // raw SRT document, optional
	Lyrics   []subtitle.Cue `json:"lyrics"`
	Style    style.Config   `json:"style"`
	Status   string         `json:"status"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	if s.projects == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "project store is not configured"})
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.VideoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoUrl is required"})
		return
	}
	if err := req.Style.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lyrics := req.Lyrics
	if len(lyrics) == 0 && req.Srt != "" {
		lyrics = subtitle.Parse(req.Srt)
	}

	// Keep the subtitle document next to the video; losing it only costs
	// the srtUrl field.
	srtURL := ""
	if s.objects != nil {
		doc := req.Srt
		if doc == "" && len(lyrics) > 0 {
			doc = subtitle.Format(lyrics)
		}
		if doc != "" {
			url, err := s.objects.UploadRaw(c.Request.Context(), strings.NewReader(doc), subtitleFolder)
			if err != nil {
				s.log.Warn().Err(err).Msg("subtitle upload failed")
			} else {
				srtURL = url
			}
		}
	}

	id, err := s.projects.Create(c.Request.Context(), project.Record{
		VideoURL: req.VideoURL,
		SrtURL:   srtURL,
		Lyrics:   lyrics,
		Style:    req.Style,
		Status:   req.Status,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("project create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleLatestProject(c *gin.Context) {
	if s.projects == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "project store is not configured"})
		return
	}

	rec, err := s.projects.MostRecent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no projects found"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"projects": s.projects != nil,
	})
}
