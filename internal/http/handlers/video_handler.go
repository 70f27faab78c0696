// Video HTTP handlers.
//
// This file exposes REST endpoints for video resources:
//   - GET    /videos                 (list, paginated)
//   - GET    /videos/{id}            (fetch one)
//   - PUT    /videos/{id}            (create or replace source material)
//   - DELETE /videos/{id}            (remove)
//   - POST   /videos/{id}/generate   (full metadata bundle)
//   - POST   /videos/{id}/faqs       (fresh FAQ set)
//   - POST   /videos/{id}/faqs/more  (additional, de-duplicated FAQs)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. It also hosts the
// Handlers struct and the service contracts shared by the other handler
// files.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techiral/go-content-backend/internal/domain"
	"github.com/techiral/go-content-backend/internal/services"
	"github.com/techiral/go-content-backend/internal/store"
	"github.com/techiral/go-content-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// GenerationService defines the metadata generation operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GenerationService interface {
	// GenerateVideoMetadata produces and persists the full bundle for a video.
	GenerateVideoMetadata(ctx context.Context, id string) (*domain.Video, error)
	// GenerateBlogMetadata produces and persists the full bundle for a blog.
	GenerateBlogMetadata(ctx context.Context, id string) (*domain.Blog, error)
	// GenerateFAQs produces a fresh FAQ set for a video.
	GenerateFAQs(ctx context.Context, id string) (*domain.Video, error)
	// GenerateMoreFAQs appends novel FAQs to the video's existing set.
	GenerateMoreFAQs(ctx context.Context, id string) (*domain.Video, error)
}

// ChatService defines the chat session lifecycle consumed by HTTP handlers.
type ChatService interface {
	// Create opens a session scoped to an existing video or blog.
	Create(ctx context.Context, kind, subjectID string) (*domain.ChatSession, error)
	// Get returns a snapshot of the session with its turn history.
	Get(sessionID string) (*domain.ChatSession, error)
	// Send appends the user turn and returns the grounded reply turn.
	Send(ctx context.Context, sessionID, text string) (domain.ChatTurn, error)
	// End destroys the session.
	End(sessionID string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for videos, blogs, generation, and chat.
// It depends on the store and on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	store   store.Store
	genSvc  GenerationService
	chatSvc ChatService
}

// New constructs a Handlers instance bound to the given store and services.
func New(st store.Store, genSvc GenerationService, chatSvc ChatService) *Handlers {
	return &Handlers{store: st, genSvc: genSvc, chatSvc: chatSvc}
}

//
// DTOs
//

// PutVideoRequest is the JSON payload for creating or replacing a video's
// source material. Generated fields are never written through this endpoint;
// they come from the generation tasks.
type PutVideoRequest struct {
	// Title is the published video title.
	Title string `json:"title" binding:"required,min=1,max=255"`
	// Transcript is the full transcript used to ground generation and chat.
	Transcript string `json:"transcript" binding:"required,min=1"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListVideosResponse wraps a page of videos and pagination information.
type ListVideosResponse struct {
	Videos     []domain.Video `json:"videos"`
	Pagination Pagination     `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	if page = utils.AtoiDefault(c.Query("page"), defaultPage); page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// paginate slices a full newest-first list into the requested page.
func paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	total := int64(len(items))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := items[start:end]
	if out == nil {
		out = []T{}
	}
	return out, Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// failGenerate maps generation pipeline errors onto HTTP responses.
func failGenerate(c *gin.Context, err error) {
	var inc *services.IncompleteOutputError
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, services.ErrMalformedOutput):
		fail(c, http.StatusBadGateway, ErrCodeBadModelOutput, err.Error())
	case errors.As(err, &inc):
		fail(c, http.StatusBadGateway, ErrCodeBadModelOutput, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
	}
}

//
// Handlers
//

// ListVideos godoc
// @ID          listVideos
// @Summary     List videos (paginated)
// @Description Returns a page of videos, newest first.
// @Tags        Videos
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListVideosResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /videos [get]
func (h *Handlers) ListVideos(c *gin.Context) {
	page, pageSize := clampPagination(c)

	all, err := h.store.ListVideos(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	items, pg := paginate(all, page, pageSize)
	ok(c, http.StatusOK, ListVideosResponse{Videos: items, Pagination: pg})
}

// GetVideo godoc
// @ID          getVideo
// @Summary     Fetch a video
// @Description Returns one video with its generated metadata.
// @Tags        Videos
// @Produce     json
//
// @Param       id  path  string  true  "YouTube video id"
//
// @Success     200  {object}  domain.Video
// @Failure     404  {object}  handlers.ErrorResponse "Video not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /videos/{id} [get]
func (h *Handlers) GetVideo(c *gin.Context) {
	v, err := h.store.LoadVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, v)
}

// PutVideo godoc
// @ID          putVideo
// @Summary     Create or replace a video's source material
// @Description Upserts title and transcript; generated metadata already on
// @Description the video is preserved.
// @Tags        Videos
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "YouTube video id"
// @Param       body  body  handlers.PutVideoRequest  true  "Source material"
//
// @Success     200  {object}  domain.Video
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /videos/{id} [put]
func (h *Handlers) PutVideo(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "video id required")
		return
	}

	var req PutVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and transcript are required")
		return
	}

	ctx := c.Request.Context()
	v, err := h.store.LoadVideo(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		v = &domain.Video{ID: id}
	} else if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	v.Title = strings.TrimSpace(req.Title)
	v.Transcript = req.Transcript
	if err := h.store.SaveVideo(ctx, v); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, v)
}

// DeleteVideo godoc
// @ID          deleteVideo
// @Summary     Delete a video
// @Tags        Videos
//
// @Param       id  path  string  true  "YouTube video id"
//
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Video not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /videos/{id} [delete]
func (h *Handlers) DeleteVideo(c *gin.Context) {
	if err := h.store.DeleteVideo(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// GenerateVideoMetadata godoc
// @ID          generateVideoMetadata
// @Summary     Generate the full metadata bundle for a video
// @Description Runs one buffered completion against the video's transcript
// @Description and persists the validated bundle. Nothing is stored when the
// @Description model output is malformed or incomplete.
// @Tags        Videos
// @Produce     json
//
// @Param       id  path  string  true  "YouTube video id"
//
// @Success     200  {object}  domain.Video
// @Failure     404  {object}  handlers.ErrorResponse "Video not found"
// @Failure     502  {object}  handlers.ErrorResponse "Unusable model output"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /videos/{id}/generate [post]
func (h *Handlers) GenerateVideoMetadata(c *gin.Context) {
	v, err := h.genSvc.GenerateVideoMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		failGenerate(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// GenerateVideoFAQs godoc
// @ID          generateVideoFAQs
// @Summary     Generate a fresh FAQ set for a video
// @Tags        Videos
// @Produce     json
//
// @Param       id  path  string  true  "YouTube video id"
//
// @Success     200  {object}  domain.Video
// @Failure     404  {object}  handlers.ErrorResponse "Video not found"
// @Failure     502  {object}  handlers.ErrorResponse "Unusable model output"
// @Router      /videos/{id}/faqs [post]
func (h *Handlers) GenerateVideoFAQs(c *gin.Context) {
	v, err := h.genSvc.GenerateFAQs(c.Request.Context(), c.Param("id"))
	if err != nil {
		failGenerate(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// GenerateMoreVideoFAQs godoc
// @ID          generateMoreVideoFAQs
// @Summary     Generate additional FAQs for a video
// @Description Asks for questions beyond the stored set and appends only the
// @Description novel ones.
// @Tags        Videos
// @Produce     json
//
// @Param       id  path  string  true  "YouTube video id"
//
// @Success     200  {object}  domain.Video
// @Failure     404  {object}  handlers.ErrorResponse "Video not found"
// @Failure     502  {object}  handlers.ErrorResponse "Unusable model output"
// @Router      /videos/{id}/faqs/more [post]
func (h *Handlers) GenerateMoreVideoFAQs(c *gin.Context) {
	v, err := h.genSvc.GenerateMoreFAQs(c.Request.Context(), c.Param("id"))
	if err != nil {
		failGenerate(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}
