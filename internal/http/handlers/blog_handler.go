// Blog HTTP handlers.
//
// This file exposes REST endpoints for blog resources:
//   - GET    /blogs                (list, paginated)
//   - GET    /blogs/{id}           (fetch one)
//   - PUT    /blogs/{id}           (create or replace source material)
//   - DELETE /blogs/{id}           (remove)
//   - POST   /blogs/{id}/generate  (full metadata bundle)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techiral/go-content-backend/internal/domain"
	"github.com/techiral/go-content-backend/internal/store"
)

// PutBlogRequest is the JSON payload for creating or replacing a blog's
// source material.
type PutBlogRequest struct {
	// Title is the article title.
	Title string `json:"title" binding:"required,min=1,max=255"`
	// Content is the full article body used to ground generation and chat.
	Content string `json:"content" binding:"required,min=1"`
	// MediumURL optionally links the canonical Medium post.
	MediumURL string `json:"mediumUrl" binding:"omitempty,url,max=512"`
	// ThumbnailURL optionally sets the cover image.
	ThumbnailURL string `json:"thumbnailUrl" binding:"omitempty,url,max=512"`
}

// ListBlogsResponse wraps a page of blogs and pagination information.
type ListBlogsResponse struct {
	Blogs      []domain.Blog `json:"blogs"`
	Pagination Pagination    `json:"pagination"`
}

// ListBlogs godoc
// @ID          listBlogs
// @Summary     List blogs (paginated)
// @Description Returns a page of blogs, newest first.
// @Tags        Blogs
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListBlogsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs [get]
func (h *Handlers) ListBlogs(c *gin.Context) {
	page, pageSize := clampPagination(c)

	all, err := h.store.ListBlogs(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	items, pg := paginate(all, page, pageSize)
	ok(c, http.StatusOK, ListBlogsResponse{Blogs: items, Pagination: pg})
}

// GetBlog godoc
// @ID          getBlog
// @Summary     Fetch a blog
// @Tags        Blogs
// @Produce     json
//
// @Param       id  path  string  true  "Blog slug"
//
// @Success     200  {object}  domain.Blog
// @Failure     404  {object}  handlers.ErrorResponse "Blog not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs/{id} [get]
func (h *Handlers) GetBlog(c *gin.Context) {
	b, err := h.store.LoadBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "blog not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// PutBlog godoc
// @ID          putBlog
// @Summary     Create or replace a blog's source material
// @Description Upserts title, content, and links; generated metadata already
// @Description on the blog is preserved.
// @Tags        Blogs
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Blog slug"
// @Param       body  body  handlers.PutBlogRequest  true  "Source material"
//
// @Success     200  {object}  domain.Blog
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs/{id} [put]
func (h *Handlers) PutBlog(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "blog id required")
		return
	}

	var req PutBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and content are required")
		return
	}

	ctx := c.Request.Context()
	b, err := h.store.LoadBlog(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		b = &domain.Blog{ID: id}
	} else if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	b.Title = strings.TrimSpace(req.Title)
	b.Content = req.Content
	if req.MediumURL != "" {
		b.MediumURL = req.MediumURL
	}
	if req.ThumbnailURL != "" {
		b.ThumbnailURL = req.ThumbnailURL
	}
	if err := h.store.SaveBlog(ctx, b); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// DeleteBlog godoc
// @ID          deleteBlog
// @Summary     Delete a blog
// @Tags        Blogs
//
// @Param       id  path  string  true  "Blog slug"
//
// @Success     204  {string}  string "No Content"
// @Failure     404  {object}  handlers.ErrorResponse "Blog not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs/{id} [delete]
func (h *Handlers) DeleteBlog(c *gin.Context) {
	if err := h.store.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "blog not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// GenerateBlogMetadata godoc
// @ID          generateBlogMetadata
// @Summary     Generate the full metadata bundle for a blog
// @Description Runs one buffered completion against the blog's content and
// @Description persists the validated bundle. Nothing is stored when the
// @Description model output is malformed or incomplete.
// @Tags        Blogs
// @Produce     json
//
// @Param       id  path  string  true  "Blog slug"
//
// @Success     200  {object}  domain.Blog
// @Failure     404  {object}  handlers.ErrorResponse "Blog not found"
// @Failure     502  {object}  handlers.ErrorResponse "Unusable model output"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /blogs/{id}/generate [post]
func (h *Handlers) GenerateBlogMetadata(c *gin.Context) {
	b, err := h.genSvc.GenerateBlogMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		failGenerate(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}
