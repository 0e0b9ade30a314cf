package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/middleware"
	"github.com/JongDeug/blog-backend/internal/model"
	"github.com/JongDeug/blog-backend/internal/repository"
)

// PostHandler bundles repositories for post endpoints. Writes are
// admin-gated by the router; reads are public and see published posts
// only.
type PostHandler struct {
	Posts *repository.PostRepo
}

func NewPostHandler(posts *repository.PostRepo) *PostHandler {
	if posts == nil {
		panic("nil repository passed to NewPostHandler")
	}
	return &PostHandler{Posts: posts}
}

type postReq struct {
	CategoryID uint64   `json:"category_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Draft      bool     `json:"draft"`
	Tags       []string `json:"tags"`
}

type postResp struct {
	ID         uint64    `json:"id"`
	AuthorID   uint64    `json:"author_id"`
	CategoryID uint64    `json:"category_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	Summary    string    `json:"summary"`
	Draft      bool      `json:"draft"`
	Views      uint64    `json:"views"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func postToResp(p model.Post, withContent bool) postResp {
	r := postResp{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Summary:    p.Summary,
		Draft:      p.Draft,
		Views:      p.Views,
		Tags:       p.Tags,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if withContent {
		r.Content = p.Content
	}
	return r
}

// List returns published posts, optionally filtered by ?category=<id>.
func (h *PostHandler) List(c echo.Context) error {
	var categoryID uint64
	if s := c.QueryParam("category"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		}
		categoryID = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	posts, err := h.Posts.ListPublished(ctx, categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list posts failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, postToResp(p, false))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one published post with content and tags, bumping the
// view counter.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id, true)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	_ = h.Posts.IncrementViews(ctx, id)
	return c.JSON(http.StatusOK, postToResp(p, true))
}

// Create inserts a new post authored by the authenticated admin.
func (h *PostHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.Content == "" || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content/category_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Posts.Create(ctx, model.Post{
		AuthorID:   uid,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		Draft:      req.Draft,
		Tags:       req.Tags,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update rewrites a post's mutable fields and tag set.
func (h *PostHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Posts.Update(ctx, model.Post{
		ID:         id,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		Draft:      req.Draft,
		Tags:       req.Tags,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a post.
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Posts.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
