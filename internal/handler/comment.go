package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/middleware"
	"github.com/JongDeug/blog-backend/internal/model"
	"github.com/JongDeug/blog-backend/internal/queue"
	"github.com/JongDeug/blog-backend/internal/repository"
	queue_publisher "github.com/JongDeug/blog-backend/internal/service"
)

// CommentHandler serves comments. Listing is public; writing requires
// an authenticated user. A new comment publishes a notification event
// so the broker consumer can alert the post author.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Posts    *repository.PostRepo
}

func NewCommentHandler(comments *repository.CommentRepo, posts *repository.PostRepo) *CommentHandler {
	if comments == nil || posts == nil {
		panic("nil repository passed to NewCommentHandler")
	}
	return &CommentHandler{Comments: comments, Posts: posts}
}

type commentReq struct {
	Content string `json:"content"`
}

// ListByPost returns all comments of a published post.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Posts.GetByID(ctx, postID, true); errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list comments failed"})
	}
	return c.JSON(http.StatusOK, comments)
}

// Create adds a comment to a published post and publishes a
// comment.created event. Event delivery is best effort; a broker
// outage never fails the request.
func (h *CommentHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID, true)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}

	id, err := h.Comments.Create(ctx, model.Comment{
		PostID:   postID,
		AuthorID: uid,
		Content:  strings.TrimSpace(req.Content),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}

	_ = queue_publisher.PublishCommentCreated(ctx, queue.CommentCreatedEvent{
		CommentID:    id,
		PostID:       postID,
		PostTitle:    post.Title,
		PostAuthorID: post.AuthorID,
		AuthorID:     uid,
		Content:      req.Content,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Delete removes a comment. Users may delete their own comments;
// admins may delete any.
func (h *CommentHandler) Delete(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	role, _ := middleware.RoleOf(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load comment failed"})
	}
	if cm.AuthorID != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete comment failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
