package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/repository"
)

// TaxonomyHandler serves categories and tags. Reads are public;
// category writes are admin-gated by the router.
type TaxonomyHandler struct {
	Categories *repository.CategoryRepo
	Tags       *repository.TagRepo
}

func NewTaxonomyHandler(categories *repository.CategoryRepo, tags *repository.TagRepo) *TaxonomyHandler {
	if categories == nil || tags == nil {
		panic("nil repository passed to NewTaxonomyHandler")
	}
	return &TaxonomyHandler{Categories: categories, Tags: tags}
}

// ListCategories returns all categories.
func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list categories failed"})
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory inserts a category.
func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Categories.Create(ctx, req.Name)
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteCategory removes an empty category; one that still has posts
// conflicts.
func (h *TaxonomyHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Categories.Delete(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "category still has posts"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTags returns all tags.
func (h *TaxonomyHandler) ListTags(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tags, err := h.Tags.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list tags failed"})
	}
	return c.JSON(http.StatusOK, tags)
}
