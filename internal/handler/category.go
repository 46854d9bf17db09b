package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

type categoryReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *uint64 `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

// ListCategories handles GET /v1/categories. Soft-deleted rows are
// excluded.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Categories.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toCategoryResps(items)})
}

// SearchCategories handles GET /v1/categories/search?query=.
// Matching is case-insensitive over name and description.
func (h *CatalogHandler) SearchCategories(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("query"))
	if q == "" {
		return detail(c, http.StatusBadRequest, "query is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Categories.Search(ctx, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toCategoryResps(items)})
}

// GetCategory handles GET /v1/categories/:id.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toCategoryResp(*cat))
}

// CategoryChildren handles GET /v1/categories/:id/children and
// returns the direct descendants only.
func (h *CatalogHandler) CategoryChildren(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, id, false); err != nil {
		return fail(c, err)
	}
	items, err := h.Categories.Children(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toCategoryResps(items)})
}

// CreateCategory handles POST /v1/categories. A parent, when given,
// must exist and not be soft-deleted.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return detail(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.ParentID != nil {
		if _, err := h.Categories.GetByID(ctx, *req.ParentID, false); err != nil {
			if err == repository.ErrCategoryNotFound {
				return detail(c, http.StatusBadRequest, "parent category does not exist")
			}
			return fail(c, err)
		}
	}

	cat := &model.Category{Name: req.Name, Description: req.Description, ParentID: req.ParentID, IsActive: true}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := h.Categories.Create(ctx, cat); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toCategoryResp(*cat))
}

// UpdateCategory handles PUT /v1/categories/:id. A category may not
// become its own parent.
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return detail(c, http.StatusBadRequest, "name is required")
	}
	if req.ParentID != nil && *req.ParentID == id {
		return detail(c, http.StatusBadRequest, "category cannot be its own parent")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Categories.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	if req.ParentID != nil {
		if _, err := h.Categories.GetByID(ctx, *req.ParentID, false); err != nil {
			if err == repository.ErrCategoryNotFound {
				return detail(c, http.StatusBadRequest, "parent category does not exist")
			}
			return fail(c, err)
		}
	}

	cur.Name = req.Name
	cur.Description = req.Description
	cur.ParentID = req.ParentID
	if req.IsActive != nil {
		cur.IsActive = *req.IsActive
	}
	if err := h.Categories.Update(ctx, cur); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toCategoryResp(*cur))
}

// DeleteCategory handles DELETE /v1/categories/:id. Soft delete;
// pizzas keep their link rows and the category can be restored.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.SoftDelete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RestoreCategory handles POST /v1/categories/:id/restore.
func (h *CatalogHandler) RestoreCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Categories.Restore(ctx, id); err != nil {
		return fail(c, err)
	}
	cat, err := h.Categories.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toCategoryResp(*cat))
}

func toCategoryResps(items []model.Category) []categoryResp {
	out := make([]categoryResp, 0, len(items))
	for _, cat := range items {
		out = append(out, toCategoryResp(cat))
	}
	return out
}
