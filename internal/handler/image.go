package handler

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/model"
)

type imageReq struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

// ListImages handles GET /v1/images. Soft-deleted rows are
// excluded.
func (h *CatalogHandler) ListImages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Images.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]imageResp, 0, len(items))
	for _, im := range items {
		out = append(out, toImageResp(im))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetImage handles GET /v1/images/:id.
func (h *CatalogHandler) GetImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	im, err := h.Images.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toImageResp(*im))
}

// CreateImage handles POST /v1/images. The path is recorded as
// given; file upload itself happens out of band.
func (h *CatalogHandler) CreateImage(c echo.Context) error {
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Path) == "" {
		return detail(c, http.StatusBadRequest, "path is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	im := &model.Image{Path: req.Path, Description: req.Description, IsDefault: req.IsDefault}
	if err := h.Images.Create(ctx, im); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toImageResp(*im))
}

// UpdateImage handles PUT /v1/images/:id. Only description and the
// default flag are mutable; the path is fixed at creation.
func (h *CatalogHandler) UpdateImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	im, err := h.Images.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	im.Description = req.Description
	im.IsDefault = req.IsDefault
	if err := h.Images.Update(ctx, im); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toImageResp(*im))
}

// DeleteImage handles DELETE /v1/images/:id. The row is
// soft-deleted; removing the backing file is best effort and a
// failure there never fails the request.
func (h *CatalogHandler) DeleteImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	path, err := h.Images.SoftDelete(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ could not remove image file %s: %v", path, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RestoreImage handles POST /v1/images/:id/restore. The database
// row comes back; the backing file may be gone.
func (h *CatalogHandler) RestoreImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Images.Restore(ctx, id); err != nil {
		return fail(c, err)
	}
	im, err := h.Images.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toImageResp(*im))
}
