package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/model"
	"pizzeria/internal/validate"
)

type ingredientReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Allergens   string  `json:"allergens"`
	Cost        float64 `json:"cost"`
}

// ListIngredients handles GET /v1/ingredients with optional
// type/name filters.
func (h *CatalogHandler) ListIngredients(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Ingredients.List(ctx, c.QueryParam("type"), c.QueryParam("name"))
	if err != nil {
		return fail(c, err)
	}
	out := make([]ingredientResp, 0, len(items))
	for _, i := range items {
		out = append(out, toIngredientResp(i))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetIngredient handles GET /v1/ingredients/:id.
func (h *CatalogHandler) GetIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	i, err := h.Ingredients.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toIngredientResp(*i))
}

// CreateIngredient handles POST /v1/ingredients. Type must be one
// of the known kinds; allergens is a comma-separated list.
func (h *CatalogHandler) CreateIngredient(c echo.Context) error {
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Ingredient(req.Name, req.Type, req.Allergens); len(errs) > 0 {
		return detail(c, http.StatusBadRequest, errs.Detail())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	i := &model.Ingredient{
		Name: req.Name, Description: req.Description, Type: req.Type,
		Allergens: req.Allergens, Cost: req.Cost,
	}
	if err := h.Ingredients.Create(ctx, i); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toIngredientResp(*i))
}

// UpdateIngredient handles PUT /v1/ingredients/:id with a full
// replacement payload.
func (h *CatalogHandler) UpdateIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req ingredientReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Ingredient(req.Name, req.Type, req.Allergens); len(errs) > 0 {
		return detail(c, http.StatusBadRequest, errs.Detail())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	i := &model.Ingredient{
		ID: id, Name: req.Name, Description: req.Description, Type: req.Type,
		Allergens: req.Allergens, Cost: req.Cost,
	}
	if err := h.Ingredients.Update(ctx, i); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toIngredientResp(*i))
}

// DeleteIngredient handles DELETE /v1/ingredients/:id. Ingredients
// delete hard, but only when no pizza still references them; a
// referenced ingredient returns 409.
func (h *CatalogHandler) DeleteIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Ingredients.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
