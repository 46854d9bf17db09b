package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/model"
	"pizzeria/internal/queue"
	"pizzeria/internal/repository"
	"pizzeria/internal/validate"
)

// ----- DTOs -----

type pizzaCreateReq struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Vegetarian   bool     `json:"vegetarian"`
	Available    bool     `json:"available"`
	Ingredients  []uint64 `json:"ingredients"`
	Categories   []uint64 `json:"categories"`
	CustomImages []uint64 `json:"custom_images"`
}

type pizzaUpdateReq struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Vegetarian   *bool    `json:"vegetarian"`
	Available    *bool    `json:"available"`
	Ingredients  []uint64 `json:"ingredients"`
	Categories   []uint64 `json:"categories"`
	CustomImages []uint64 `json:"custom_images"`
}

type ingredientResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Allergens   string  `json:"allergens"`
	Cost        float64 `json:"cost"`
}

type categoryResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *uint64 `json:"parent_id,omitempty"`
	IsActive    bool    `json:"is_active"`
}

type imageResp struct {
	ID          uint64 `json:"id"`
	Path        string `json:"path"`
	Description string `json:"description"`
	IsDefault   bool   `json:"is_default"`
}

// pizzaListItem is the flat shape used in list responses; the
// materialized collections only appear on the detail endpoint.
type pizzaListItem struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Vegetarian  bool    `json:"vegetarian"`
	Available   bool    `json:"available"`
}

type pizzaResp struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Vegetarian  bool             `json:"vegetarian"`
	Available   bool             `json:"available"`
	Ingredients []ingredientResp `json:"ingredients"`
	Categories  []categoryResp   `json:"categories"`
	Images      []imageResp      `json:"images"`
}

type pizzaHistoryResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Vegetarian   bool      `json:"vegetarian"`
	Available    bool      `json:"available"`
	DateModified time.Time `json:"date_modified"`
}

func toIngredientResp(i model.Ingredient) ingredientResp {
	return ingredientResp{ID: i.ID, Name: i.Name, Description: i.Description, Type: i.Type, Allergens: i.Allergens, Cost: i.Cost}
}

func toCategoryResp(c model.Category) categoryResp {
	return categoryResp{ID: c.ID, Name: c.Name, Description: c.Description, ParentID: c.ParentID, IsActive: c.IsActive}
}

func toImageResp(im model.Image) imageResp {
	return imageResp{ID: im.ID, Path: im.Path, Description: im.Description, IsDefault: im.IsDefault}
}

func toPizzaResp(d *repository.PizzaDetail) pizzaResp {
	out := pizzaResp{
		ID: d.ID, Name: d.Name, Description: d.Description, Price: d.Price,
		Vegetarian: d.Vegetarian, Available: d.Available,
		Ingredients: []ingredientResp{}, Categories: []categoryResp{}, Images: []imageResp{},
	}
	for _, i := range d.Ingredients {
		out.Ingredients = append(out.Ingredients, toIngredientResp(i))
	}
	for _, c := range d.Categories {
		out.Categories = append(out.Categories, toCategoryResp(c))
	}
	for _, im := range d.Images {
		out.Images = append(out.Images, toImageResp(im))
	}
	return out
}

// ListPizzas handles GET /v1/pizzas. Soft-deleted pizzas are
// excluded; name/vegetarian/available/category/price filters come
// from query parameters.
func (h *CatalogHandler) ListPizzas(c echo.Context) error {
	f := repository.PizzaFilter{Name: c.QueryParam("name")}
	if v := c.QueryParam("vegetarian"); v != "" {
		b := v == "true" || v == "1"
		f.Vegetarian = &b
	}
	if v := c.QueryParam("available"); v != "" {
		b := v == "true" || v == "1"
		f.Available = &b
	}
	if v := c.QueryParam("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.CategoryID = id
		}
	}
	f.MinPrice, _ = strconv.ParseFloat(c.QueryParam("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("max_price"), 64)
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Pizzas.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	out := make([]pizzaListItem, 0, len(items))
	for _, p := range items {
		out = append(out, pizzaListItem{
			ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price,
			Vegetarian: p.Vegetarian, Available: p.Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "total": total})
}

// GetPizza handles GET /v1/pizzas/:id with fully materialized
// ingredient/category/image collections.
func (h *CatalogHandler) GetPizza(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Pizzas.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPizzaResp(d))
}

// CreatePizza handles POST /v1/pizzas. All referenced ids are
// resolved and the payload fully validated before any write; a
// rejected payload persists nothing.
func (h *CatalogHandler) CreatePizza(c echo.Context) error {
	var req pizzaCreateReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ingredients, err := h.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return badRef(c, err)
	}
	if errs := validate.Pizza(validate.PizzaInput{
		Name: req.Name, Price: req.Price, Vegetarian: req.Vegetarian, Ingredients: ingredients,
	}); len(errs) > 0 {
		return detail(c, http.StatusBadRequest, errs.Detail())
	}
	if err := h.checkCategories(ctx, req.Categories); err != nil {
		return badRef(c, err)
	}
	if err := h.checkImages(ctx, req.CustomImages); err != nil {
		return badRef(c, err)
	}

	p := &model.Pizza{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Vegetarian:  req.Vegetarian,
		Available:   req.Available,
	}
	if err := h.Pizzas.Create(ctx, p, req.Ingredients, req.Categories, req.CustomImages); err != nil {
		return fail(c, err)
	}
	d, err := h.Pizzas.GetByID(ctx, p.ID, false)
	if err != nil {
		return fail(c, err)
	}

	if uid, err := getUserID(c); err == nil {
		h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "pizza.created",
			Detail: fmt.Sprintf("pizza %q created", p.Name)})
	}

	return c.JSON(http.StatusOK, toPizzaResp(d))
}

// UpdatePizza handles PUT/PATCH /v1/pizzas/:id. The current state
// is loaded, the partial payload merged on top, the result
// validated, and only then applied; the repository snapshots the
// pre-update state to pizza_history in the same transaction.
func (h *CatalogHandler) UpdatePizza(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	var req pizzaUpdateReq
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Pizzas.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}

	merged := d.Pizza
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Price != nil {
		merged.Price = *req.Price
	}
	if req.Vegetarian != nil {
		merged.Vegetarian = *req.Vegetarian
	}
	if req.Available != nil {
		merged.Available = *req.Available
	}

	ingredients := d.Ingredients
	if req.Ingredients != nil {
		if ingredients, err = h.resolveIngredients(ctx, req.Ingredients); err != nil {
			return badRef(c, err)
		}
	}
	if errs := validate.Pizza(validate.PizzaInput{
		Name: merged.Name, Price: merged.Price, Vegetarian: merged.Vegetarian, Ingredients: ingredients,
	}); len(errs) > 0 {
		return detail(c, http.StatusBadRequest, errs.Detail())
	}
	if req.Categories != nil {
		if err := h.checkCategories(ctx, req.Categories); err != nil {
			return badRef(c, err)
		}
	}
	if req.CustomImages != nil {
		if err := h.checkImages(ctx, req.CustomImages); err != nil {
			return badRef(c, err)
		}
	}

	if err := h.Pizzas.Update(ctx, &merged, req.Ingredients, req.Categories, req.CustomImages); err != nil {
		return fail(c, err)
	}
	fresh, err := h.Pizzas.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}

	if uid, err := getUserID(c); err == nil {
		h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "pizza.updated",
			Detail: fmt.Sprintf("pizza %q updated", merged.Name)})
	}

	return c.JSON(http.StatusOK, toPizzaResp(fresh))
}

// DeletePizza handles DELETE /v1/pizzas/:id. The pizza is
// soft-deleted and its custom image links cleared; the image rows
// survive.
func (h *CatalogHandler) DeletePizza(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Pizzas.SoftDelete(ctx, id); err != nil {
		return fail(c, err)
	}

	if uid, err := getUserID(c); err == nil {
		h.Hooks.Fire(ctx, queue.ActivityEvent{UserID: uid, Action: "pizza.deleted",
			Detail: fmt.Sprintf("pizza %d deleted", id)})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RestorePizza handles POST /v1/pizzas/:id/restore.
func (h *CatalogHandler) RestorePizza(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Pizzas.Restore(ctx, id); err != nil {
		return fail(c, err)
	}
	d, err := h.Pizzas.GetByID(ctx, id, false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toPizzaResp(d))
}

// PizzaHistory handles GET /v1/pizzas/:id/history and returns the
// append-only snapshots, newest first.
func (h *CatalogHandler) PizzaHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The pizza must exist, deleted or not; history outlives soft deletion.
	if _, err := h.Pizzas.GetByID(ctx, id, true); err != nil {
		return fail(c, err)
	}
	rows, err := h.Pizzas.History(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	out := make([]pizzaHistoryResp, 0, len(rows))
	for _, hrow := range rows {
		out = append(out, pizzaHistoryResp{
			ID: hrow.ID, Name: hrow.Name, Description: hrow.Description, Price: hrow.Price,
			Vegetarian: hrow.Vegetarian, Available: hrow.Available, DateModified: hrow.DateModified,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// errBadReference marks a dangling id in a payload; it maps to 400
// rather than the 404 a missing route target gets.
type errBadReference struct{ msg string }

func (e errBadReference) Error() string { return e.msg }

func badRef(c echo.Context, err error) error {
	var br errBadReference
	if errors.As(err, &br) {
		return detail(c, http.StatusBadRequest, br.msg)
	}
	return fail(c, err)
}

// resolveIngredients loads the referenced ingredient rows and
// verifies every id resolved.
func (h *CatalogHandler) resolveIngredients(ctx context.Context, ids []uint64) ([]model.Ingredient, error) {
	ingredients, err := h.Ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(uniqueIDs(ids)) {
		return nil, errBadReference{"one or more referenced ingredients do not exist"}
	}
	return ingredients, nil
}

func (h *CatalogHandler) checkCategories(ctx context.Context, ids []uint64) error {
	for _, id := range ids {
		if _, err := h.Categories.GetByID(ctx, id, false); err != nil {
			if err == repository.ErrCategoryNotFound {
				return errBadReference{fmt.Sprintf("category %d does not exist", id)}
			}
			return err
		}
	}
	return nil
}

func (h *CatalogHandler) checkImages(ctx context.Context, ids []uint64) error {
	for _, id := range ids {
		if _, err := h.Images.GetByID(ctx, id, false); err != nil {
			if err == repository.ErrImageNotFound {
				return errBadReference{fmt.Sprintf("image %d does not exist", id)}
			}
			return err
		}
	}
	return nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
