package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

// CatalogHandler bundles repositories for catalog endpoints
// (pizzas, ingredients, categories, images).
type CatalogHandler struct {
	Pizzas      *repository.PizzaRepo
	Ingredients *repository.IngredientRepo
	Categories  *repository.CategoryRepo
	Images      *repository.ImageRepo
	Hooks       *service.Hooks
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(p *repository.PizzaRepo, i *repository.IngredientRepo, c *repository.CategoryRepo, im *repository.ImageRepo, hooks *service.Hooks) *CatalogHandler {
	if p == nil || i == nil || c == nil || im == nil || hooks == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Pizzas: p, Ingredients: i, Categories: c, Images: im, Hooks: hooks}
}

// detail writes the uniform error body used across the API.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"detail": msg})
}

// fail maps a domain error onto its fixed HTTP status. Unknown
// errors become a generic 500 so internal detail never leaks.
func fail(c echo.Context, err error) error {
	var ae *auth.Error
	switch {
	case errors.As(err, &ae):
		return detail(c, http.StatusUnauthorized, ae.Error())
	case errors.Is(err, repository.ErrForbidden):
		return detail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrConflict):
		return detail(c, http.StatusConflict, "conflict with existing state")
	case errors.Is(err, repository.ErrPizzaNotFound),
		errors.Is(err, repository.ErrIngredientNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrAPIKeyNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		return detail(c, http.StatusNotFound, err.Error())
	}
	return detail(c, http.StatusInternalServerError, "internal error")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// getUserID extracts the user_id placed in context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
