package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"pizzeria/internal/repository"
	"pizzeria/internal/service"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewCatalogHandler(
		repository.NewPizzaRepo(db), repository.NewIngredientRepo(db),
		repository.NewCategoryRepo(db), repository.NewImageRepo(db),
		&service.Hooks{})
	return h, mock
}

func ingredientRows(pairs ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "description", "type", "allergens", "cost"})
	for n, p := range pairs {
		rows.AddRow(n+1, p[0], "", p[1], "", 0.5)
	}
	return rows
}

func TestCreatePizzaTooFewIngredientsNoInsert(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery("SELECT .+ FROM ingredients WHERE id IN").
		WithArgs(1, 2).
		WillReturnRows(ingredientRows([2]string{"tomato", "vegetable"}, [2]string{"mozzarella", "dairy"}))

	c, rec := postJSON("/v1/pizzas", `{"name":"Margherita","price":7.5,"ingredients":[1,2]}`)
	if err := h.CreatePizza(c); err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ingredients") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	// Validation rejected the payload before any insert.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestCreatePizzaDanglingIngredient(t *testing.T) {
	h, mock := newCatalogHandler(t)

	// Three ids requested, only two rows resolve.
	mock.ExpectQuery("SELECT .+ FROM ingredients WHERE id IN").
		WithArgs(1, 2, 99).
		WillReturnRows(ingredientRows([2]string{"tomato", "vegetable"}, [2]string{"mozzarella", "dairy"}))

	c, rec := postJSON("/v1/pizzas", `{"name":"Margherita","price":7.5,"ingredients":[1,2,99]}`)
	if err := h.CreatePizza(c); err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "do not exist") {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestCreateVegetarianPizzaWithMeatRejected(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery("SELECT .+ FROM ingredients WHERE id IN").
		WithArgs(1, 2, 3).
		WillReturnRows(ingredientRows(
			[2]string{"tomato", "vegetable"}, [2]string{"mozzarella", "dairy"}, [2]string{"ham", "meat"}))

	c, rec := postJSON("/v1/pizzas", `{"name":"Finta Vegetariana","price":8,"vegetarian":true,"ingredients":[1,2,3]}`)
	if err := h.CreatePizza(c); err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}

func TestCreatePizzaNonPositivePrice(t *testing.T) {
	h, mock := newCatalogHandler(t)

	mock.ExpectQuery("SELECT .+ FROM ingredients WHERE id IN").
		WithArgs(1, 2, 3).
		WillReturnRows(ingredientRows(
			[2]string{"tomato", "vegetable"}, [2]string{"mozzarella", "dairy"}, [2]string{"basil", "vegetable"}))

	c, rec := postJSON("/v1/pizzas", `{"name":"Gratis","price":0,"ingredients":[1,2,3]}`)
	if err := h.CreatePizza(c); err != nil {
		t.Fatalf("CreatePizza: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "price") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetPizzaInvalidID(t *testing.T) {
	h, mock := newCatalogHandler(t)

	c, rec := postJSON("/v1/pizzas/abc", ``)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.GetPizza(c); err != nil {
		t.Fatalf("GetPizza: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected db traffic: %v", err)
	}
}
