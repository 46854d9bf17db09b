package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"pizzeria/internal/model"
)

func TestUpdateSnapshotsBeforeApplying(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	// The history insert must carry the pre-update values and must
	// precede the UPDATE, inside the same transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, description, price, vegetarian, available FROM pizzas WHERE id=? AND is_deleted=0 FOR UPDATE")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description", "price", "vegetarian", "available"}).
			AddRow("Margherita", "classic", 9.5, true, true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pizza_history (pizza_id, name, description, price, vegetarian, available, date_modified) VALUES (?,?,?,?,?,?,NOW())")).
		WithArgs(uint64(3), "Margherita", "classic", 9.5, true, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pizzas SET name=?, description=?, price=?, vegetarian=?, available=?, updated_at=CURRENT_TIMESTAMP WHERE id=?")).
		WithArgs("Margherita DOP", "upgraded", 12.0, true, true, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPizzaRepo(db)
	p := &model.Pizza{ID: 3, Name: "Margherita DOP", Description: "upgraded", Price: 12.0, Vegetarian: true, Available: true}
	if err := repo.Update(context.Background(), p, nil, nil, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateMissingPizzaLeavesNoHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, description, price, vegetarian, available FROM pizzas WHERE id=? AND is_deleted=0 FOR UPDATE")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "description", "price", "vegetarian", "available"}))
	mock.ExpectRollback()

	repo := NewPizzaRepo(db)
	err = repo.Update(context.Background(), &model.Pizza{ID: 99}, nil, nil, nil)
	if !errors.Is(err, ErrPizzaNotFound) {
		t.Fatalf("got %v, want ErrPizzaNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSoftDeleteClearsImageLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pizzas SET is_deleted=1 WHERE id=? AND is_deleted=0")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pizza_images WHERE pizza_id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewPizzaRepo(db)
	if err := repo.SoftDelete(context.Background(), 5); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRestoreRequiresDeletedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pizzas SET is_deleted=0 WHERE id=? AND is_deleted=1")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPizzaRepo(db)
	if err := repo.Restore(context.Background(), 5); !errors.Is(err, ErrPizzaNotFound) {
		t.Fatalf("got %v, want ErrPizzaNotFound", err)
	}
}

func TestListExcludesDeletedByDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM pizzas p WHERE p\\.is_deleted=0").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	now := time.Now()
	mock.ExpectQuery("SELECT p\\.id, .+ FROM pizzas p\\s+WHERE p\\.is_deleted=0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "vegetarian", "available", "is_deleted", "created_at", "updated_at"}).
			AddRow(1, "Margherita", "classic", 9.5, true, true, false, now, now))

	repo := NewPizzaRepo(db)
	items, total, err := repo.List(context.Background(), PizzaFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("got %d items, total %d", len(items), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
