package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pizzeria/internal/model"
)

// CategoryRepo encapsulates queries on the categories table.
// Categories form a tree through parent_id and are soft-deleted:
// deleted rows disappear from default listings, from search and
// from their parent's children queries, but stay restorable.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

var ErrCategoryNotFound = errors.New("category not found")

const categoryColumns = "id, name, description, parent_id, is_active, is_deleted, created_at, updated_at"

func scanCategory(sc interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := sc.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a category and populates ID and timestamps.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, description, parent_id, is_active, is_deleted) VALUES (?,?,?,?,0)",
		c.Name, c.Description, c.ParentID, c.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM categories WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a visible category; set includeDeleted to reach
// soft-deleted rows (restore path).
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories WHERE id=?"
	if !includeDeleted {
		q += " AND is_deleted=0"
	}
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all non-deleted categories ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	return r.queryMany(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE is_deleted=0 ORDER BY id")
}

// Children returns the active, non-deleted children of a category.
func (r *CategoryRepo) Children(ctx context.Context, parentID uint64) ([]model.Category, error) {
	return r.queryMany(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE parent_id=? AND is_active=1 AND is_deleted=0 ORDER BY id", parentID)
}

// Search matches a query against name and description, excluding
// deleted rows.
func (r *CategoryRepo) Search(ctx context.Context, query string) ([]model.Category, error) {
	like := "%" + strings.ToLower(query) + "%"
	return r.queryMany(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE (LOWER(name) LIKE ? OR LOWER(description) LIKE ?) AND is_deleted=0 ORDER BY id",
		like, like)
}

// Update overwrites the mutable fields of a visible category.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=?, description=?, parent_id=?, is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND is_deleted=0",
		c.Name, c.Description, c.ParentID, c.IsActive, c.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SoftDelete flips is_deleted on a visible category.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET is_deleted=1 WHERE id=? AND is_deleted=0", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Restore flips the flag back on a deleted category.
func (r *CategoryRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET is_deleted=0 WHERE id=? AND is_deleted=1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepo) queryMany(ctx context.Context, q string, args ...any) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
