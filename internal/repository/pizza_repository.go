package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pizzeria/internal/model"
)

// ErrPizzaNotFound is returned when a pizza cannot be found in the
// DB (or is soft-deleted and the caller asked for visible rows only).
var ErrPizzaNotFound = errors.New("pizza not found")

// PizzaRepo encapsulates all database queries related to pizzas,
// their join tables and the pizza_history audit log. Relationship
// collections are materialized explicitly by the repository; no
// lazy traversal happens anywhere.
type PizzaRepo struct {
	db *sql.DB // underlying connection pool
}

// NewPizzaRepo constructs a PizzaRepo with the provided DB handle.
// This allows dependency injection of the database in tests and at
// startup.
func NewPizzaRepo(db *sql.DB) *PizzaRepo {
	return &PizzaRepo{db: db}
}

// PizzaDetail is a pizza with its relationship collections fully
// loaded.
type PizzaDetail struct {
	model.Pizza
	Ingredients []model.Ingredient
	Categories  []model.Category
	Images      []model.Image
}

// PizzaFilter defines filters and pagination for listing pizzas.
// Soft-deleted rows are excluded unless IncludeDeleted is set.
type PizzaFilter struct {
	Name           string
	Vegetarian     *bool
	Available      *bool
	CategoryID     uint64
	MinPrice       float64
	MaxPrice       float64
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// Create inserts a pizza and its ingredient/category/image links
// in one transaction. On success the pizza's ID field is populated
// and a follow-up SELECT fills the timestamp fields so callers
// receive a fully populated record. Validation happens before this
// is called; the repository assumes the referenced ids exist.
func (r *PizzaRepo) Create(ctx context.Context, p *model.Pizza, ingredientIDs, categoryIDs, imageIDs []uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO pizzas (name, description, price, vegetarian, available, is_deleted) VALUES (?,?,?,?,?,0)",
		p.Name, p.Description, p.Price, p.Vegetarian, p.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err = replaceLinks(ctx, tx, "pizza_ingredients", "ingredient_id", p.ID, ingredientIDs); err != nil {
		return err
	}
	if err = replaceLinks(ctx, tx, "pizza_categories", "category_id", p.ID, categoryIDs); err != nil {
		return err
	}
	if err = replaceLinks(ctx, tx, "pizza_images", "image_id", p.ID, imageIDs); err != nil {
		return err
	}

	return tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM pizzas WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a pizza with its collections. Soft-deleted rows
// are reported as not found unless includeDeleted is set (used by
// restore).
func (r *PizzaRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*PizzaDetail, error) {
	q := "SELECT id, name, description, price, vegetarian, available, is_deleted, created_at, updated_at FROM pizzas WHERE id=?"
	if !includeDeleted {
		q += " AND is_deleted=0"
	}
	var d PizzaDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.Vegetarian, &d.Available,
		&d.IsDeleted, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPizzaNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Ingredients, err = r.ingredientsOf(ctx, id); err != nil {
		return nil, err
	}
	if d.Categories, err = r.categoriesOf(ctx, id); err != nil {
		return nil, err
	}
	if d.Images, err = r.imagesOf(ctx, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns pizzas matching the filter plus the total count for
// pagination. Collections are not loaded for list rows; clients
// fetch a single pizza for the full detail.
func (r *PizzaRepo) List(ctx context.Context, f PizzaFilter) ([]model.Pizza, int64, error) {
	where := []string{}
	args := []any{}

	if !f.IncludeDeleted {
		where = append(where, "p.is_deleted=0")
	}
	if f.Name != "" {
		where = append(where, "LOWER(p.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Vegetarian != nil {
		where = append(where, "p.vegetarian=?")
		args = append(args, *f.Vegetarian)
	}
	if f.Available != nil {
		where = append(where, "p.available=?")
		args = append(args, *f.Available)
	}
	if f.CategoryID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM pizza_categories pc WHERE pc.pizza_id=p.id AND pc.category_id=?)")
		args = append(args, f.CategoryID)
	}
	if f.MinPrice > 0 {
		where = append(where, "p.price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "p.price <= ?")
		args = append(args, f.MaxPrice)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pizzas p WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize

	dataSQL := `SELECT p.id, p.name, p.description, p.price, p.vegetarian, p.available, p.is_deleted, p.created_at, p.updated_at
		FROM pizzas p
		WHERE ` + cond + `
		ORDER BY p.id
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Pizza, 0, limit)
	for rows.Next() {
		var p model.Pizza
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Vegetarian,
			&p.Available, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Update snapshots the pizza's current mutable fields into
// pizza_history and then applies the new values, all in one
// transaction. Passing a non-nil id slice replaces the matching
// join table; nil leaves it untouched. A failure partway leaves
// neither a history row nor a changed pizza.
func (r *PizzaRepo) Update(ctx context.Context, p *model.Pizza, ingredientIDs, categoryIDs, imageIDs []uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// Snapshot the pre-update state. FOR UPDATE pins the row so the
	// snapshot matches what the UPDATE below overwrites.
	var prev model.Pizza
	err = tx.QueryRowContext(ctx,
		"SELECT name, description, price, vegetarian, available FROM pizzas WHERE id=? AND is_deleted=0 FOR UPDATE",
		p.ID).Scan(&prev.Name, &prev.Description, &prev.Price, &prev.Vegetarian, &prev.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPizzaNotFound
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO pizza_history (pizza_id, name, description, price, vegetarian, available, date_modified) VALUES (?,?,?,?,?,?,NOW())",
		p.ID, prev.Name, prev.Description, prev.Price, prev.Vegetarian, prev.Available); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE pizzas SET name=?, description=?, price=?, vegetarian=?, available=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		p.Name, p.Description, p.Price, p.Vegetarian, p.Available, p.ID); err != nil {
		return err
	}

	if ingredientIDs != nil {
		if err = replaceLinks(ctx, tx, "pizza_ingredients", "ingredient_id", p.ID, ingredientIDs); err != nil {
			return err
		}
	}
	if categoryIDs != nil {
		if err = replaceLinks(ctx, tx, "pizza_categories", "category_id", p.ID, categoryIDs); err != nil {
			return err
		}
	}
	if imageIDs != nil {
		if err = replaceLinks(ctx, tx, "pizza_images", "image_id", p.ID, imageIDs); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete flips is_deleted and clears the pizza's custom image
// links. The image rows themselves are kept; only the association
// goes away. Both writes share one transaction.
func (r *PizzaRepo) SoftDelete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE pizzas SET is_deleted=1 WHERE id=? AND is_deleted=0", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPizzaNotFound
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM pizza_images WHERE pizza_id=?", id)
	return err
}

// Restore clears the soft-delete flag. Restoring a pizza that is
// not deleted reports not found, matching the original behavior.
func (r *PizzaRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pizzas SET is_deleted=0 WHERE id=? AND is_deleted=1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPizzaNotFound
	}
	return nil
}

// History returns the append-only snapshots for a pizza, newest
// first.
func (r *PizzaRepo) History(ctx context.Context, pizzaID uint64) ([]model.PizzaHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, pizza_id, name, description, price, vegetarian, available, date_modified FROM pizza_history WHERE pizza_id=? ORDER BY id DESC",
		pizzaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PizzaHistory{}
	for rows.Next() {
		var h model.PizzaHistory
		if err := rows.Scan(&h.ID, &h.PizzaID, &h.Name, &h.Description, &h.Price,
			&h.Vegetarian, &h.Available, &h.DateModified); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// replaceLinks rewrites one join table for a pizza inside the
// caller's transaction.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, column string, pizzaID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE pizza_id=?", pizzaID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (pizza_id, "+column+") VALUES (?,?)", pizzaID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *PizzaRepo) ingredientsOf(ctx context.Context, pizzaID uint64) ([]model.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.description, i.type, i.allergens, i.cost
		 FROM ingredients i
		 JOIN pizza_ingredients pi ON pi.ingredient_id = i.id
		 WHERE pi.pizza_id=? ORDER BY i.id`, pizzaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ingredient{}
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Type, &i.Allergens, &i.Cost); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *PizzaRepo) categoriesOf(ctx context.Context, pizzaID uint64) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.parent_id, c.is_active, c.is_deleted, c.created_at, c.updated_at
		 FROM categories c
		 JOIN pizza_categories pc ON pc.category_id = c.id
		 WHERE pc.pizza_id=? AND c.is_deleted=0 ORDER BY c.id`, pizzaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.IsActive,
			&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PizzaRepo) imagesOf(ctx context.Context, pizzaID uint64) ([]model.Image, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT im.id, im.path, im.description, im.is_default, im.is_deleted
		 FROM images im
		 JOIN pizza_images pim ON pim.image_id = im.id
		 WHERE pim.pizza_id=? AND im.is_deleted=0 ORDER BY im.id`, pizzaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Image{}
	for rows.Next() {
		var im model.Image
		if err := rows.Scan(&im.ID, &im.Path, &im.Description, &im.IsDefault, &im.IsDeleted); err != nil {
			return nil, err
		}
		out = append(out, im)
	}
	return out, rows.Err()
}
