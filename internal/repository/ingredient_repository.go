package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pizzeria/internal/model"
)

// IngredientRepo encapsulates queries on the ingredients table.
// Ingredients have no soft-delete flag in the schema; deletion is
// physical but refused while any pizza still references the row.
type IngredientRepo struct{ db *sql.DB }

func NewIngredientRepo(db *sql.DB) *IngredientRepo { return &IngredientRepo{db: db} }

var ErrIngredientNotFound = errors.New("ingredient not found")

const ingredientColumns = "id, name, description, type, allergens, cost"

// Create inserts an ingredient and populates its ID.
func (r *IngredientRepo) Create(ctx context.Context, i *model.Ingredient) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ingredients (name, description, type, allergens, cost) VALUES (?,?,?,?,?)",
		i.Name, i.Description, i.Type, i.Allergens, i.Cost)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	i.ID = uint64(id)
	return nil
}

// GetByID fetches an ingredient by id.
func (r *IngredientRepo) GetByID(ctx context.Context, id uint64) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.QueryRowContext(ctx,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE id=? LIMIT 1", id).
		Scan(&i.ID, &i.Name, &i.Description, &i.Type, &i.Allergens, &i.Cost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByIDs materializes the ingredients for a list of ids in one
// query. Missing ids are simply absent from the result; callers
// compare lengths to detect dangling references.
func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for n, id := range ids {
		args[n] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE id IN ("+placeholders+") ORDER BY id", args...)
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

// List returns all ingredients, optionally filtered by type or a
// name substring.
func (r *IngredientRepo) List(ctx context.Context, typ, name string) ([]model.Ingredient, error) {
	where := []string{"1=1"}
	args := []any{}
	if typ != "" {
		where = append(where, "type=?")
		args = append(args, typ)
	}
	if name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(name)+"%")
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE "+strings.Join(where, " AND ")+" ORDER BY id", args...)
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

// Update overwrites all mutable fields. Returns ErrIngredientNotFound
// when the row does not exist.
func (r *IngredientRepo) Update(ctx context.Context, i *model.Ingredient) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE ingredients SET name=?, description=?, type=?, allergens=?, cost=? WHERE id=?",
		i.Name, i.Description, i.Type, i.Allergens, i.Cost, i.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

// Delete removes an ingredient, refusing with ErrConflict while
// any pizza still references it. Check and delete run in one
// transaction so a concurrent link cannot slip in between.
func (r *IngredientRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	var refs int
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pizza_ingredients WHERE ingredient_id=? FOR UPDATE", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM ingredients WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrIngredientNotFound
	}
	return nil
}
