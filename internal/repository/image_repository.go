package repository

import (
	"context"
	"database/sql"
	"errors"

	"pizzeria/internal/model"
)

// ImageRepo encapsulates queries on the images table. Image rows
// are soft-deleted like pizzas; removal of the backing file on
// disk is a best-effort side effect handled by the caller, never
// by the repository.
type ImageRepo struct{ db *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{db: db} }

var ErrImageNotFound = errors.New("image not found")

const imageColumns = "id, path, description, is_default, is_deleted"

// Create inserts an image row and populates its ID.
func (r *ImageRepo) Create(ctx context.Context, im *model.Image) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO images (path, description, is_default, is_deleted) VALUES (?,?,?,0)",
		im.Path, im.Description, im.IsDefault)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	im.ID = uint64(id)
	return nil
}

// GetByID fetches a visible image.
func (r *ImageRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (*model.Image, error) {
	q := "SELECT " + imageColumns + " FROM images WHERE id=?"
	if !includeDeleted {
		q += " AND is_deleted=0"
	}
	var im model.Image
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&im.ID, &im.Path, &im.Description, &im.IsDefault, &im.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &im, nil
}

// List returns all non-deleted images.
func (r *ImageRepo) List(ctx context.Context) ([]model.Image, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+imageColumns+" FROM images WHERE is_deleted=0 ORDER BY id")
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

// Update overwrites description and is_default on a visible image.
// The path never changes after creation.
func (r *ImageRepo) Update(ctx context.Context, im *model.Image) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE images SET description=?, is_default=? WHERE id=? AND is_deleted=0",
		im.Description, im.IsDefault, im.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrImageNotFound
	}
	return nil
}

// SoftDelete flips is_deleted and returns the stored path so the
// caller can attempt file removal. The record deletion succeeds
// regardless of what happens to the file.
func (r *ImageRepo) SoftDelete(ctx context.Context, id uint64) (string, error) {
	var path string
	err := r.db.QueryRowContext(ctx,
		"SELECT path FROM images WHERE id=? AND is_deleted=0", id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrImageNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE images SET is_deleted=1 WHERE id=? AND is_deleted=0", id); err != nil {
		return "", err
	}
	return path, nil
}

// Restore flips the flag back on a deleted image.
func (r *ImageRepo) Restore(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE images SET is_deleted=0 WHERE id=? AND is_deleted=1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrImageNotFound
	}
	return nil
}
