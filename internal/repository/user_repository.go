package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"pizzeria/internal/auth"
	"pizzeria/internal/model"
)

// UserRepo encapsulates all database queries on the users and
// archived_users tables.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a user cannot be found.
var ErrUserNotFound = errors.New("user not found")

const userColumns = "id, username, email, password_hash, is_active, tier, service_plan_id, usage_quota, request_count, last_request_at, api_key, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.Tier,
		&u.ServicePlanID, &u.UsageQuota, &u.RequestCount, &u.LastRequestAt, &u.APIKey,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// Create hashes the password and inserts a user on the given plan,
// returning the new ID. The legacy per-user api_key column is
// filled with a fresh UUID as the original schema did.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, plan model.ServicePlan, bcryptCost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, is_active, tier, service_plan_id, usage_quota, api_key) VALUES (?,?,?,1,?,?,?,?)",
		username, strings.ToLower(strings.TrimSpace(email)), hash,
		plan.Name, plan.ID, plan.RequestQuota, uuid.NewString())
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// TouchRequest records one request against the user's quota
// counters. The counters are informational; plan limits that
// matter for correctness are enforced transactionally elsewhere.
func (r *UserRepo) TouchRequest(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET request_count=request_count+1, last_request_at=NOW() WHERE id=?", id)
	return err
}

// Archive deactivates an account: a frozen copy of the row is
// written to archived_users and is_active is cleared, in one
// transaction. The user row itself is never hard-deleted.
func (r *UserRepo) Archive(ctx context.Context, id uint64) (err error) {
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

	var u model.User
	err = tx.QueryRowContext(ctx,
		"SELECT id, username, email, tier FROM users WHERE id=? AND is_active=1 LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.Tier)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO archived_users (user_id, username, email, tier, archived_at) VALUES (?,?,?,?,NOW())",
		u.ID, u.Username, u.Email, u.Tier); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}
