package repository

import (
	"context"
	"database/sql"
	"errors"

	"pizzeria/internal/model"
)

// PlanRepo reads the service_plans table. Plans are seeded by
// migrations and are effectively read-only at runtime.
type PlanRepo struct{ db *sql.DB }

func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

var ErrPlanNotFound = errors.New("service plan not found")

// GetByName fetches a plan by its unique name (e.g. "free").
func (r *PlanRepo) GetByName(ctx context.Context, name string) (model.ServicePlan, error) {
	var p model.ServicePlan
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, max_api_keys, request_quota FROM service_plans WHERE name=? LIMIT 1",
		name).Scan(&p.ID, &p.Name, &p.MaxAPIKeys, &p.RequestQuota)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPlanNotFound
	}
	return p, err
}

// GetByID fetches a plan by id.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (model.ServicePlan, error) {
	var p model.ServicePlan
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, max_api_keys, request_quota FROM service_plans WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.MaxAPIKeys, &p.RequestQuota)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPlanNotFound
	}
	return p, err
}
