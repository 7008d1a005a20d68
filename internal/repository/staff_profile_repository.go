package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// StaffProfileRepository handles persistence for staff profiles.
type StaffProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.StaffProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.StaffProfile, error)
}

type staffProfileRepository struct {
	pool *pgxpool.Pool
}

// NewStaffProfileRepository instantiates the repository.
func NewStaffProfileRepository(pool *pgxpool.Pool) StaffProfileRepository {
	return &staffProfileRepository{pool: pool}
}

func (r *staffProfileRepository) GetByID(ctx context.Context, id string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, user_id, display_name, department, active_flag, created_at, updated_at
        FROM staff_profiles WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.StaffProfile, error) {
	const query = `
        SELECT id, user_id, display_name, department, active_flag, created_at, updated_at
        FROM staff_profiles WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *staffProfileRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffProfile, error) {
	var profile domain.StaffProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Department,
		&profile.Active,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
