package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// MissionRepository expone misiones (eventos puntuales) descubribles.
type MissionRepository interface {
	GetByID(ctx context.Context, id string) (domain.Mission, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Mission, error)
}

type PgMissionRepository struct {
	pool *pgxpool.Pool
}

func NewPgMissionRepository(pool *pgxpool.Pool) *PgMissionRepository {
	return &PgMissionRepository{pool: pool}
}

func (r *PgMissionRepository) GetByID(ctx context.Context, id string) (domain.Mission, error) {
	const query = `
		SELECT id, title, description, tags, city, state, starts_at, created_at
		FROM missions
		WHERE id = $1
	`
	var m domain.Mission
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Tags,
		&m.Location.City,
		&m.Location.State,
		&m.StartsAt,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mission{}, err
	}
	return m, err
}

// ListUpcoming trae misiones que todavia no empezaron, las mas proximas
// primero.
func (r *PgMissionRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Mission, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, title, description, tags, city, state, starts_at, created_at
		FROM missions
		WHERE starts_at > $1
		ORDER BY starts_at, id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missions []domain.Mission
	for rows.Next() {
		var m domain.Mission
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Description,
			&m.Tags,
			&m.Location.City,
			&m.Location.State,
			&m.StartsAt,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}
