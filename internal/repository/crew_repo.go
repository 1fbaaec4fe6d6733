package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// CrewRepository expone crews descubribles. El ranking por tags lo hace el
// servicio de discovery, no la query.
type CrewRepository interface {
	GetByID(ctx context.Context, id string) (domain.Crew, error)
	List(ctx context.Context, limit int) ([]domain.Crew, error)
}

type PgCrewRepository struct {
	pool *pgxpool.Pool
}

func NewPgCrewRepository(pool *pgxpool.Pool) *PgCrewRepository {
	return &PgCrewRepository{pool: pool}
}

func (r *PgCrewRepository) GetByID(ctx context.Context, id string) (domain.Crew, error) {
	const query = `
		SELECT id, name, description, tags, member_ids, created_at
		FROM crews
		WHERE id = $1
	`
	var c domain.Crew
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Tags,
		&c.MemberIDs,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Crew{}, err
	}
	return c, err
}

func (r *PgCrewRepository) List(ctx context.Context, limit int) ([]domain.Crew, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, name, description, tags, member_ids, created_at
		FROM crews
		ORDER BY id
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crews []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Tags,
			&c.MemberIDs,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		crews = append(crews, c)
	}
	return crews, rows.Err()
}
