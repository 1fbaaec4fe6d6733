package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// PodRepository persiste grupos formados a partir de signals aceptadas.
type PodRepository interface {
	Create(ctx context.Context, pod domain.Pod) error
	GetByID(ctx context.Context, id string) (domain.Pod, error)
	ListActiveForUser(ctx context.Context, userID string) ([]domain.Pod, error)
	MarkRevealed(ctx context.Context, id string) error
}

type PgPodRepository struct {
	pool *pgxpool.Pool
}

func NewPgPodRepository(pool *pgxpool.Pool) *PgPodRepository {
	return &PgPodRepository{pool: pool}
}

func (r *PgPodRepository) Create(ctx context.Context, pod domain.Pod) error {
	const query = `
		INSERT INTO pods (id, signal_id, member_ids, revealed, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		pod.ID,
		pod.SignalID,
		pod.MemberIDs,
		pod.Revealed,
		pod.CreatedAt,
		pod.ExpiresAt,
	)
	return err
}

func (r *PgPodRepository) GetByID(ctx context.Context, id string) (domain.Pod, error) {
	const query = `
		SELECT id, signal_id, member_ids, revealed, created_at, expires_at
		FROM pods
		WHERE id = $1
	`
	var p domain.Pod
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.SignalID,
		&p.MemberIDs,
		&p.Revealed,
		&p.CreatedAt,
		&p.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Pod{}, err
	}
	return p, err
}

func (r *PgPodRepository) ListActiveForUser(ctx context.Context, userID string) ([]domain.Pod, error) {
	const query = `
		SELECT id, signal_id, member_ids, revealed, created_at, expires_at
		FROM pods
		WHERE expires_at > now() AND $1 = ANY(member_ids)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pods []domain.Pod
	for rows.Next() {
		var p domain.Pod
		if err := rows.Scan(
			&p.ID,
			&p.SignalID,
			&p.MemberIDs,
			&p.Revealed,
			&p.CreatedAt,
			&p.ExpiresAt,
		); err != nil {
			return nil, err
		}
		pods = append(pods, p)
	}
	return pods, rows.Err()
}

func (r *PgPodRepository) MarkRevealed(ctx context.Context, id string) error {
	const query = `
		UPDATE pods
		SET revealed = TRUE
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
