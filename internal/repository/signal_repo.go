package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// SignalRepository persiste invitaciones de grupo pendientes.
type SignalRepository interface {
	Create(ctx context.Context, signal domain.Signal) error
	GetByID(ctx context.Context, id string) (domain.Signal, error)
	ListPendingForUser(ctx context.Context, userID string) ([]domain.Signal, error)
	RecordAcceptance(ctx context.Context, signal domain.Signal) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

type PgSignalRepository struct {
	pool *pgxpool.Pool
}

func NewPgSignalRepository(pool *pgxpool.Pool) *PgSignalRepository {
	return &PgSignalRepository{pool: pool}
}

func (r *PgSignalRepository) Create(ctx context.Context, signal domain.Signal) error {
	const query = `
		INSERT INTO signals (id, creator_id, target_user_ids, accepted_user_ids, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		signal.ID,
		signal.CreatorID,
		signal.TargetUserIDs,
		signal.AcceptedUserIDs,
		signal.Status,
		signal.CreatedAt,
		signal.ExpiresAt,
	)
	return err
}

func (r *PgSignalRepository) GetByID(ctx context.Context, id string) (domain.Signal, error) {
	const query = `
		SELECT id, creator_id, target_user_ids, accepted_user_ids, status, created_at, expires_at
		FROM signals
		WHERE id = $1
	`
	var s domain.Signal
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.CreatorID,
		&s.TargetUserIDs,
		&s.AcceptedUserIDs,
		&s.Status,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Signal{}, err
	}
	return s, err
}

// ListPendingForUser trae las invitaciones vigentes donde el usuario es
// destinatario y todavia no vencieron.
func (r *PgSignalRepository) ListPendingForUser(ctx context.Context, userID string) ([]domain.Signal, error) {
	const query = `
		SELECT id, creator_id, target_user_ids, accepted_user_ids, status, created_at, expires_at
		FROM signals
		WHERE status = $1 AND expires_at > now() AND $2 = ANY(target_user_ids)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, domain.SignalStatusPending, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var s domain.Signal
		if err := rows.Scan(
			&s.ID,
			&s.CreatorID,
			&s.TargetUserIDs,
			&s.AcceptedUserIDs,
			&s.Status,
			&s.CreatedAt,
			&s.ExpiresAt,
		); err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

// RecordAcceptance persiste la lista de aceptados y el estado actual.
func (r *PgSignalRepository) RecordAcceptance(ctx context.Context, signal domain.Signal) error {
	const query = `
		UPDATE signals
		SET accepted_user_ids = $2, status = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, signal.ID, signal.AcceptedUserIDs, signal.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ExpireOverdue marca como expiradas las invitaciones pendientes vencidas.
func (r *PgSignalRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	const query = `
		UPDATE signals
		SET status = $1
		WHERE status = $2 AND expires_at <= now()
	`
	tag, err := r.pool.Exec(ctx, query, domain.SignalStatusExpired, domain.SignalStatusPending)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
