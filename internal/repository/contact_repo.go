package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// ContactInfoRepository guarda la informacion de contacto revelable.
type ContactInfoRepository interface {
	Upsert(ctx context.Context, info domain.ContactInfo) error
	GetByUserID(ctx context.Context, userID string) (domain.ContactInfo, error)
}

type PgContactInfoRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactInfoRepository(pool *pgxpool.Pool) *PgContactInfoRepository {
	return &PgContactInfoRepository{pool: pool}
}

func (r *PgContactInfoRepository) Upsert(ctx context.Context, info domain.ContactInfo) error {
	const query = `
		INSERT INTO contact_info (user_id, instagram, phone, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			instagram = EXCLUDED.instagram,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		info.UserID,
		info.Instagram,
		info.Phone,
		info.UpdatedAt,
	)
	return err
}

func (r *PgContactInfoRepository) GetByUserID(ctx context.Context, userID string) (domain.ContactInfo, error) {
	const query = `
		SELECT user_id, instagram, phone, updated_at
		FROM contact_info
		WHERE user_id = $1
	`
	var info domain.ContactInfo
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&info.UserID,
		&info.Instagram,
		&info.Phone,
		&info.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ContactInfo{}, err
	}
	return info, err
}
