package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"orbit-server/internal/domain"
)

// QuizAnswerRepository guarda respuestas individuales del vibe check para
// que el quiz sea reanudable entre sesiones.
type QuizAnswerRepository interface {
	UpsertAnswer(ctx context.Context, userID string, answer domain.QuizAnswer) error
	ListByUser(ctx context.Context, userID string) (map[string]domain.QuizAnswer, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type PgQuizAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuizAnswerRepository(pool *pgxpool.Pool) *PgQuizAnswerRepository {
	return &PgQuizAnswerRepository{pool: pool}
}

func (r *PgQuizAnswerRepository) UpsertAnswer(ctx context.Context, userID string, answer domain.QuizAnswer) error {
	const query = `
		INSERT INTO quiz_answers (user_id, question_id, option_index, rating, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET
			option_index = EXCLUDED.option_index,
			rating = EXCLUDED.rating,
			updated_at = EXCLUDED.updated_at
	`

	var optionIndex, rating any
	if answer.OptionIndex != nil {
		optionIndex = *answer.OptionIndex
	}
	if answer.Rating != nil {
		rating = *answer.Rating
	}

	_, err := r.pool.Exec(ctx, query,
		userID,
		answer.QuestionID,
		optionIndex,
		rating,
		time.Now().UTC(),
	)
	return err
}

func (r *PgQuizAnswerRepository) ListByUser(ctx context.Context, userID string) (map[string]domain.QuizAnswer, error) {
	const query = `
		SELECT question_id, option_index, rating
		FROM quiz_answers
		WHERE user_id = $1
		ORDER BY question_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[string]domain.QuizAnswer)
	for rows.Next() {
		var (
			a           domain.QuizAnswer
			optionIndex sql.NullInt64
			rating      sql.NullInt64
		)
		if err := rows.Scan(&a.QuestionID, &optionIndex, &rating); err != nil {
			return nil, err
		}
		if optionIndex.Valid {
			val := int(optionIndex.Int64)
			a.OptionIndex = &val
		}
		if rating.Valid {
			val := int(rating.Int64)
			a.Rating = &val
		}
		answers[a.QuestionID] = a
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}

func (r *PgQuizAnswerRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM quiz_answers WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
