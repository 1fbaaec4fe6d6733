package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"orbit-server/internal/domain"
)

// ProfileRepository define el contrato de persistencia para perfiles.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	ListCandidates(ctx context.Context, limit int) ([]domain.Profile, error)
	UpdateVibeCheck(ctx context.Context, userID string, vibe domain.VibeCheck) error
}

// PgProfileRepository implementa ProfileRepository usando pgxpool. El vector
// de 8 dimensiones del vibe check se guarda como columna vector(8) (pgvector)
// en el orden canonico de domain.VibeCheckDimensions.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

const profileColumns = `
	user_id, display_name, age, bio, city, state, photos, interests,
	introvert_extrovert, spontaneous_planner, active_relaxed,
	vibe_status, vibe_vector, vibe_type_code,
	group_size, meeting_frequency, preferred_times, friendship_goals, updated_at
`

func (r *PgProfileRepository) Upsert(ctx context.Context, profile domain.Profile) error {
	const query = `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			age = EXCLUDED.age,
			bio = EXCLUDED.bio,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			photos = EXCLUDED.photos,
			interests = EXCLUDED.interests,
			introvert_extrovert = EXCLUDED.introvert_extrovert,
			spontaneous_planner = EXCLUDED.spontaneous_planner,
			active_relaxed = EXCLUDED.active_relaxed,
			vibe_status = EXCLUDED.vibe_status,
			vibe_vector = EXCLUDED.vibe_vector,
			vibe_type_code = EXCLUDED.vibe_type_code,
			group_size = EXCLUDED.group_size,
			meeting_frequency = EXCLUDED.meeting_frequency,
			preferred_times = EXCLUDED.preferred_times,
			friendship_goals = EXCLUDED.friendship_goals,
			updated_at = EXCLUDED.updated_at
	`
	vibeVector, vibeTypeCode := vibeCheckColumns(profile.VibeCheck)
	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.Age,
		profile.Bio,
		profile.Location.City,
		profile.Location.State,
		profile.Photos,
		profile.Interests,
		profile.Personality.IntrovertExtrovert,
		profile.Personality.SpontaneousPlanner,
		profile.Personality.ActiveRelaxed,
		string(profile.VibeCheck.Status),
		vibeVector,
		vibeTypeCode,
		profile.SocialPreferences.GroupSize,
		profile.SocialPreferences.MeetingFrequency,
		profile.SocialPreferences.PreferredTimes,
		profile.FriendshipGoals,
		profile.UpdatedAt,
	)
	return err
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, err
	}
	return profile, err
}

// ListCandidates trae el pool para discovery. El filtrado de elegibilidad
// (nombre vacio, perfil malformado) lo hace el ranker, no la query.
func (r *PgProfileRepository) ListCandidates(ctx context.Context, limit int) ([]domain.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		ORDER BY user_id
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// UpdateVibeCheck reemplaza el estado del quiz de forma atomica: el vector
// anterior nunca se mezcla con el nuevo.
func (r *PgProfileRepository) UpdateVibeCheck(ctx context.Context, userID string, vibe domain.VibeCheck) error {
	const query = `
		UPDATE profiles
		SET vibe_status = $2, vibe_vector = $3, vibe_type_code = $4, updated_at = now()
		WHERE user_id = $1
	`
	vibeVector, vibeTypeCode := vibeCheckColumns(vibe)
	tag, err := r.pool.Exec(ctx, query, userID, string(vibe.Status), vibeVector, vibeTypeCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// pgxRow es la interfaz minima para escanear una fila y simplificar tests.
type pgxRow interface {
	Scan(dest ...any) error
}

func scanProfile(row pgxRow) (domain.Profile, error) {
	var (
		p          domain.Profile
		vibeStatus string
		vibeVec    *pgvector.Vector
		typeCode   sql.NullString
	)
	err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Age,
		&p.Bio,
		&p.Location.City,
		&p.Location.State,
		&p.Photos,
		&p.Interests,
		&p.Personality.IntrovertExtrovert,
		&p.Personality.SpontaneousPlanner,
		&p.Personality.ActiveRelaxed,
		&vibeStatus,
		&vibeVec,
		&typeCode,
		&p.SocialPreferences.GroupSize,
		&p.SocialPreferences.MeetingFrequency,
		&p.SocialPreferences.PreferredTimes,
		&p.FriendshipGoals,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	p.VibeCheck = vibeCheckFromColumns(vibeStatus, vibeVec, typeCode.String)
	return p, nil
}

// vibeCheckColumns aplana el estado del quiz a columnas: vector y type code
// quedan NULL salvo que el quiz este completado.
func vibeCheckColumns(vibe domain.VibeCheck) (any, any) {
	result, ok := vibe.Result()
	if !ok {
		return nil, nil
	}
	filled := result.Dimensions.Filled()
	values := make([]float32, len(domain.VibeCheckDimensions))
	for i, d := range domain.VibeCheckDimensions {
		values[i] = float32(filled[d])
	}
	return pgvector.NewVector(values), result.TypeCode
}

func vibeCheckFromColumns(status string, vec *pgvector.Vector, typeCode string) domain.VibeCheck {
	if domain.VibeCheckStatus(status) != domain.VibeCheckCompleted || vec == nil {
		if domain.VibeCheckStatus(status) == domain.VibeCheckSkipped {
			return domain.VibeCheckSkip()
		}
		return domain.VibeCheckNone()
	}
	values := vec.Slice()
	dims := make(domain.DimensionVector, len(domain.VibeCheckDimensions))
	for i, d := range domain.VibeCheckDimensions {
		if i < len(values) {
			dims[d] = float64(values[i])
		}
	}
	return domain.VibeCheckComplete(dims, typeCode)
}
