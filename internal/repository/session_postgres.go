package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coachdash/internal/domain"
)

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{
		db: db,
	}
}

func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	query := `
		INSERT INTO sessions (id, token_hash, coach_id, role, email, first_name, last_name,
			profile_image, access_token, refresh_token, user_agent, ip, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.TokenHash,
		s.CoachID,
		string(s.Role),
		s.Email,
		s.FirstName,
		s.LastName,
		s.ProfileImage,
		s.AccessToken,
		s.RefreshToken,
		s.UserAgent,
		s.IP,
		s.ExpiresAt,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `
		SELECT id, token_hash, coach_id, role, email, first_name, last_name,
			profile_image, access_token, refresh_token, user_agent, ip, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`

	var (
		s    domain.Session
		role string
	)
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&s.ID,
		&s.TokenHash,
		&s.CoachID,
		&role,
		&s.Email,
		&s.FirstName,
		&s.LastName,
		&s.ProfileImage,
		&s.AccessToken,
		&s.RefreshToken,
		&s.UserAgent,
		&s.IP,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	s.Role = domain.Role(role)

	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
