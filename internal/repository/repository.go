package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"coachdash/internal/domain"
)

type Repositories struct {
	Drafts   DraftRepository
	Sessions SessionRepository
	Catalog  CatalogCache
}

func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, draftTTL, catalogTTL time.Duration) *Repositories {
	return &Repositories{
		Drafts:   NewDraftRepository(rdb, draftTTL),
		Sessions: NewSessionRepository(db),
		Catalog:  NewCatalogCache(rdb, catalogTTL),
	}
}

// DraftRepository holds in-progress registrations. Drafts expire on their own
// after the configured TTL of inactivity.
type DraftRepository interface {
	Create(ctx context.Context, draft *domain.RegistrationDraft) error
	Get(ctx context.Context, id string) (*domain.RegistrationDraft, error)
	Save(ctx context.Context, draft *domain.RegistrationDraft) error
	Delete(ctx context.Context, id string) error

	AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Service, bool, error)
	Set(ctx context.Context, services []domain.Service) error
}
