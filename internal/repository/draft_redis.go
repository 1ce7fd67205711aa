package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coachdash/internal/domain"
)

type DraftRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftRepository(rdb *redis.Client, ttl time.Duration) *DraftRepo {
	return &DraftRepo{
		rdb: rdb,
		ttl: ttl,
	}
}

func draftKey(id string) string {
	return "drafts:" + id
}

func submitLockKey(id string) string {
	return "drafts:" + id + ":submitting"
}

func (r *DraftRepo) Create(ctx context.Context, draft *domain.RegistrationDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, draftKey(draft.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	if !ok {
		return fmt.Errorf("draft %s already exists", draft.ID)
	}
	return nil
}

func (r *DraftRepo) Get(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	data, err := r.rdb.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var draft domain.RegistrationDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Save overwrites an existing draft and restarts its TTL.
func (r *DraftRepo) Save(ctx context.Context, draft *domain.RegistrationDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	ok, err := r.rdb.SetXX(ctx, draftKey(draft.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	if !ok {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *DraftRepo) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, draftKey(id), submitLockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, submitLockKey(id), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (r *DraftRepo) ReleaseSubmitLock(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, submitLockKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}
