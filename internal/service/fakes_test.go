package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"coachdash/config"
	"coachdash/internal/backend"
	"coachdash/internal/domain"
	"coachdash/internal/storage"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	pdfData = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	txtData = []byte("just some notes, not a certificate\n")
)

func testConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{Timeout: 20 * time.Second},
		JWT: config.JWTConfig{
			SigningKey: "test-signing-key",
			SessionTTL: 24 * time.Hour,
			Issuer:     "coachdash-test",
		},
		Registration: config.RegistrationConfig{
			DraftTTL:           24 * time.Hour,
			MaxSkills:          20,
			MaxAvailability:    14,
			MaxSlotsPerDay:     12,
			MaxCertifications:  10,
			MaxFileSizeBytes:   5 << 20,
			CatalogCacheTTL:    5 * time.Minute,
			PurgeGracePeriod:   time.Hour,
			SubmitLockTTLExtra: 10 * time.Second,
		},
	}
}

// fakeDrafts round-trips drafts through JSON like the Redis store does.
type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string][]byte
	locks  map[string]bool
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: map[string][]byte{}, locks: map[string]bool{}}
}

func (f *fakeDrafts) Create(ctx context.Context, d *domain.RegistrationDraft) error {
	return f.put(d)
}

func (f *fakeDrafts) put(d *domain.RegistrationDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[d.ID] = data
	return nil
}

func (f *fakeDrafts) Get(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	f.mu.Lock()
	data, ok := f.drafts[id]
	f.mu.Unlock()
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	var d domain.RegistrationDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *fakeDrafts) Save(ctx context.Context, d *domain.RegistrationDraft) error {
	f.mu.Lock()
	_, ok := f.drafts[d.ID]
	f.mu.Unlock()
	if !ok {
		return domain.ErrDraftNotFound
	}
	return f.put(d)
}

func (f *fakeDrafts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, id)
	delete(f.locks, id)
	return nil
}

func (f *fakeDrafts) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[id] {
		return false, nil
	}
	f.locks[id] = true
	return true, nil
}

func (f *fakeDrafts) ReleaseSubmitLock(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, id)
	return nil
}

type fakeRegistrationBackend struct {
	mu       sync.Mutex
	calls    int
	payloads []*backend.RegistrationPayload
	message  string
	err      error
	hook     func()
}

func (f *fakeRegistrationBackend) Register(ctx context.Context, p *backend.RegistrationPayload) (string, error) {
	if f.hook != nil {
		f.hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.payloads = append(f.payloads, p)
	return f.message, f.err
}

type fakeCatalog struct {
	services []domain.Service
}

func (f *fakeCatalog) List(ctx context.Context) ([]domain.Service, error) {
	return f.services, nil
}

func (f *fakeCatalog) Contains(ctx context.Context, id string) (bool, error) {
	_, ok := domain.ServiceByID(f.services, id)
	return ok, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (f *fakeNotifier) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) last() (domain.Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return domain.Notification{}, false
	}
	return f.sent[len(f.sent)-1], true
}

type fakePurger struct {
	scheduled map[string]time.Time
}

func (f *fakePurger) SchedulePurge(ctx context.Context, draftID string, at time.Time) error {
	if f.scheduled == nil {
		f.scheduled = map[string]time.Time{}
	}
	f.scheduled[draftID] = at
	return nil
}

type registrationFixture struct {
	svc      *RegistrationServiceImpl
	drafts   *fakeDrafts
	backend  *fakeRegistrationBackend
	files    *storage.MemoryStorage
	notifier *fakeNotifier
	purger   *fakePurger
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		drafts:   newFakeDrafts(),
		backend:  &fakeRegistrationBackend{message: "Coach registered successfully"},
		files:    storage.NewMemoryStorage(),
		notifier: &fakeNotifier{},
		purger:   &fakePurger{},
	}
	f.svc = NewRegistrationService(RegistrationDeps{
		Drafts:   f.drafts,
		Backend:  f.backend,
		Files:    f.files,
		Catalog:  &fakeCatalog{services: []domain.Service{{ID: "svc-1", Title: "Clarity Health Audit"}}},
		Notifier: f.notifier,
		Purger:   f.purger,
		Config:   testConfig(),
		Logger:   zap.NewNop(),
	})
	return f
}
