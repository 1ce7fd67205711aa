package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coachdash/config"
	"coachdash/internal/backend"
	"coachdash/internal/domain"
	"coachdash/internal/repository"
	"coachdash/internal/storage"
)

const nextAfterRegistration = "/login"

type RegistrationBackend interface {
	Register(ctx context.Context, p *backend.RegistrationPayload) (string, error)
}

type RegistrationDeps struct {
	Drafts    repository.DraftRepository
	Backend   RegistrationBackend
	Files     storage.FileStorage
	Catalog   CatalogService
	Inspector *AttachmentInspector
	Notifier  Notifier
	Purger    PurgeScheduler
	Metrics   *Metrics
	Config    *config.Config
	Logger    *zap.Logger
}

type RegistrationServiceImpl struct {
	drafts    repository.DraftRepository
	backend   RegistrationBackend
	files     storage.FileStorage
	catalog   CatalogService
	inspector *AttachmentInspector
	notifier  Notifier
	purger    PurgeScheduler
	metrics   *Metrics
	limits    domain.CollectionLimits
	cfg       config.RegistrationConfig
	lockTTL   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewRegistrationService(deps RegistrationDeps) *RegistrationServiceImpl {
	rc := deps.Config.Registration
	s := &RegistrationServiceImpl{
		drafts:    deps.Drafts,
		backend:   deps.Backend,
		files:     deps.Files,
		catalog:   deps.Catalog,
		inspector: deps.Inspector,
		notifier:  deps.Notifier,
		purger:    deps.Purger,
		metrics:   deps.Metrics,
		limits: domain.CollectionLimits{
			MaxSkills:         rc.MaxSkills,
			MaxAvailability:   rc.MaxAvailability,
			MaxSlotsPerDay:    rc.MaxSlotsPerDay,
			MaxCertifications: rc.MaxCertifications,
		},
		cfg:     rc,
		lockTTL: deps.Config.Backend.Timeout + rc.SubmitLockTTLExtra,
		logger:  deps.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if s.inspector == nil {
		s.inspector = NewAttachmentInspector(rc.MaxFileSizeBytes, deps.Metrics)
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.purger == nil {
		s.purger = nopPurger{}
	}
	return s
}

func (s *RegistrationServiceImpl) Start(ctx context.Context) (*domain.RegistrationDraft, error) {
	draft := domain.NewRegistrationDraft(uuid.New().String(), s.now())

	if err := s.drafts.Create(ctx, draft); err != nil {
		s.logger.Error("failed to create draft", zap.Error(err))
		return nil, err
	}

	purgeAt := draft.CreatedAt.Add(s.cfg.DraftTTL + s.cfg.PurgeGracePeriod)
	if err := s.purger.SchedulePurge(ctx, draft.ID, purgeAt); err != nil {
		s.logger.Warn("failed to schedule draft purge", zap.String("draft_id", draft.ID), zap.Error(err))
	}

	s.logger.Info("registration started", zap.String("draft_id", draft.ID))
	return draft, nil
}

func (s *RegistrationServiceImpl) Get(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	return s.drafts.Get(ctx, id)
}

// update loads the draft, applies fn and saves the result. When step is not
// empty the draft must be on that step.
func (s *RegistrationServiceImpl) update(ctx context.Context, id string, step domain.RegistrationStep, fn func(d *domain.RegistrationDraft) error) (*domain.RegistrationDraft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if step != "" && draft.Step != step {
		return nil, domain.ErrWrongStep
	}
	if err := fn(draft); err != nil {
		return nil, err
	}

	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Advance stores the basic identity. Invalid input is kept on the draft, the
// step stays basic and the field errors are returned.
func (s *RegistrationServiceImpl) Advance(ctx context.Context, id string, basic domain.BasicIdentity) (*domain.RegistrationDraft, error) {
	errs := domain.ValidateBasic(basic)

	draft, err := s.update(ctx, id, "", func(d *domain.RegistrationDraft) error {
		d.Basic = &basic
		if len(errs) == 0 {
			d.Step = domain.StepProfessional
		} else {
			d.Step = domain.StepBasic
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return draft, errs.Err()
	}

	s.logger.Debug("registration advanced", zap.String("draft_id", id))
	return draft, nil
}

func (s *RegistrationServiceImpl) Retreat(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, "", func(d *domain.RegistrationDraft) error {
		d.Step = domain.StepBasic
		return nil
	})
}

// SaveProfessional stores step two values without validating them; the
// full check runs on submit.
func (s *RegistrationServiceImpl) SaveProfessional(ctx context.Context, id string, p domain.ProfessionalProfile) (*domain.RegistrationDraft, error) {
	if err := s.checkCollectionSizes(p); err != nil {
		return nil, err
	}
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		d.SetProfessional(p)
		return nil
	})
}

func (s *RegistrationServiceImpl) checkCollectionSizes(p domain.ProfessionalProfile) error {
	if s.limits.MaxSkills > 0 && len(p.Skills) > s.limits.MaxSkills {
		return domain.ErrCollectionFull
	}
	if s.limits.MaxAvailability > 0 && len(p.Availability) > s.limits.MaxAvailability {
		return domain.ErrCollectionFull
	}
	for _, a := range p.Availability {
		if s.limits.MaxSlotsPerDay > 0 && len(a.Slots) > s.limits.MaxSlotsPerDay {
			return domain.ErrCollectionFull
		}
	}
	return nil
}

func (s *RegistrationServiceImpl) AddSkill(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.AddSkill(s.limits)
	})
}

func (s *RegistrationServiceImpl) UpdateSkill(ctx context.Context, id string, index int, skill domain.Skill) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.UpdateSkill(index, skill)
	})
}

func (s *RegistrationServiceImpl) RemoveSkill(ctx context.Context, id string, index int) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.RemoveSkill(index)
	})
}

func (s *RegistrationServiceImpl) AddAvailability(ctx context.Context, id string) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.AddAvailability(s.limits)
	})
}

func (s *RegistrationServiceImpl) UpdateDay(ctx context.Context, id string, dayIndex int, day domain.Weekday) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.UpdateDay(dayIndex, day)
	})
}

func (s *RegistrationServiceImpl) RemoveAvailability(ctx context.Context, id string, dayIndex int) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.RemoveAvailability(dayIndex)
	})
}

// AddSlot reports false when dayIndex names no entry; the draft is then left as is.
func (s *RegistrationServiceImpl) AddSlot(ctx context.Context, id string, dayIndex int) (*domain.RegistrationDraft, bool, error) {
	var added bool
	draft, err := s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		var err error
		added, err = d.AddSlot(dayIndex, s.limits)
		return err
	})
	return draft, added, err
}

func (s *RegistrationServiceImpl) UpdateSlot(ctx context.Context, id string, dayIndex, slotIndex int, slot domain.TimeSlot) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.UpdateSlot(dayIndex, slotIndex, slot)
	})
}

func (s *RegistrationServiceImpl) RemoveSlot(ctx context.Context, id string, dayIndex, slotIndex int) (*domain.RegistrationDraft, error) {
	return s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		return d.RemoveSlot(dayIndex, slotIndex)
	})
}

// stage stores accepted files and returns their attachments in input order.
func (s *RegistrationServiceImpl) stage(ctx context.Context, draftID string, files []domain.FileInput, verdicts []inspection) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(files))
	for i, f := range files {
		v := verdicts[i]
		key := storage.DraftObjectKey(draftID, v.Ext)
		if err := s.files.Put(ctx, key, v.ContentType, f.Data); err != nil {
			s.unstage(ctx, attachments)
			return nil, fmt.Errorf("failed to stage %s: %w", f.FileName, err)
		}
		attachments = append(attachments, domain.Attachment{
			ID:          uuid.New().String(),
			FileName:    f.FileName,
			ContentType: v.ContentType,
			Size:        int64(len(f.Data)),
			ObjectKey:   key,
		})
	}
	return attachments, nil
}

func (s *RegistrationServiceImpl) unstage(ctx context.Context, attachments []domain.Attachment) {
	keys := make([]string, 0, len(attachments))
	for _, a := range attachments {
		keys = append(keys, a.ObjectKey)
	}
	s.removeKeys(ctx, keys)
}

func (s *RegistrationServiceImpl) removeKeys(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := storage.DeleteAll(ctx, s.files, keys); err != nil {
		s.logger.Warn("failed to remove staged files", zap.Strings("keys", keys), zap.Error(err))
	}
}

func uploadResult(ctx context.Context, accepted []domain.Attachment, files []domain.FileInput, rejected []domain.RejectedFile) domain.UploadResult {
	sources := make([]previewSource, len(accepted))
	for i, a := range accepted {
		sources[i] = previewSource{FileName: a.FileName, ContentType: a.ContentType, Data: files[i].Data}
	}
	previews := buildPreviews(ctx, sources)

	res := domain.UploadResult{
		Accepted: make([]domain.UploadedFile, len(accepted)),
		Rejected: rejected,
	}
	if res.Rejected == nil {
		res.Rejected = []domain.RejectedFile{}
	}
	for i, a := range accepted {
		res.Accepted[i] = domain.UploadedFile{AttachmentView: a.View(), Preview: previews[i]}
	}
	return res
}

func (s *RegistrationServiceImpl) UploadProfilePicture(ctx context.Context, id string, file domain.FileInput) (*domain.RegistrationDraft, domain.UploadResult, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}
	if draft.Step != domain.StepProfessional {
		return nil, domain.UploadResult{}, domain.ErrWrongStep
	}

	v := s.inspector.inspect(file.Size, file.Data, true)
	if !v.ok() {
		s.logger.Info("profile picture rejected", zap.String("draft_id", id), zap.String("reason", v.Reason))
		return draft, uploadResult(ctx, nil, nil, []domain.RejectedFile{{FileName: file.FileName, Reason: v.Message}}), nil
	}

	staged, err := s.stage(ctx, id, []domain.FileInput{file}, []inspection{v})
	if err != nil {
		return nil, domain.UploadResult{}, err
	}

	previous := draft.ProfilePicture
	draft.ProfilePicture = &staged[0]
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.unstage(ctx, staged)
		return nil, domain.UploadResult{}, err
	}
	if previous != nil {
		s.unstage(ctx, []domain.Attachment{*previous})
	}

	return draft, uploadResult(ctx, staged, []domain.FileInput{file}, nil), nil
}

// UploadCertifications accepts the valid files of a batch and reports the
// rest. Files past the certification bound are rejected individually.
func (s *RegistrationServiceImpl) UploadCertifications(ctx context.Context, id string, files []domain.FileInput) (*domain.RegistrationDraft, domain.UploadResult, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}
	if draft.Step != domain.StepProfessional {
		return nil, domain.UploadResult{}, domain.ErrWrongStep
	}

	room := len(files)
	if s.limits.MaxCertifications > 0 {
		room = s.limits.MaxCertifications - len(draft.CertificationFiles)
	}

	var (
		accepted []domain.FileInput
		verdicts []inspection
		rejected []domain.RejectedFile
	)
	for _, f := range files {
		v := s.inspector.inspect(f.Size, f.Data, false)
		if v.ok() && len(accepted) >= room {
			v = s.inspector.reject(rejectLimit, fmt.Sprintf("At most %d certification files allowed", s.limits.MaxCertifications))
		}
		if !v.ok() {
			rejected = append(rejected, domain.RejectedFile{FileName: f.FileName, Reason: v.Message})
			continue
		}
		accepted = append(accepted, f)
		verdicts = append(verdicts, v)
	}

	if len(rejected) > 0 {
		s.logger.Info("certification files rejected", zap.String("draft_id", id), zap.Int("count", len(rejected)))
	}
	if len(accepted) == 0 {
		return draft, uploadResult(ctx, nil, nil, rejected), nil
	}

	staged, err := s.stage(ctx, id, accepted, verdicts)
	if err != nil {
		return nil, domain.UploadResult{}, err
	}

	for _, a := range staged {
		if err := draft.AddCertification(a, s.limits); err != nil {
			s.unstage(ctx, staged)
			return nil, domain.UploadResult{}, err
		}
	}
	draft.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.unstage(ctx, staged)
		return nil, domain.UploadResult{}, err
	}

	return draft, uploadResult(ctx, staged, accepted, rejected), nil
}

func (s *RegistrationServiceImpl) RemoveCertification(ctx context.Context, id, attachmentID string) (*domain.RegistrationDraft, error) {
	var removed domain.Attachment
	draft, err := s.update(ctx, id, domain.StepProfessional, func(d *domain.RegistrationDraft) error {
		var err error
		removed, err = d.RemoveCertification(attachmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.unstage(ctx, []domain.Attachment{removed})
	return draft, nil
}

// Submit validates the whole draft and posts it to the backend once. A draft
// that fails validation never reaches the network.
func (s *RegistrationServiceImpl) Submit(ctx context.Context, id string) (domain.SubmitResult, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if draft.Step != domain.StepProfessional {
		return domain.SubmitResult{}, domain.ErrWrongStep
	}
	if errs := domain.ValidateDraft(draft); len(errs) > 0 {
		s.metrics.Submission("invalid")
		return domain.SubmitResult{}, errs.Err()
	}

	locked, err := s.drafts.AcquireSubmitLock(ctx, id, s.lockTTL)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if !locked {
		return domain.SubmitResult{}, domain.ErrSubmissionInFlight
	}
	defer func() {
		if err := s.drafts.ReleaseSubmitLock(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("failed to release submit lock", zap.String("draft_id", id), zap.Error(err))
		}
	}()

	// A submit that finished between the first read and the lock has already
	// deleted the draft, and with it the lock key.
	draft, err = s.drafts.Get(ctx, id)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	if draft.Step != domain.StepProfessional {
		return domain.SubmitResult{}, domain.ErrWrongStep
	}
	if errs := domain.ValidateDraft(draft); len(errs) > 0 {
		s.metrics.Submission("invalid")
		return domain.SubmitResult{}, errs.Err()
	}

	s.checkService(ctx, draft.Professional.ServicesOffered)

	payload := backend.NewRegistrationPayload(*draft.Basic, draft.Professional)
	if err := s.attachFiles(ctx, draft, payload); err != nil {
		s.logger.Error("failed to load staged files", zap.String("draft_id", id), zap.Error(err))
		s.metrics.Submission("failure")
		return domain.SubmitResult{}, err
	}

	message, err := s.backend.Register(ctx, payload)
	if err != nil {
		s.metrics.Submission("failure")
		s.notifier.Notify(domain.Notification{
			Channel:   id,
			Level:     domain.NotificationError,
			Event:     "registration.failed",
			Message:   domain.UserMessage(err, domain.MsgRegistrationFailed),
			CreatedAt: s.now(),
		})
		s.logger.Warn("registration rejected", zap.String("draft_id", id), zap.Error(err))
		return domain.SubmitResult{}, err
	}

	if message == "" {
		message = "Registration successful"
	}

	if err := s.drafts.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete submitted draft", zap.String("draft_id", id), zap.Error(err))
	}
	s.removeKeys(ctx, draft.AttachmentKeys())

	s.metrics.Submission("success")
	s.notifier.Notify(domain.Notification{
		Channel:   id,
		Level:     domain.NotificationSuccess,
		Event:     "registration.submitted",
		Message:   message,
		CreatedAt: s.now(),
	})
	s.logger.Info("registration submitted", zap.String("draft_id", id))

	return domain.SubmitResult{Message: message, Next: nextAfterRegistration}, nil
}

// checkService logs when the selected service is not in the catalog. It never blocks.
func (s *RegistrationServiceImpl) checkService(ctx context.Context, serviceID string) {
	if s.catalog == nil {
		return
	}
	ok, err := s.catalog.Contains(ctx, serviceID)
	if err != nil {
		s.logger.Warn("service catalog unavailable", zap.Error(err))
		return
	}
	if !ok {
		s.logger.Warn("selected service not in catalog", zap.String("service_id", serviceID))
	}
}

func (s *RegistrationServiceImpl) attachFiles(ctx context.Context, d *domain.RegistrationDraft, p *backend.RegistrationPayload) error {
	load := func(a domain.Attachment) (backend.FilePart, error) {
		data, err := s.files.Get(ctx, a.ObjectKey)
		if err != nil {
			return backend.FilePart{}, err
		}
		return backend.FilePart{FileName: a.FileName, ContentType: a.ContentType, Data: data}, nil
	}

	if d.ProfilePicture != nil {
		part, err := load(*d.ProfilePicture)
		if err != nil {
			return err
		}
		p.ProfileImage = &part
	}
	for _, a := range d.CertificationFiles {
		part, err := load(a)
		if err != nil {
			return err
		}
		p.CertificationFiles = append(p.CertificationFiles, part)
	}
	return nil
}

// PurgeAbandoned removes the staged files of a draft that no longer exists.
// It reports false when the draft is still alive.
func (s *RegistrationServiceImpl) PurgeAbandoned(ctx context.Context, id string) (bool, error) {
	_, err := s.drafts.Get(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrDraftNotFound) {
		return false, err
	}

	n, err := s.files.DeletePrefix(ctx, storage.DraftPrefix(id))
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Info("purged abandoned draft files", zap.String("draft_id", id), zap.Int("count", n))
	}
	return true, nil
}
