package service

import (
	"context"

	"go.uber.org/zap"

	"coachdash/internal/domain"
)

type ProfileBackend interface {
	GetCoach(ctx context.Context, token, id string) (domain.Coach, error)
	GetUser(ctx context.Context, token, id string) (domain.User, error)
	UpdateCoach(ctx context.Context, token, id string, u domain.ProfileUpdate, avatar *domain.Avatar) (domain.Coach, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (string, error)
}

type ProfileServiceImpl struct {
	backend   ProfileBackend
	inspector *AttachmentInspector
	logger    *zap.Logger
}

func NewProfileService(backend ProfileBackend, inspector *AttachmentInspector, logger *zap.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		backend:   backend,
		inspector: inspector,
		logger:    logger,
	}
}

func (s *ProfileServiceImpl) Coach(ctx context.Context, sess *domain.Session) (domain.Coach, error) {
	return s.backend.GetCoach(ctx, sess.AccessToken, sess.CoachID)
}

func (s *ProfileServiceImpl) User(ctx context.Context, sess *domain.Session) (domain.User, error) {
	return s.backend.GetUser(ctx, sess.AccessToken, sess.CoachID)
}

func (s *ProfileServiceImpl) Update(ctx context.Context, sess *domain.Session, u domain.ProfileUpdate, avatar *domain.FileInput) (domain.Coach, error) {
	errs := domain.ValidateStruct(u)

	var img *domain.Avatar
	if avatar != nil {
		v := s.inspector.inspect(avatar.Size, avatar.Data, true)
		if v.ok() {
			img = &domain.Avatar{FileName: avatar.FileName, ContentType: v.ContentType, Data: avatar.Data}
		} else {
			errs = errs.Merge(domain.FieldErrors{"avatar": v.Message})
		}
	}
	if err := errs.Err(); err != nil {
		return domain.Coach{}, err
	}

	coach, err := s.backend.UpdateCoach(ctx, sess.AccessToken, sess.CoachID, u, img)
	if err != nil {
		s.logger.Info("profile update rejected", zap.String("coach_id", sess.CoachID), zap.Error(err))
		return domain.Coach{}, err
	}
	return coach, nil
}

// ChangePassword checks the confirmation locally; a mismatch never reaches the backend.
func (s *ProfileServiceImpl) ChangePassword(ctx context.Context, sess *domain.Session, req domain.ChangePasswordRequest) (string, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return "", err
	}
	return s.backend.ChangePassword(ctx, sess.AccessToken, req.OldPassword, req.NewPassword)
}
