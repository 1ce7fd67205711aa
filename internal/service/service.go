package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coachdash/config"
	"coachdash/internal/backend"
	"coachdash/internal/domain"
	"coachdash/internal/repository"
	"coachdash/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Backend     *backend.Client
	FileStorage storage.FileStorage
	Notifier    Notifier
	Purger      PurgeScheduler
	Metrics     *Metrics
	Logger      *zap.Logger
	Config      *config.Config
}

type Services struct {
	Registration RegistrationService
	Catalog      CatalogService
	Auth         AuthService
	Profile      ProfileService
	Dashboard    DashboardService
}

func NewServices(deps Deps) *Services {
	catalog := NewCatalogService(deps.Repos.Catalog, deps.Backend, deps.Logger)
	inspector := NewAttachmentInspector(deps.Config.Registration.MaxFileSizeBytes, deps.Metrics)

	return &Services{
		Catalog: catalog,
		Registration: NewRegistrationService(RegistrationDeps{
			Drafts:    deps.Repos.Drafts,
			Backend:   deps.Backend,
			Files:     deps.FileStorage,
			Catalog:   catalog,
			Inspector: inspector,
			Notifier:  deps.Notifier,
			Purger:    deps.Purger,
			Metrics:   deps.Metrics,
			Config:    deps.Config,
			Logger:    deps.Logger,
		}),
		Auth:      NewAuthService(deps.Repos.Sessions, deps.Backend, deps.Config.JWT, deps.Logger),
		Profile:   NewProfileService(deps.Backend, inspector, deps.Logger),
		Dashboard: NewDashboardService(deps.Backend, deps.Notifier, deps.Logger),
	}
}

type RegistrationService interface {
	Start(ctx context.Context) (*domain.RegistrationDraft, error)
	Get(ctx context.Context, id string) (*domain.RegistrationDraft, error)
	Advance(ctx context.Context, id string, basic domain.BasicIdentity) (*domain.RegistrationDraft, error)
	Retreat(ctx context.Context, id string) (*domain.RegistrationDraft, error)
	SaveProfessional(ctx context.Context, id string, p domain.ProfessionalProfile) (*domain.RegistrationDraft, error)

	AddSkill(ctx context.Context, id string) (*domain.RegistrationDraft, error)
	UpdateSkill(ctx context.Context, id string, index int, skill domain.Skill) (*domain.RegistrationDraft, error)
	RemoveSkill(ctx context.Context, id string, index int) (*domain.RegistrationDraft, error)
	AddAvailability(ctx context.Context, id string) (*domain.RegistrationDraft, error)
	UpdateDay(ctx context.Context, id string, dayIndex int, day domain.Weekday) (*domain.RegistrationDraft, error)
	RemoveAvailability(ctx context.Context, id string, dayIndex int) (*domain.RegistrationDraft, error)
	AddSlot(ctx context.Context, id string, dayIndex int) (*domain.RegistrationDraft, bool, error)
	UpdateSlot(ctx context.Context, id string, dayIndex, slotIndex int, slot domain.TimeSlot) (*domain.RegistrationDraft, error)
	RemoveSlot(ctx context.Context, id string, dayIndex, slotIndex int) (*domain.RegistrationDraft, error)

	UploadProfilePicture(ctx context.Context, id string, file domain.FileInput) (*domain.RegistrationDraft, domain.UploadResult, error)
	UploadCertifications(ctx context.Context, id string, files []domain.FileInput) (*domain.RegistrationDraft, domain.UploadResult, error)
	RemoveCertification(ctx context.Context, id, attachmentID string) (*domain.RegistrationDraft, error)

	Submit(ctx context.Context, id string) (domain.SubmitResult, error)
	PurgeAbandoned(ctx context.Context, id string) (bool, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]domain.Service, error)
	Contains(ctx context.Context, id string) (bool, error)
}

type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (domain.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	ForgetPassword(ctx context.Context, req domain.ForgetPasswordRequest) (string, error)
	VerifyCode(ctx context.Context, req domain.VerifyCodeRequest) (string, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) (string, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type ProfileService interface {
	Coach(ctx context.Context, s *domain.Session) (domain.Coach, error)
	User(ctx context.Context, s *domain.Session) (domain.User, error)
	Update(ctx context.Context, s *domain.Session, u domain.ProfileUpdate, avatar *domain.FileInput) (domain.Coach, error)
	ChangePassword(ctx context.Context, s *domain.Session, req domain.ChangePasswordRequest) (string, error)
}

type DashboardService interface {
	Stats(ctx context.Context, s *domain.Session, r domain.StatsRange) (domain.DashboardStats, error)
	Bookings(ctx context.Context, s *domain.Session, page, pageSize int) (domain.BookingPage, error)
	ApproveBooking(ctx context.Context, s *domain.Session, bookingID string, req domain.ApproveBookingRequest) (string, error)
	Wallet(ctx context.Context, s *domain.Session) (domain.Wallet, error)
}

// Notifier pushes toasts to connected dashboards.
type Notifier interface {
	Notify(n domain.Notification)
}

// PurgeScheduler arranges for the staged files of a draft to be removed once
// the draft has expired.
type PurgeScheduler interface {
	SchedulePurge(ctx context.Context, draftID string, at time.Time) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notification) {}

type nopPurger struct{}

func (nopPurger) SchedulePurge(context.Context, string, time.Time) error { return nil }
