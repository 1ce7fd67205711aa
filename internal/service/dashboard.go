package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coachdash/internal/domain"
)

const defaultPageSize = 10

type DashboardBackend interface {
	CoachEarnings(ctx context.Context, token, coachID string) (domain.CoachEarnings, error)
	PaymentReport(ctx context.Context, token string) (domain.PaymentReport, error)
	UpdateBookingStatus(ctx context.Context, token, bookingID, zoomLink, status string) (string, error)
}

type DashboardServiceImpl struct {
	backend  DashboardBackend
	notifier Notifier
	logger   *zap.Logger
}

func NewDashboardService(backend DashboardBackend, notifier Notifier, logger *zap.Logger) *DashboardServiceImpl {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &DashboardServiceImpl{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *DashboardServiceImpl) Stats(ctx context.Context, sess *domain.Session, r domain.StatsRange) (domain.DashboardStats, error) {
	if r == "" {
		r = domain.RangeDay
	}
	if !r.IsValid() {
		return domain.DashboardStats{}, domain.FieldErrors{"range": "Range must be one of: day, week, month"}.Err()
	}

	e, err := s.backend.CoachEarnings(ctx, sess.AccessToken, sess.CoachID)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	series := e.Series(r)
	chart := make([]domain.ChartPoint, 0, len(series))
	for _, p := range series {
		chart = append(chart, domain.ChartPoint{Label: p.Label(), Revenue: p.Revenue})
	}

	return domain.DashboardStats{
		TotalRevenue: e.Summary.TotalCoachEarning,
		TotalBooking: e.Summary.TotalBookings,
		NewBookings:  e.Summary.NewBookings,
		Range:        r,
		Chart:        chart,
	}, nil
}

func (s *DashboardServiceImpl) Bookings(ctx context.Context, sess *domain.Session, page, pageSize int) (domain.BookingPage, error) {
	report, err := s.backend.PaymentReport(ctx, sess.AccessToken)
	if err != nil {
		return domain.BookingPage{}, err
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return domain.Paginate(report.Payments, page, pageSize), nil
}

func (s *DashboardServiceImpl) ApproveBooking(ctx context.Context, sess *domain.Session, bookingID string, req domain.ApproveBookingRequest) (string, error) {
	if err := domain.ValidateStruct(req).Err(); err != nil {
		return "", err
	}

	msg, err := s.backend.UpdateBookingStatus(ctx, sess.AccessToken, bookingID, req.ZoomLink, domain.BookingStatusApproved)
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Booking approved successfully"
	}

	s.notifier.Notify(domain.Notification{
		Channel:   sess.CoachID,
		Level:     domain.NotificationSuccess,
		Event:     "booking.approved",
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	})
	s.logger.Info("booking approved", zap.String("coach_id", sess.CoachID), zap.String("booking_id", bookingID))
	return msg, nil
}

func (s *DashboardServiceImpl) Wallet(ctx context.Context, sess *domain.Session) (domain.Wallet, error) {
	report, err := s.backend.PaymentReport(ctx, sess.AccessToken)
	if err != nil {
		return domain.Wallet{}, err
	}
	return report.Wallet(), nil
}
