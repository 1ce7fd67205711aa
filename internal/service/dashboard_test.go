package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"coachdash/internal/domain"
)

type fakeDashboardBackend struct {
	earnings domain.CoachEarnings
	report   domain.PaymentReport
	err      error

	approved   []string
	lastStatus string
	lastLink   string
}

func (f *fakeDashboardBackend) CoachEarnings(ctx context.Context, token, coachID string) (domain.CoachEarnings, error) {
	return f.earnings, f.err
}

func (f *fakeDashboardBackend) PaymentReport(ctx context.Context, token string) (domain.PaymentReport, error) {
	return f.report, f.err
}

func (f *fakeDashboardBackend) UpdateBookingStatus(ctx context.Context, token, bookingID, zoomLink, status string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.approved = append(f.approved, bookingID)
	f.lastStatus = status
	f.lastLink = zoomLink
	return "", nil
}

func testSession() *domain.Session {
	return &domain.Session{ID: "s1", CoachID: "c1", Role: domain.RoleCoach, AccessToken: "backend-access"}
}

func samplePayments(n int) []domain.Payment {
	out := make([]domain.Payment, n)
	for i := range out {
		out[i] = domain.Payment{
			PaymentID:    fmt.Sprintf("p%d", i+1),
			CoachEarning: 40,
			Booking: domain.Booking{
				User:    domain.PartyRef{FirstName: "Client"},
				Service: domain.Service{Title: "Yoga"},
			},
		}
	}
	return out
}

func TestDashboardStats(t *testing.T) {
	be := &fakeDashboardBackend{earnings: domain.CoachEarnings{
		Summary: domain.EarningsSummary{TotalCoachEarning: 820.5, TotalBookings: 12, NewBookings: domain.NewBookings{ThisDay: 2}},
		CoachRevenue: domain.CoachRevenue{
			Day:   []domain.RevenuePoint{{Date: "2026-10-14", Revenue: 40}, {Date: "2026-10-15", Revenue: 80}},
			Week:  []domain.RevenuePoint{{Week: "W41", Revenue: 300}},
			Month: []domain.RevenuePoint{{Month: "Oct", Revenue: 820.5}},
		},
	}}
	svc := NewDashboardService(be, nil, zap.NewNop())

	tests := []struct {
		name      string
		rng       domain.StatsRange
		wantRange domain.StatsRange
		wantChart []domain.ChartPoint
	}{
		{"defaults to day", "", domain.RangeDay, []domain.ChartPoint{{Label: "2026-10-14", Revenue: 40}, {Label: "2026-10-15", Revenue: 80}}},
		{"week", domain.RangeWeek, domain.RangeWeek, []domain.ChartPoint{{Label: "W41", Revenue: 300}}},
		{"month", domain.RangeMonth, domain.RangeMonth, []domain.ChartPoint{{Label: "Oct", Revenue: 820.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := svc.Stats(context.Background(), testSession(), tt.rng)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if stats.Range != tt.wantRange || stats.TotalRevenue != 820.5 || stats.TotalBooking != 12 {
				t.Errorf("stats = %+v", stats)
			}
			if len(stats.Chart) != len(tt.wantChart) {
				t.Fatalf("chart = %+v", stats.Chart)
			}
			for i := range tt.wantChart {
				if stats.Chart[i] != tt.wantChart[i] {
					t.Errorf("chart[%d] = %+v, want %+v", i, stats.Chart[i], tt.wantChart[i])
				}
			}
		})
	}
}

func TestDashboardStatsRejectsUnknownRange(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardBackend{}, nil, zap.NewNop())

	_, err := svc.Stats(context.Background(), testSession(), "year")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["range"] == "" {
		t.Errorf("Stats = %v, want range validation error", err)
	}
}

func TestDashboardBookingsPagination(t *testing.T) {
	be := &fakeDashboardBackend{report: domain.PaymentReport{Payments: samplePayments(23)}}
	svc := NewDashboardService(be, nil, zap.NewNop())

	page, err := svc.Bookings(context.Background(), testSession(), 3, 0)
	if err != nil {
		t.Fatalf("Bookings: %v", err)
	}
	if page.Pagination.PageSize != 10 || page.Pagination.TotalPages != 3 || page.Pagination.TotalItems != 23 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if len(page.Items) != 3 || page.Items[0].PaymentID != "p21" {
		t.Errorf("items = %d, first %q", len(page.Items), page.Items[0].PaymentID)
	}
}

func TestApproveBookingNotifiesCoach(t *testing.T) {
	be := &fakeDashboardBackend{}
	notifier := &fakeNotifier{}
	svc := NewDashboardService(be, notifier, zap.NewNop())

	if _, err := svc.ApproveBooking(context.Background(), testSession(), "b1", domain.ApproveBookingRequest{ZoomLink: "not a link"}); err == nil {
		t.Fatal("invalid zoom link accepted")
	}
	if len(be.approved) != 0 {
		t.Fatalf("backend called for invalid link")
	}

	msg, err := svc.ApproveBooking(context.Background(), testSession(), "b1", domain.ApproveBookingRequest{ZoomLink: "https://zoom.us/j/123"})
	if err != nil {
		t.Fatalf("ApproveBooking: %v", err)
	}
	if msg != "Booking approved successfully" || be.lastStatus != domain.BookingStatusApproved || be.lastLink != "https://zoom.us/j/123" {
		t.Errorf("msg = %q, status = %q, link = %q", msg, be.lastStatus, be.lastLink)
	}

	n, ok := notifier.last()
	if !ok || n.Channel != "c1" || n.Level != domain.NotificationSuccess {
		t.Errorf("notification = %+v", n)
	}
}

func TestDashboardWallet(t *testing.T) {
	be := &fakeDashboardBackend{report: domain.PaymentReport{TotalCoachEarning: 80, TotalPayments: 2, Payments: samplePayments(2)}}
	svc := NewDashboardService(be, nil, zap.NewNop())

	w, err := svc.Wallet(context.Background(), testSession())
	if err != nil {
		t.Fatalf("Wallet: %v", err)
	}
	if len(w.Rows) != 2 || w.Rows[1].ID != "p2" || w.Rows[1].ServiceName != "Yoga" || w.TotalCoachEarning != 80 {
		t.Errorf("wallet = %+v", w)
	}
}

func TestDashboardPassesBackendErrors(t *testing.T) {
	be := &fakeDashboardBackend{err: &domain.BackendError{StatusCode: 401, Message: "Token expired"}}
	svc := NewDashboardService(be, nil, zap.NewNop())

	_, err := svc.Wallet(context.Background(), testSession())
	var berr *domain.BackendError
	if !errors.As(err, &berr) || berr.Message != "Token expired" {
		t.Errorf("Wallet = %v", err)
	}
}
