package domain

import "time"

type StatsRange string

const (
	RangeDay   StatsRange = "day"
	RangeWeek  StatsRange = "week"
	RangeMonth StatsRange = "month"
)

func (r StatsRange) IsValid() bool {
	return r == RangeDay || r == RangeWeek || r == RangeMonth
}

type NewBookings struct {
	ThisDay   int `json:"thisDay"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
	ThisYear  int `json:"thisYear"`
}

type EarningsSummary struct {
	TotalCoachEarning float64     `json:"totalCoachEarning"`
	TotalBookings     int         `json:"totalBookings"`
	NewBookings       NewBookings `json:"newBookings"`
}

// RevenuePoint is one bucket of a revenue series. The backend labels buckets
// with date, week or month depending on the series.
type RevenuePoint struct {
	Date    string  `json:"date,omitempty"`
	Week    string  `json:"week,omitempty"`
	Month   string  `json:"month,omitempty"`
	Revenue float64 `json:"revenue"`
}

func (p RevenuePoint) Label() string {
	switch {
	case p.Date != "":
		return p.Date
	case p.Week != "":
		return p.Week
	default:
		return p.Month
	}
}

type CoachRevenue struct {
	Day   []RevenuePoint `json:"day"`
	Week  []RevenuePoint `json:"week"`
	Month []RevenuePoint `json:"month"`
}

// CoachEarnings is the body of /payment/coach/{id}/earnings.
type CoachEarnings struct {
	Summary      EarningsSummary `json:"summary"`
	CoachRevenue CoachRevenue    `json:"coachRevenue"`
}

func (e CoachEarnings) Series(r StatsRange) []RevenuePoint {
	switch r {
	case RangeWeek:
		return e.CoachRevenue.Week
	case RangeMonth:
		return e.CoachRevenue.Month
	default:
		return e.CoachRevenue.Day
	}
}

type ChartPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

type DashboardStats struct {
	TotalRevenue float64      `json:"totalRevenue"`
	TotalBooking int          `json:"totalBooking"`
	NewBookings  NewBookings  `json:"newBookings"`
	Range        StatsRange   `json:"range"`
	Chart        []ChartPoint `json:"chart"`
}

type PartyRef struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type Booking struct {
	ID           string         `json:"_id"`
	User         PartyRef       `json:"user"`
	Coach        PartyRef       `json:"coach"`
	Service      Service        `json:"service"`
	Date         time.Time      `json:"date"`
	Availability []Availability `json:"availability"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type Payment struct {
	PaymentID    string  `json:"paymentId"`
	TotalAmount  float64 `json:"totalAmount"`
	SplitAmount  float64 `json:"splitAmount"`
	CoachEarning float64 `json:"coachEarning"`
	Booking      Booking `json:"booking"`
}

// PaymentReport is the body of /payment/booking/earnings.
type PaymentReport struct {
	TotalPayments        int       `json:"totalPayments"`
	TotalPlatformEarning float64   `json:"totalPlatformEarning"`
	TotalCoachEarning    float64   `json:"totalCoachEarning"`
	Payments             []Payment `json:"payments"`
}

const BookingStatusApproved = "Approved"

type ApproveBookingRequest struct {
	ZoomLink string `json:"zoomLink" validate:"required,url"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type BookingPage struct {
	Items      []Payment  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginate slices items for the requested page. Pages below 1 clamp to 1 and
// pages past the end clamp to the last page.
func Paginate(payments []Payment, page, pageSize int) BookingPage {
	if pageSize < 1 {
		pageSize = 10
	}
	total := len(payments)
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}

	return BookingPage{
		Items: append([]Payment{}, payments[start:end]...),
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: pages,
		},
	}
}

type WalletRow struct {
	ID          string  `json:"id"`
	ServiceName string  `json:"serviceName"`
	ClientName  string  `json:"clientName"`
	Revenue     float64 `json:"revenue"`
}

type Wallet struct {
	TotalCoachEarning float64     `json:"totalCoachEarning"`
	TotalPayments     int         `json:"totalPayments"`
	Rows              []WalletRow `json:"rows"`
}

func (r PaymentReport) Wallet() Wallet {
	w := Wallet{
		TotalCoachEarning: r.TotalCoachEarning,
		TotalPayments:     r.TotalPayments,
		Rows:              make([]WalletRow, 0, len(r.Payments)),
	}
	for _, p := range r.Payments {
		w.Rows = append(w.Rows, WalletRow{
			ID:          p.PaymentID,
			ServiceName: p.Booking.Service.Title,
			ClientName:  p.Booking.User.FirstName,
			Revenue:     p.CoachEarning,
		})
	}
	return w
}
