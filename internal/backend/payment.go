package backend

import (
	"context"
	"net/http"
	"net/url"

	"coachdash/internal/domain"
)

func (c *Client) CoachEarnings(ctx context.Context, token, coachID string) (domain.CoachEarnings, error) {
	var e domain.CoachEarnings
	_, err := c.do(ctx, request{
		endpoint: "payment.coach_earnings",
		method:   http.MethodGet,
		path:     "/payment/coach/" + url.PathEscape(coachID) + "/earnings",
		token:    token,
	}, &e)
	return e, err
}

func (c *Client) PaymentReport(ctx context.Context, token string) (domain.PaymentReport, error) {
	var r domain.PaymentReport
	_, err := c.do(ctx, request{
		endpoint: "payment.booking_earnings",
		method:   http.MethodGet,
		path:     "/payment/booking/earnings",
		token:    token,
	}, &r)
	return r, err
}

func (c *Client) UpdateBookingStatus(ctx context.Context, token, bookingID, zoomLink, status string) (string, error) {
	r, err := jsonRequest("booking.update_status", http.MethodPut, "/booking/"+url.PathEscape(bookingID)+"/status", token, map[string]string{
		"zoomLink": zoomLink,
		"status":   status,
	})
	if err != nil {
		return "", err
	}
	return c.do(ctx, r, nil)
}
