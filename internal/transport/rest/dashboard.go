package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coachdash/internal/domain"
)

// @Summary Earnings summary and revenue chart
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param range query string false "day, week or month (default day)"
// @Success 200 {object} domain.DashboardStats
// @Failure 400 {object} errorResponseBody "Unknown range"
// @Router /dashboard/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	session, _ := getSession(c)

	r := domain.StatsRange(c.DefaultQuery("range", string(domain.RangeDay)))
	if !r.IsValid() {
		badRequestResponse(c, "Range must be one of: day, week, month")
		return
	}

	stats, err := h.services.Dashboard.Stats(c.Request.Context(), session, r)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, stats)
}

// @Summary Paid bookings
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Items per page (default 10)"
// @Success 200 {object} domain.BookingPage
// @Router /dashboard/bookings [get]
func (h *Handler) getBookings(c *gin.Context) {
	session, _ := getSession(c)

	page, err := h.services.Dashboard.Bookings(c.Request.Context(), session, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, page)
}

// @Summary Approve a booking
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Booking ID"
// @Param input body domain.ApproveBookingRequest true "Meeting link"
// @Success 200 {object} messageResponseType
// @Failure 422 {object} errorResponseBody "Field errors"
// @Router /dashboard/bookings/{id}/approve [put]
func (h *Handler) approveBooking(c *gin.Context) {
	session, _ := getSession(c)

	var input domain.ApproveBookingRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	msg, err := h.services.Dashboard.ApproveBooking(c.Request.Context(), session, c.Param("id"), input)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	messageResponse(c, http.StatusOK, msg)
}

// @Summary Wallet
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.Wallet
// @Router /dashboard/wallet [get]
func (h *Handler) getWallet(c *gin.Context) {
	session, _ := getSession(c)

	wallet, err := h.services.Dashboard.Wallet(c.Request.Context(), session)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, wallet)
}

// @Summary Dashboard notifications
// @Description WebSocket stream of toasts for the signed-in coach
// @Tags Dashboard
// @Security ApiKeyAuth
// @Router /ws/notifications [get]
func (h *Handler) notifications(c *gin.Context) {
	session, _ := getSession(c)
	h.hub.Serve(c, session.CoachID)
}
