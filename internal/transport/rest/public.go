package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"coachdash/internal/domain"
)

type csrfTokenResponse struct {
	Token string `json:"token"`
}

// @Summary Terms and conditions
// @Description The text the agreeToTerms box refers to. format=html returns the rendered page.
// @Tags Public
// @Produce json,html
// @Param format query string false "json (default) or html"
// @Success 200 {object} content.Page
// @Router /terms [get]
func (h *Handler) getTerms(c *gin.Context) {
	page := h.terms.Page()
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page.HTML))
		return
	}
	successResponse(c, http.StatusOK, page)
}

// @Summary CSRF token
// @Description Token to send as X-CSRF-Token on cookie-authenticated form posts
// @Tags Public
// @Produce json
// @Success 200 {object} csrfTokenResponse
// @Router /csrf [get]
func (h *Handler) getCSRFToken(c *gin.Context) {
	token := csrf.Token(c.Request)
	c.Header("X-CSRF-Token", token)
	successResponse(c, http.StatusOK, csrfTokenResponse{Token: token})
}

// @Summary Service catalog
// @Description Services a coach can offer, used by the servicesOffered field
// @Tags Public
// @Produce json
// @Success 200 {array} domain.Service
// @Failure 502 {object} errorResponseBody
// @Router /services [get]
func (h *Handler) getServices(c *gin.Context) {
	services, err := h.services.Catalog.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, services)
}
