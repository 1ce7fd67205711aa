package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachdash/internal/domain"
)

const rememberMaxAge = 30 * 24 * time.Hour

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", h.config.HTTP.SecureCookie, true)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.config.HTTP.SecureCookie, true)
}

// @Summary Coach sign in
// @Description Signs in against the backend and opens a dashboard session. Only coaches are accepted.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} errorResponseBody "Invalid credentials"
// @Failure 403 {object} errorResponseBody "Not a coach"
// @Failure 422 {object} errorResponseBody "Field errors"
// @Failure 429 {object} errorResponseBody "Too many attempts"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	res, err := h.services.Auth.Login(c.Request.Context(), input, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.handleError(c, err, domain.MsgLoginFailed)
		return
	}

	h.setCookie(c, sessionCookie, res.Token, time.Until(res.ExpiresAt))
	if input.RememberMe {
		h.setCookie(c, rememberCookie, input.Email, rememberMaxAge)
	} else {
		h.clearCookie(c, rememberCookie)
	}

	successMessageResponse(c, http.StatusOK, "Login successful", res)
}

// @Summary Sign-in form defaults
// @Description Returns the remembered email, if any. Passwords are never remembered.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.LoginDefaults
// @Router /auth/login-defaults [get]
func (h *Handler) loginDefaults(c *gin.Context) {
	email, err := c.Cookie(rememberCookie)
	if err != nil {
		email = ""
	}
	successResponse(c, http.StatusOK, domain.LoginDefaults{Email: email, RememberMe: email != ""})
}

// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} messageResponseType
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	h.clearCookie(c, sessionCookie)
	messageResponse(c, http.StatusOK, "Logged out")
}

// @Summary Request a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.ForgetPasswordRequest true "Email"
// @Success 200 {object} messageResponseType
// @Router /auth/forget-password [post]
func (h *Handler) forgetPassword(c *gin.Context) {
	var input domain.ForgetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	msg, err := h.services.Auth.ForgetPassword(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	messageResponse(c, http.StatusOK, msg)
}

// @Summary Verify a password reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.VerifyCodeRequest true "Email and six-digit code"
// @Success 200 {object} messageResponseType
// @Router /auth/verify-code [post]
func (h *Handler) verifyCode(c *gin.Context) {
	var input domain.VerifyCodeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	msg, err := h.services.Auth.VerifyCode(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	messageResponse(c, http.StatusOK, msg)
}

// @Summary Set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.ResetPasswordRequest true "New password"
// @Success 200 {object} messageResponseType
// @Router /auth/reset-password [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var input domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	msg, err := h.services.Auth.ResetPassword(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	messageResponse(c, http.StatusOK, msg)
}
