package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coachdash/internal/domain"
)

// @Summary Current coach profile
// @Tags Profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.Coach
// @Router /profile [get]
func (h *Handler) getProfile(c *gin.Context) {
	session, _ := getSession(c)
	coach, err := h.services.Profile.Coach(c.Request.Context(), session)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, coach)
}

// @Summary Current account record
// @Tags Profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.User
// @Router /profile/user [get]
func (h *Handler) getProfileUser(c *gin.Context) {
	session, _ := getSession(c)
	user, err := h.services.Profile.User(c.Request.Context(), session)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, user)
}

// @Summary Update personal information
// @Description Accepts JSON, or multipart form fields with an optional avatar image
// @Tags Profile
// @Accept json,mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.ProfileUpdate false "Fields to change"
// @Success 200 {object} domain.Coach
// @Failure 422 {object} errorResponseBody "Field errors"
// @Router /profile [put]
func (h *Handler) updateProfile(c *gin.Context) {
	session, _ := getSession(c)

	var (
		update domain.ProfileUpdate
		avatar *domain.FileInput
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		files, ok := h.readFiles(c, "avatar")
		if !ok {
			return
		}
		if len(files) > 0 {
			avatar = &files[0]
		}
		update = profileUpdateFromForm(c)
	} else if err := c.ShouldBindJSON(&update); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	coach, err := h.services.Profile.Update(c.Request.Context(), session, update, avatar)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successMessageResponse(c, http.StatusOK, "Profile updated", coach)
}

// profileUpdateFromForm keeps only the fields present in the form.
func profileUpdateFromForm(c *gin.Context) domain.ProfileUpdate {
	field := func(name string) *string {
		v, ok := c.GetPostForm(name)
		if !ok {
			return nil
		}
		return &v
	}
	return domain.ProfileUpdate{
		FullName:    field("fullName"),
		UserName:    field("userName"),
		PhoneNumber: field("phoneNumber"),
		DateOfBirth: field("dateOfBirth"),
		Gender:      field("gender"),
		Address:     field("address"),
	}
}

// @Summary Change password
// @Tags Profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.ChangePasswordRequest true "Passwords"
// @Success 200 {object} messageResponseType
// @Failure 422 {object} errorResponseBody "Field errors"
// @Router /profile/change-password [post]
func (h *Handler) changePassword(c *gin.Context) {
	session, _ := getSession(c)

	var input domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	msg, err := h.services.Profile.ChangePassword(c.Request.Context(), session, input)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	messageResponse(c, http.StatusOK, msg)
}
