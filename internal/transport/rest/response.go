package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coachdash/internal/domain"
)

type errorResponseBody struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func successMessageResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func validationResponse(c *gin.Context, fields domain.FieldErrors) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponseBody{
		Status:  "error",
		Message: "Please correct the highlighted fields",
		Code:    http.StatusUnprocessableEntity,
		Fields:  fields,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "Authentication required")
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

// errorStatus maps a service error to its HTTP status.
func errorStatus(err error) int {
	var backendErr *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrAttachmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongStep),
		errors.Is(err, domain.ErrCollectionFull),
		errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden
	case errors.As(err, &backendErr):
		if backendErr.StatusCode >= 400 && backendErr.StatusCode < 500 {
			return backendErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err in the error envelope. Backend messages are passed
// through verbatim; anything unexpected is replaced by fallback.
func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		validationResponse(c, verr.Fields)
		return
	}

	status := errorStatus(err)
	var message string
	switch status {
	case http.StatusInternalServerError:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message = fallback
	case http.StatusBadGateway:
		message = domain.UserMessage(err, fallback)
	case http.StatusForbidden:
		message = "Only coaches can sign in here"
	case http.StatusUnauthorized:
		message = domain.UserMessage(err, "Authentication required")
		if errors.Is(err, domain.ErrSessionExpired) {
			message = "Session expired, please sign in again"
		}
	default:
		message = domain.UserMessage(err, err.Error())
	}

	_ = c.Error(err)
	errorResponse(c, status, message)
}
