package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"coachdash/internal/domain"
)

type dayRequest struct {
	Day domain.Weekday `json:"day"`
}

type slotAddedResponse struct {
	Added bool                         `json:"added"`
	Draft domain.RegistrationDraftView `json:"draft"`
}

type uploadResponse struct {
	Draft  domain.RegistrationDraftView `json:"draft"`
	Result domain.UploadResult          `json:"result"`
}

func (h *Handler) draftResponse(c *gin.Context, draft *domain.RegistrationDraft, err error) {
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, draft.View())
}

// @Summary Start a registration
// @Description Creates an empty registration draft on the basic information step
// @Tags Registration
// @Produce json
// @Success 201 {object} domain.RegistrationDraftView
// @Failure 500 {object} errorResponseBody
// @Router /registration [post]
func (h *Handler) startRegistration(c *gin.Context) {
	draft, err := h.services.Registration.Start(c.Request.Context())
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	createdResponse(c, draft.View())
}

// @Summary Get a registration draft
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.RegistrationDraftView
// @Failure 404 {object} errorResponseBody
// @Router /registration/{id} [get]
func (h *Handler) getRegistration(c *gin.Context) {
	draft, err := h.services.Registration.Get(c.Request.Context(), c.Param("id"))
	h.draftResponse(c, draft, err)
}

// @Summary Submit basic information
// @Description Validates step one and moves the draft to the professional step
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param input body domain.BasicIdentity true "Basic information"
// @Success 200 {object} domain.RegistrationDraftView
// @Failure 422 {object} errorResponseBody "Field errors"
// @Router /registration/{id}/basic [put]
func (h *Handler) advanceRegistration(c *gin.Context) {
	var input domain.BasicIdentity
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	draft, err := h.services.Registration.Advance(c.Request.Context(), c.Param("id"), input)
	h.draftResponse(c, draft, err)
}

// @Summary Go back to basic information
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/back [post]
func (h *Handler) retreatRegistration(c *gin.Context) {
	draft, err := h.services.Registration.Retreat(c.Request.Context(), c.Param("id"))
	h.draftResponse(c, draft, err)
}

// @Summary Save professional information
// @Description Stores the professional step. Validation happens on submit.
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param input body domain.ProfessionalProfile true "Professional information"
// @Success 200 {object} domain.RegistrationDraftView
// @Failure 409 {object} errorResponseBody "Wrong step or collection full"
// @Router /registration/{id}/professional [put]
func (h *Handler) saveProfessional(c *gin.Context) {
	var input domain.ProfessionalProfile
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	draft, err := h.services.Registration.SaveProfessional(c.Request.Context(), c.Param("id"), input)
	h.draftResponse(c, draft, err)
}

// @Summary Add a skill row
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/skills [post]
func (h *Handler) addSkill(c *gin.Context) {
	draft, err := h.services.Registration.AddSkill(c.Request.Context(), c.Param("id"))
	h.draftResponse(c, draft, err)
}

// @Summary Update a skill row
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Skill index"
// @Param input body domain.Skill true "Skill"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/skills/{index} [put]
func (h *Handler) updateSkill(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	var input domain.Skill
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	draft, err := h.services.Registration.UpdateSkill(c.Request.Context(), c.Param("id"), index, input)
	h.draftResponse(c, draft, err)
}

// @Summary Remove a skill row
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Skill index"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/skills/{index} [delete]
func (h *Handler) removeSkill(c *gin.Context) {
	index, ok := pathIndex(c, "index")
	if !ok {
		return
	}
	draft, err := h.services.Registration.RemoveSkill(c.Request.Context(), c.Param("id"), index)
	h.draftResponse(c, draft, err)
}

// @Summary Add an availability day
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/availability [post]
func (h *Handler) addAvailability(c *gin.Context) {
	draft, err := h.services.Registration.AddAvailability(c.Request.Context(), c.Param("id"))
	h.draftResponse(c, draft, err)
}

// @Summary Change the day of an availability entry
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param day path int true "Availability index"
// @Param input body dayRequest true "Day"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/availability/{day} [put]
func (h *Handler) updateDay(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	var input dayRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	draft, err := h.services.Registration.UpdateDay(c.Request.Context(), c.Param("id"), day, input.Day)
	h.draftResponse(c, draft, err)
}

// @Summary Remove an availability entry
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Param day path int true "Availability index"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/availability/{day} [delete]
func (h *Handler) removeAvailability(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	draft, err := h.services.Registration.RemoveAvailability(c.Request.Context(), c.Param("id"), day)
	h.draftResponse(c, draft, err)
}

// @Summary Add a time slot
// @Description Appends an empty slot. Unknown day indexes leave the draft unchanged and report added=false.
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Param day path int true "Availability index"
// @Success 200 {object} slotAddedResponse
// @Router /registration/{id}/availability/{day}/slots [post]
func (h *Handler) addSlot(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	draft, added, err := h.services.Registration.AddSlot(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, slotAddedResponse{Added: added, Draft: draft.View()})
}

// @Summary Update a time slot
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param day path int true "Availability index"
// @Param slot path int true "Slot index"
// @Param input body domain.TimeSlot true "Slot"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/availability/{day}/slots/{slot} [put]
func (h *Handler) updateSlot(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	slot, ok := pathIndex(c, "slot")
	if !ok {
		return
	}
	var input domain.TimeSlot
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "Invalid request body")
		return
	}

	draft, err := h.services.Registration.UpdateSlot(c.Request.Context(), c.Param("id"), day, slot, input)
	h.draftResponse(c, draft, err)
}

// @Summary Remove a time slot
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Param day path int true "Availability index"
// @Param slot path int true "Slot index"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/availability/{day}/slots/{slot} [delete]
func (h *Handler) removeSlot(c *gin.Context) {
	day, ok := pathIndex(c, "day")
	if !ok {
		return
	}
	slot, ok := pathIndex(c, "slot")
	if !ok {
		return
	}
	draft, err := h.services.Registration.RemoveSlot(c.Request.Context(), c.Param("id"), day, slot)
	h.draftResponse(c, draft, err)
}

// @Summary Upload the profile picture
// @Tags Registration
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Draft ID"
// @Param file formData file true "JPEG or PNG image"
// @Success 200 {object} uploadResponse
// @Router /registration/{id}/profile-picture [post]
func (h *Handler) uploadProfilePicture(c *gin.Context) {
	files, ok := h.readFiles(c, "file")
	if !ok {
		return
	}
	if len(files) != 1 {
		badRequestResponse(c, "Exactly one file is required")
		return
	}

	draft, result, err := h.services.Registration.UploadProfilePicture(c.Request.Context(), c.Param("id"), files[0])
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, uploadResponse{Draft: draft.View(), Result: result})
}

// @Summary Upload certification files
// @Description Accepts a batch. Rejected files are listed with a reason; the rest are staged.
// @Tags Registration
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Draft ID"
// @Param files formData file true "Certification files"
// @Success 200 {object} uploadResponse
// @Router /registration/{id}/certifications [post]
func (h *Handler) uploadCertifications(c *gin.Context) {
	files, ok := h.readFiles(c, "files")
	if !ok {
		return
	}
	if len(files) == 0 {
		badRequestResponse(c, "No files uploaded")
		return
	}

	draft, result, err := h.services.Registration.UploadCertifications(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	successResponse(c, http.StatusOK, uploadResponse{Draft: draft.View(), Result: result})
}

// @Summary Remove a certification file
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Param fileId path string true "Attachment ID"
// @Success 200 {object} domain.RegistrationDraftView
// @Router /registration/{id}/certifications/{fileId} [delete]
func (h *Handler) removeCertification(c *gin.Context) {
	draft, err := h.services.Registration.RemoveCertification(c.Request.Context(), c.Param("id"), c.Param("fileId"))
	h.draftResponse(c, draft, err)
}

// @Summary Submit the registration
// @Description Validates both steps and sends one multipart request to the backend
// @Tags Registration
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} domain.SubmitResult
// @Failure 409 {object} errorResponseBody "Submission already in progress"
// @Failure 422 {object} errorResponseBody "Field errors"
// @Failure 502 {object} errorResponseBody "Backend failure"
// @Router /registration/{id}/submit [post]
func (h *Handler) submitRegistration(c *gin.Context) {
	result, err := h.services.Registration.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, domain.MsgRegistrationFailed)
		return
	}
	successMessageResponse(c, http.StatusOK, result.Message, result)
}

// @Summary Registration notifications
// @Description WebSocket stream of toasts for a registration draft
// @Tags Registration
// @Param id path string true "Draft ID"
// @Router /registration/{id}/events [get]
func (h *Handler) registrationEvents(c *gin.Context) {
	draft, err := h.services.Registration.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err, domain.MsgRequestFailed)
		return
	}
	h.hub.Serve(c, draft.ID)
}

// readFiles loads every file of a multipart field into memory.
func (h *Handler) readFiles(c *gin.Context, field string) ([]domain.FileInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.config.HTTP.MaxUploadMB)<<20)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, "Upload is too large")
			return nil, false
		}
		badRequestResponse(c, "Invalid multipart form")
		return nil, false
	}

	headers := form.File[field]
	files := make([]domain.FileInput, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh, h.config.Registration.MaxFileSizeBytes)
		if err != nil {
			h.handleError(c, err, domain.MsgRequestFailed)
			return nil, false
		}
		files = append(files, domain.FileInput{FileName: fh.Filename, Size: fh.Size, Data: data})
	}
	return files, true
}

// readFile reads at most limit+1 bytes so oversized files are still detectable.
func readFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return data, nil
}
