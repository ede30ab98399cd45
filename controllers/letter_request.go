package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
)

type LetterRequestController struct {
	Service *services.LetterRequestService
	Storage *services.Storage
}

func NewLetterRequestController(service *services.LetterRequestService, storage *services.Storage) *LetterRequestController {
	return &LetterRequestController{Service: service, Storage: storage}
}

// Create opens a new letter request from multipart form data with
// optional PDF attachments.
func (ctl *LetterRequestController) Create(c *gin.Context) {
	letterTypeID, err := strconv.ParseUint(c.PostForm("letter_type_id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid request body", "letter_type_id: required"))
		return
	}

	input := services.CreateRequestInput{
		LetterTypeID: uint(letterTypeID),
		Notes:        utils.SanitizeInput(c.PostForm("notes")),
	}

	if second := c.PostForm("second_resident_id"); second != "" {
		parsed, err := strconv.ParseUint(second, 10, 64)
		if err != nil {
			respondError(c, utils.NewValidationError("Invalid request body", "second_resident_id: must be numeric"))
			return
		}
		id := uint(parsed)
		input.SecondResidentID = &id
	}

	attachments, err := ctl.saveAttachments(c)
	if err != nil {
		respondError(c, err)
		return
	}
	input.Attachments = attachments

	request, err := ctl.Service.Create(currentActor(c), input)
	if err != nil {
		ctl.removeStored(attachments)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, request)
}

// Update replaces the notes and attachment set of an open request.
func (ctl *LetterRequestController) Update(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var notes *string
	if value, ok := c.GetPostForm("notes"); ok {
		sanitized := utils.SanitizeInput(value)
		notes = &sanitized
	}

	var attachments []services.AttachmentInput
	if form, err := c.MultipartForm(); err == nil && form != nil && len(form.File["attachments"]) > 0 {
		attachments, err = ctl.saveAttachments(c)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	request, err := ctl.Service.Update(currentActor(c), requestID, notes, attachments)
	if err != nil {
		ctl.removeStored(attachments)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, request)
}

func (ctl *LetterRequestController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	params := services.ListParams{
		Page:   page,
		Size:   size,
		Status: models.RequestStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	requests, paging, err := ctl.Service.List(currentActor(c), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, requests, paging)
}

func (ctl *LetterRequestController) Get(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	request, err := ctl.Service.Get(currentActor(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, request)
}

func (ctl *LetterRequestController) Delete(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.Service.Delete(currentActor(c), requestID); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Letter request deleted")
}

type VerifyRequest struct {
	Status models.RequestStatus `json:"status" binding:"required"`
	Notes  string               `json:"notes"`
}

// Verify is the ADMIN decision on a submitted request: APPROVED or
// REJECTED (with the reason carried in notes).
func (ctl *LetterRequestController) Verify(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if req.Status != models.StatusApproved && req.Status != models.StatusRejected {
		respondError(c, utils.NewValidationError("Invalid request body", "status: must be APPROVED or REJECTED"))
		return
	}

	request, err := ctl.Service.Transition(currentActor(c), requestID, req.Status,
		services.TransitionInput{Reason: utils.SanitizeInput(req.Notes)})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, request)
}

type SignRequest struct {
	PIN             string               `json:"pin" binding:"required"`
	Status          models.RequestStatus `json:"status" binding:"required"`
	RejectionReason string               `json:"rejectionReason"`
}

// Sign is the KADES decision on an approved request: SIGNED or
// REJECTED_BY_KADES, both PIN-gated.
func (ctl *LetterRequestController) Sign(c *gin.Context) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if req.Status != models.StatusSigned && req.Status != models.StatusRejectedByKades {
		respondError(c, utils.NewValidationError("Invalid request body", "status: must be SIGNED or REJECTED_BY_KADES"))
		return
	}

	request, err := ctl.Service.Transition(currentActor(c), requestID, req.Status,
		services.TransitionInput{Reason: utils.SanitizeInput(req.RejectionReason), PIN: req.PIN})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, request)
}

// Resubmit returns a rejected request to SUBMITTED.
func (ctl *LetterRequestController) Resubmit(c *gin.Context) {
	ctl.transitionEndpoint(c, models.StatusSubmitted)
}

// Complete marks a signed request COMPLETED.
func (ctl *LetterRequestController) Complete(c *gin.Context) {
	ctl.transitionEndpoint(c, models.StatusCompleted)
}

// Archive moves a completed request to the archive.
func (ctl *LetterRequestController) Archive(c *gin.Context) {
	ctl.transitionEndpoint(c, models.StatusArchived)
}

func (ctl *LetterRequestController) transitionEndpoint(c *gin.Context, target models.RequestStatus) {
	requestID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	request, err := ctl.Service.Transition(currentActor(c), requestID, target, services.TransitionInput{})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, request)
}

// saveAttachments stores all uploaded "attachments" files and returns
// their references.
func (ctl *LetterRequestController) saveAttachments(c *gin.Context) ([]services.AttachmentInput, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	files := form.File["attachments"]
	attachments := make([]services.AttachmentInput, 0, len(files))
	for _, file := range files {
		if file.Size > 10*1024*1024 {
			ctl.removeStored(attachments)
			return nil, utils.NewValidationError("File size exceeds 10MB limit")
		}
		if !isPDF(file) {
			ctl.removeStored(attachments)
			return nil, utils.NewValidationError("Attachments must be PDF files")
		}

		relPath, err := ctl.Storage.SaveMultipart(file, services.DirRequestAttachments)
		if err != nil {
			ctl.removeStored(attachments)
			return nil, err
		}
		attachments = append(attachments, services.AttachmentInput{
			FileName: file.Filename,
			FileURL:  relPath,
		})
	}
	return attachments, nil
}

func (ctl *LetterRequestController) removeStored(attachments []services.AttachmentInput) {
	for _, a := range attachments {
		ctl.Storage.Remove(a.FileURL)
	}
}

func isPDF(file *multipart.FileHeader) bool {
	return file.Header.Get("Content-Type") == "application/pdf"
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("Invalid id parameter")
	}
	return uint(id), nil
}
