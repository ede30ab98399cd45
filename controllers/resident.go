package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ResidentController struct {
	DB      *gorm.DB
	Storage *services.Storage
}

func NewResidentController(db *gorm.DB, storage *services.Storage) *ResidentController {
	return &ResidentController{DB: db, Storage: storage}
}

// GetMe returns the caller's resident profile.
func (ctl *ResidentController) GetMe(c *gin.Context) {
	actor := currentActor(c)

	var resident models.Resident
	if err := ctl.DB.
		Preload("Documents", "delete_at IS NULL").
		Where("user_id = ? AND delete_at IS NULL", actor.UserID).
		First(&resident).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Resident profile not found"))
		return
	}

	respondData(c, http.StatusOK, resident)
}

type ResidentProfileRequest struct {
	FullName        string     `json:"full_name" binding:"required"`
	PlaceOfBirth    string     `json:"place_of_birth"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Gender          string     `json:"gender"`
	Religion        string     `json:"religion"`
	MaritalStatus   string     `json:"marital_status"`
	Occupation      string     `json:"occupation"`
	Nationality     string     `json:"nationality"`
	RT              string     `json:"rt"`
	RW              string     `json:"rw"`
	Dusun           string     `json:"dusun"`
	Desa            string     `json:"desa"`
	Kecamatan       string     `json:"kecamatan"`
	Kabupaten       string     `json:"kabupaten"`
	Provinsi        string     `json:"provinsi"`
	DomicileAddress string     `json:"domicile_address"`
}

// UpdateMe fills in the caller's demographic profile.
func (ctl *ResidentController) UpdateMe(c *gin.Context) {
	var req ResidentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if req.Gender != "" {
		gender := models.Gender(req.Gender)
		if gender != models.GenderMale && gender != models.GenderFemale {
			respondError(c, utils.NewValidationError("Invalid request body", "gender: must be LAKI_LAKI or PEREMPUAN"))
			return
		}
	}

	actor := currentActor(c)

	var resident models.Resident
	if err := ctl.DB.
		Where("user_id = ? AND delete_at IS NULL", actor.UserID).
		First(&resident).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Resident profile not found"))
		return
	}

	if err := ctl.DB.Model(&resident).Updates(profileUpdates(&req)).Error; err != nil {
		respondError(c, err)
		return
	}

	ctl.DB.Preload("Documents", "delete_at IS NULL").First(&resident, resident.ResidentID)
	respondData(c, http.StatusOK, resident)
}

// List returns residents for staff, paginated and searchable.
func (ctl *ResidentController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	query := ctl.DB.Model(&models.Resident{}).Where("delete_at IS NULL")
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR nik LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var residents []models.Resident
	if err := query.
		Preload("User").
		Order("full_name ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&residents).Error; err != nil {
		respondError(c, err)
		return
	}

	totalPage := int(total) / size
	if int(total)%size != 0 {
		totalPage++
	}
	respondPage(c, residents, services.Paging{
		Size:        size,
		CurrentPage: page,
		Total:       total,
		TotalPage:   totalPage,
	})
}

// Get returns one resident for staff.
func (ctl *ResidentController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid resident id"))
		return
	}

	var resident models.Resident
	if err := ctl.DB.
		Preload("User").
		Preload("Documents", "delete_at IS NULL").
		Where("resident_id = ? AND delete_at IS NULL", id).
		First(&resident).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Resident not found"))
		return
	}

	respondData(c, http.StatusOK, resident)
}

func profileUpdates(req *ResidentProfileRequest) map[string]interface{} {
	return map[string]interface{}{
		"full_name":        utils.SanitizeInput(req.FullName),
		"place_of_birth":   utils.SanitizeInput(req.PlaceOfBirth),
		"date_of_birth":    req.DateOfBirth,
		"gender":           req.Gender,
		"religion":         utils.SanitizeInput(req.Religion),
		"marital_status":   utils.SanitizeInput(req.MaritalStatus),
		"occupation":       utils.SanitizeInput(req.Occupation),
		"nationality":      utils.SanitizeInput(req.Nationality),
		"rt":               req.RT,
		"rw":               req.RW,
		"dusun":            utils.SanitizeInput(req.Dusun),
		"desa":             utils.SanitizeInput(req.Desa),
		"kecamatan":        utils.SanitizeInput(req.Kecamatan),
		"kabupaten":        utils.SanitizeInput(req.Kabupaten),
		"provinsi":         utils.SanitizeInput(req.Provinsi),
		"domicile_address": utils.SanitizeInput(req.DomicileAddress),
		"update_at":        time.Now(),
	}
}

// Update lets staff correct any resident's demographic profile.
func (ctl *ResidentController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid resident id"))
		return
	}

	var req ResidentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if req.Gender != "" {
		gender := models.Gender(req.Gender)
		if gender != models.GenderMale && gender != models.GenderFemale {
			respondError(c, utils.NewValidationError("Invalid request body", "gender: must be LAKI_LAKI or PEREMPUAN"))
			return
		}
	}

	var resident models.Resident
	if err := ctl.DB.
		Where("resident_id = ? AND delete_at IS NULL", id).
		First(&resident).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Resident not found"))
		return
	}

	if err := ctl.DB.Model(&resident).Updates(profileUpdates(&req)).Error; err != nil {
		respondError(c, err)
		return
	}

	ctl.DB.Preload("Documents", "delete_at IS NULL").First(&resident, resident.ResidentID)
	respondData(c, http.StatusOK, resident)
}

// Delete soft-deletes a resident profile. Blocked while the resident
// still has unfinished letter requests.
func (ctl *ResidentController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid resident id"))
		return
	}

	var open int64
	ctl.DB.Model(&models.LetterRequest{}).
		Where("resident_id = ? AND status NOT IN ? AND delete_at IS NULL",
			id, []models.RequestStatus{models.StatusCompleted, models.StatusArchived}).
		Count(&open)
	if open > 0 {
		respondError(c, utils.NewConflictError("Resident still has unfinished letter requests"))
		return
	}

	now := time.Now()
	result := ctl.DB.Model(&models.Resident{}).
		Where("resident_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, utils.NewNotFoundError("Resident not found"))
		return
	}

	respondMessage(c, http.StatusOK, "Resident deleted")
}

// UploadDocument stores one supporting file on the caller's profile.
func (ctl *ResidentController) UploadDocument(c *gin.Context) {
	actor := currentActor(c)

	var resident models.Resident
	if err := ctl.DB.
		Where("user_id = ? AND delete_at IS NULL", actor.UserID).
		First(&resident).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Resident profile not found"))
		return
	}

	docType := c.PostForm("document_type")
	if docType == "" {
		respondError(c, utils.NewValidationError("Invalid request body", "document_type: required"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid request body", "file: required"))
		return
	}
	if file.Size > 10*1024*1024 {
		respondError(c, utils.NewValidationError("File size exceeds 10MB limit"))
		return
	}
	if !isAllowedAttachmentType(file) {
		respondError(c, utils.NewValidationError("File type not allowed"))
		return
	}

	relPath, err := ctl.Storage.SaveMultipart(file, services.DirResidentDocuments)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	doc := models.ResidentDocument{
		ResidentID:   resident.ResidentID,
		DocumentType: utils.SanitizeInput(docType),
		FileName:     file.Filename,
		FileURL:      relPath,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if err := ctl.DB.Create(&doc).Error; err != nil {
		ctl.Storage.Remove(relPath)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, doc)
}

// ListDocuments returns a resident's supporting files; WARGA only see
// their own.
func (ctl *ResidentController) ListDocuments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid resident id"))
		return
	}

	actor := currentActor(c)
	if actor.Role == models.RoleWarga {
		var owned int64
		ctl.DB.Model(&models.Resident{}).
			Where("resident_id = ? AND user_id = ? AND delete_at IS NULL", id, actor.UserID).
			Count(&owned)
		if owned == 0 {
			respondError(c, utils.NewForbiddenError("You may only view your own documents"))
			return
		}
	}

	var docs []models.ResidentDocument
	if err := ctl.DB.
		Where("resident_id = ? AND delete_at IS NULL", id).
		Order("create_at DESC").
		Find(&docs).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, docs)
}

// DeleteDocument soft-deletes a supporting file (owner or ADMIN).
func (ctl *ResidentController) DeleteDocument(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid document id"))
		return
	}

	var doc models.ResidentDocument
	if err := ctl.DB.
		Where("document_id = ? AND delete_at IS NULL", id).
		First(&doc).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Document not found"))
		return
	}

	actor := currentActor(c)
	if actor.Role != models.RoleAdmin {
		var owned int64
		ctl.DB.Model(&models.Resident{}).
			Where("resident_id = ? AND user_id = ? AND delete_at IS NULL", doc.ResidentID, actor.UserID).
			Count(&owned)
		if owned == 0 {
			respondError(c, utils.NewForbiddenError("You may only delete your own documents"))
			return
		}
	}

	now := time.Now()
	if err := ctl.DB.Model(&doc).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error; err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Document deleted")
}

// isAllowedAttachmentType restricts uploads to PDFs and images.
func isAllowedAttachmentType(file *multipart.FileHeader) bool {
	allowedTypes := map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
	}
	return allowedTypes[file.Header.Get("Content-Type")]
}
