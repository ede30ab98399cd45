package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LetterTypeController struct {
	DB      *gorm.DB
	Storage *services.Storage
}

func NewLetterTypeController(db *gorm.DB, storage *services.Storage) *LetterTypeController {
	return &LetterTypeController{DB: db, Storage: storage}
}

func (ctl *LetterTypeController) List(c *gin.Context) {
	query := ctl.DB.Model(&models.LetterType{}).
		Preload("Category").
		Where("delete_at IS NULL")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var types []models.LetterType
	if err := query.Order("name ASC").Find(&types).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, types)
}

func (ctl *LetterTypeController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid letter type id"))
		return
	}

	var letterType models.LetterType
	if err := ctl.DB.
		Preload("Category").
		Where("letter_type_id = ? AND delete_at IS NULL", id).
		First(&letterType).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Letter type not found"))
		return
	}
	respondData(c, http.StatusOK, letterType)
}

// Create accepts multipart form data with optional icon and .docx
// template files.
func (ctl *LetterTypeController) Create(c *gin.Context) {
	name := utils.SanitizeInput(c.PostForm("name"))
	if name == "" {
		respondError(c, utils.NewValidationError("Invalid request body", "name: required"))
		return
	}
	categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid request body", "category_id: required"))
		return
	}

	var categoryCount int64
	ctl.DB.Model(&models.LetterCategory{}).
		Where("category_id = ? AND delete_at IS NULL", categoryID).
		Count(&categoryCount)
	if categoryCount == 0 {
		respondError(c, utils.NewNotFoundError("Letter category not found"))
		return
	}

	now := time.Now()
	letterType := models.LetterType{
		CategoryID:     uint(categoryID),
		Name:           name,
		Description:    utils.SanitizeInput(c.PostForm("description")),
		Requirements:   utils.SanitizeInput(c.PostForm("requirements")),
		HasSecondParty: c.PostForm("has_second_party") == "true",
		CreateAt:       now,
		UpdateAt:       now,
	}

	if err := ctl.saveAssets(c, &letterType); err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.DB.Create(&letterType).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, letterType)
}

// Update replaces fields and, when new files are sent, the stored
// icon/template assets.
func (ctl *LetterTypeController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid letter type id"))
		return
	}

	var letterType models.LetterType
	if err := ctl.DB.
		Where("letter_type_id = ? AND delete_at IS NULL", id).
		First(&letterType).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Letter type not found"))
		return
	}

	if name := utils.SanitizeInput(c.PostForm("name")); name != "" {
		letterType.Name = name
	}
	if desc, ok := c.GetPostForm("description"); ok {
		letterType.Description = utils.SanitizeInput(desc)
	}
	if reqs, ok := c.GetPostForm("requirements"); ok {
		letterType.Requirements = utils.SanitizeInput(reqs)
	}
	if hasSecond, ok := c.GetPostForm("has_second_party"); ok {
		letterType.HasSecondParty = hasSecond == "true"
	}
	if categoryID, ok := c.GetPostForm("category_id"); ok {
		parsed, err := strconv.ParseUint(categoryID, 10, 64)
		if err != nil {
			respondError(c, utils.NewValidationError("Invalid request body", "category_id: must be numeric"))
			return
		}
		letterType.CategoryID = uint(parsed)
	}

	if err := ctl.saveAssets(c, &letterType); err != nil {
		respondError(c, err)
		return
	}

	letterType.UpdateAt = time.Now()
	if err := ctl.DB.Save(&letterType).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, letterType)
}

// saveAssets stores uploaded icon/template files and records their
// paths on the letter type. Templates must be .docx.
func (ctl *LetterTypeController) saveAssets(c *gin.Context, letterType *models.LetterType) error {
	if icon, err := c.FormFile("icon"); err == nil {
		relPath, err := ctl.Storage.SaveMultipart(icon, services.DirLetterTypeIcons)
		if err != nil {
			return err
		}
		letterType.IconPath = &relPath
	}

	if template, err := c.FormFile("template"); err == nil {
		if strings.ToLower(filepath.Ext(template.Filename)) != ".docx" {
			return utils.NewValidationError("Invalid request body", "template: must be a .docx file")
		}
		relPath, err := ctl.Storage.SaveMultipart(template, services.DirLetterTemplates)
		if err != nil {
			return err
		}
		letterType.TemplatePath = &relPath
	}

	return nil
}

func (ctl *LetterTypeController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid letter type id"))
		return
	}

	var open int64
	ctl.DB.Model(&models.LetterRequest{}).
		Where("letter_type_id = ? AND status NOT IN ? AND delete_at IS NULL",
			id, []models.RequestStatus{models.StatusCompleted, models.StatusArchived}).
		Count(&open)
	if open > 0 {
		respondError(c, utils.NewConflictError("Letter type still has open requests"))
		return
	}

	now := time.Now()
	result := ctl.DB.Model(&models.LetterType{}).
		Where("letter_type_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, utils.NewNotFoundError("Letter type not found"))
		return
	}
	respondMessage(c, http.StatusOK, "Letter type deleted")
}
