package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LetterCategoryController struct {
	DB *gorm.DB
}

func NewLetterCategoryController(db *gorm.DB) *LetterCategoryController {
	return &LetterCategoryController{DB: db}
}

func (ctl *LetterCategoryController) List(c *gin.Context) {
	var categories []models.LetterCategory
	if err := ctl.DB.
		Preload("LetterTypes", "delete_at IS NULL").
		Where("delete_at IS NULL").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

func (ctl *LetterCategoryController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid category id"))
		return
	}

	var category models.LetterCategory
	if err := ctl.DB.
		Preload("LetterTypes", "delete_at IS NULL").
		Where("category_id = ? AND delete_at IS NULL", id).
		First(&category).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Letter category not found"))
		return
	}
	respondData(c, http.StatusOK, category)
}

type LetterCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (ctl *LetterCategoryController) Create(c *gin.Context) {
	var req LetterCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	var existing int64
	ctl.DB.Model(&models.LetterCategory{}).
		Where("name = ? AND delete_at IS NULL", req.Name).
		Count(&existing)
	if existing > 0 {
		respondError(c, utils.NewConflictError("A category with this name already exists"))
		return
	}

	now := time.Now()
	category := models.LetterCategory{
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
		CreateAt:    now,
		UpdateAt:    now,
	}
	if err := ctl.DB.Create(&category).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, category)
}

func (ctl *LetterCategoryController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid category id"))
		return
	}

	var req LetterCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	var category models.LetterCategory
	if err := ctl.DB.
		Where("category_id = ? AND delete_at IS NULL", id).
		First(&category).Error; err != nil {
		respondError(c, utils.NewNotFoundError("Letter category not found"))
		return
	}

	if err := ctl.DB.Model(&category).Updates(map[string]interface{}{
		"name":        utils.SanitizeInput(req.Name),
		"description": utils.SanitizeInput(req.Description),
		"update_at":   time.Now(),
	}).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

func (ctl *LetterCategoryController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, utils.NewValidationError("Invalid category id"))
		return
	}

	var inUse int64
	ctl.DB.Model(&models.LetterType{}).
		Where("category_id = ? AND delete_at IS NULL", id).
		Count(&inUse)
	if inUse > 0 {
		respondError(c, utils.NewConflictError("Category still has letter types"))
		return
	}

	now := time.Now()
	result := ctl.DB.Model(&models.LetterCategory{}).
		Where("category_id = ? AND delete_at IS NULL", id).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now})
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, utils.NewNotFoundError("Letter category not found"))
		return
	}
	respondMessage(c, http.StatusOK, "Letter category deleted")
}
