package controllers

import (
	"net/http"
	"strconv"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// List returns the caller's notifications, newest first.
func (ctl *NotificationController) List(c *gin.Context) {
	actor := currentActor(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	query := ctl.DB.Model(&models.Notification{}).Where("user_id = ?", actor.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var notifications []models.Notification
	if err := query.
		Order("create_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&notifications).Error; err != nil {
		respondError(c, err)
		return
	}

	totalPage := int((total + int64(size) - 1) / int64(size))
	respondPage(c, notifications, services.Paging{
		Size:        size,
		TotalPage:   totalPage,
		CurrentPage: page,
		Total:       total,
	})
}

// UnreadCount returns how many notifications the caller has not read.
func (ctl *NotificationController) UnreadCount(c *gin.Context) {
	actor := currentActor(c)

	var count int64
	if err := ctl.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"count": count})
}

// MarkRead marks one of the caller's notifications as read.
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	actor := currentActor(c)

	notificationID, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	result := ctl.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, actor.UserID).
		Update("is_read", true)
	if result.Error != nil {
		respondError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, utils.NewNotFoundError("Notification not found"))
		return
	}

	respondMessage(c, http.StatusOK, "Notification marked as read")
}

// MarkAllRead marks every unread notification of the caller as read.
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	actor := currentActor(c)

	if err := ctl.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Update("is_read", true).Error; err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "All notifications marked as read")
}
