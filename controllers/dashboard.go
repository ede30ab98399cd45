package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetStats returns dashboard statistics. Staff see village-wide
// numbers; WARGA see only their own requests.
func (ctl *DashboardController) GetStats(c *gin.Context) {
	actor := currentActor(c)

	var residentID uint
	if actor.Role == models.RoleWarga {
		var resident models.Resident
		if err := ctl.DB.Where("user_id = ? AND delete_at IS NULL", actor.UserID).
			First(&resident).Error; err == nil {
			residentID = resident.ResidentID
		}
	}

	stats := gin.H{
		"current_date":  time.Now().Format("2006-01-02"),
		"by_status":     ctl.countByStatus(residentID),
		"monthly_trend": ctl.monthlyTrend(residentID, 12),
		"recent":        ctl.recentRequests(residentID, 5),
	}

	if actor.Role != models.RoleWarga {
		var residents, letterTypes int64
		ctl.DB.Model(&models.Resident{}).Where("delete_at IS NULL").Count(&residents)
		ctl.DB.Model(&models.LetterType{}).Where("delete_at IS NULL").Count(&letterTypes)
		stats["total_residents"] = residents
		stats["total_letter_types"] = letterTypes
	}

	respondData(c, http.StatusOK, stats)
}

func (ctl *DashboardController) scoped(residentID uint) *gorm.DB {
	query := ctl.DB.Model(&models.LetterRequest{}).Where("delete_at IS NULL")
	if residentID != 0 {
		query = query.Where("resident_id = ?", residentID)
	}
	return query
}

func (ctl *DashboardController) countByStatus(residentID uint) gin.H {
	counts := gin.H{}
	var total int64
	ctl.scoped(residentID).Count(&total)
	counts["total"] = total

	for _, status := range []models.RequestStatus{
		models.StatusSubmitted,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusSigned,
		models.StatusRejectedByKades,
		models.StatusCompleted,
		models.StatusArchived,
	} {
		var count int64
		ctl.scoped(residentID).Where("status = ?", status).Count(&count)
		counts[string(status)] = count
	}
	return counts
}

// monthlyTrend counts requests opened per calendar month over the last
// N months, oldest first.
func (ctl *DashboardController) monthlyTrend(residentID uint, months int) []gin.H {
	trend := make([]gin.H, 0, months)
	now := time.Now()

	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var count int64
		ctl.scoped(residentID).
			Where("request_date >= ? AND request_date < ?", monthStart, monthEnd).
			Count(&count)

		trend = append(trend, gin.H{
			"month": fmt.Sprintf("%04d-%02d", monthStart.Year(), int(monthStart.Month())),
			"count": count,
		})
	}
	return trend
}

func (ctl *DashboardController) recentRequests(residentID uint, limit int) []models.LetterRequest {
	query := ctl.DB.
		Preload("Resident").
		Preload("LetterType").
		Where("delete_at IS NULL")
	if residentID != 0 {
		query = query.Where("resident_id = ?", residentID)
	}

	var requests []models.LetterRequest
	query.Order("create_at DESC").Limit(limit).Find(&requests)
	return requests
}
