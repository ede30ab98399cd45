package routes

import (
	"net/http"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/controllers"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/middleware"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers bundles every HTTP controller the router mounts.
type Controllers struct {
	Auth           *controllers.AuthController
	Resident       *controllers.ResidentController
	LetterCategory *controllers.LetterCategoryController
	LetterType     *controllers.LetterTypeController
	LetterRequest  *controllers.LetterRequestController
	PrintedLetter  *controllers.PrintedLetterController
	Notification   *controllers.NotificationController
	Dashboard      *controllers.DashboardController
}

func SetupRoutes(router *gin.Engine, db *gorm.DB, ctl Controllers) {
	api := router.Group("/api")
	{
		// Public routes
		public := api.Group("")
		{
			public.POST("/auth/register", ctl.Auth.Register)
			public.POST("/auth/login", ctl.Auth.Login)
			public.POST("/auth/refresh", ctl.Auth.RefreshToken)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Village letter service is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			staff := middleware.RequireRole(models.RoleAdmin, models.RoleKades)
			adminOnly := middleware.RequireRole(models.RoleAdmin)
			kadesOnly := middleware.RequireRole(models.RoleKades)

			// Account
			protected.GET("/auth/profile", ctl.Auth.GetProfile)
			protected.PUT("/auth/change-password", ctl.Auth.ChangePassword)
			protected.PUT("/auth/pin", kadesOnly, ctl.Auth.SetPIN)

			// Residents
			residents := protected.Group("/residents")
			{
				residents.GET("/me", ctl.Resident.GetMe)
				residents.PUT("/me", ctl.Resident.UpdateMe)
				residents.GET("", staff, ctl.Resident.List)
				residents.GET("/:id", staff, ctl.Resident.Get)
				residents.PUT("/:id", adminOnly, ctl.Resident.Update)
				residents.DELETE("/:id", adminOnly, ctl.Resident.Delete)

				residents.POST("/me/documents", ctl.Resident.UploadDocument)
				residents.GET("/:id/documents", ctl.Resident.ListDocuments)
				residents.DELETE("/documents/:id", ctl.Resident.DeleteDocument)
			}

			// Letter categories
			categories := protected.Group("/letter-categories")
			{
				categories.GET("", ctl.LetterCategory.List)
				categories.GET("/:id", ctl.LetterCategory.Get)
				categories.POST("", adminOnly, ctl.LetterCategory.Create)
				categories.PUT("/:id", adminOnly, ctl.LetterCategory.Update)
				categories.DELETE("/:id", adminOnly, ctl.LetterCategory.Delete)
			}

			// Letter types
			letterTypes := protected.Group("/letter-types")
			{
				letterTypes.GET("", ctl.LetterType.List)
				letterTypes.GET("/:id", ctl.LetterType.Get)
				letterTypes.POST("", adminOnly, ctl.LetterType.Create)
				letterTypes.PUT("/:id", adminOnly, ctl.LetterType.Update)
				letterTypes.DELETE("/:id", adminOnly, ctl.LetterType.Delete)
			}

			// Letter requests
			requests := protected.Group("/letter-requests")
			{
				requests.GET("", ctl.LetterRequest.List)
				requests.GET("/:id", ctl.LetterRequest.Get)
				requests.POST("", middleware.RequireRole(models.RoleWarga), ctl.LetterRequest.Create)
				requests.PUT("/:id", middleware.RequireRole(models.RoleWarga), ctl.LetterRequest.Update)
				requests.DELETE("/:id", ctl.LetterRequest.Delete)

				requests.PUT("/:id/verify", adminOnly, ctl.LetterRequest.Verify)
				requests.PUT("/:id/sign", kadesOnly, ctl.LetterRequest.Sign)
				requests.PUT("/:id/resubmit", middleware.RequireRole(models.RoleWarga), ctl.LetterRequest.Resubmit)
				requests.PUT("/:id/complete", staff, ctl.LetterRequest.Complete)
				requests.PUT("/:id/archive", staff, ctl.LetterRequest.Archive)
			}

			// Printed letters
			printed := protected.Group("/printed-letters")
			{
				printed.POST("/print/:id", staff, ctl.PrintedLetter.Print)
				printed.GET("/preview/:id", staff, ctl.PrintedLetter.Preview)
				printed.GET("/download/:fileName", ctl.PrintedLetter.Download)
				printed.GET("/resident/:residentId", staff, ctl.PrintedLetter.ListByResident)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", ctl.Notification.List)
				notifications.GET("/unread-count", ctl.Notification.UnreadCount)
				notifications.PUT("/:id/read", ctl.Notification.MarkRead)
				notifications.PUT("/read-all", ctl.Notification.MarkAllRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", ctl.Dashboard.GetStats)
		}
	}
}
