package routes

import (
	"github.com/gin-gonic/gin"

	"worker-booking-server/middleware"
)

// SetupRoutes mounts the full API surface under /api/v1.
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		RegisterAuthRoutes(api.Group("/auth"))
		RegisterWorkerRoutes(api.Group("/workers"))
		RegisterBookingRoutes(api.Group("/bookings"))
		RegisterReviewRoutes(api.Group("/reviews"))

		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.RequireAdmin())
		RegisterAdminRoutes(adminRoutes)
	}
}
