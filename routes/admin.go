package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"worker-booking-server/database"
	"worker-booking-server/models"
)

// RegisterAdminRoutes registers admin dashboard routes. The caller is
// expected to guard the group with middleware.RequireAdmin.
func RegisterAdminRoutes(router *gin.RouterGroup) {
	// Rosters
	router.GET("/workers", listAllWorkers)
	router.GET("/users", listAllUsers)

	// Worker state transitions
	router.POST("/workers/:id/approve", approveWorker)
	router.POST("/workers/:id/fire", fireWorker)
	router.POST("/workers/:id/rehire", rehireWorker)

	// Completed visit history
	router.GET("/workers/:id/visits", listWorkerVisits)
	router.GET("/users/:id/visits", listUserVisits)
}

// listAllWorkers returns every worker regardless of approval state, for the
// admin dashboard.
func listAllWorkers(c *gin.Context) {
	var workers []models.Worker
	if err := database.DB.
		Preload("Jobs").Preload("User").
		Order("created_at DESC").
		Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workers"})
		return
	}

	c.JSON(http.StatusOK, workers)
}

func listAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func approveWorker(c *gin.Context) {
	setWorkerFlag(c, "is_approved", true)
}

func fireWorker(c *gin.Context) {
	setWorkerFlag(c, "is_active", false)
}

func rehireWorker(c *gin.Context) {
	setWorkerFlag(c, "is_active", true)
}

// setWorkerFlag flips a single worker state flag. These transitions always
// succeed for an existing worker and never touch bookings.
func setWorkerFlag(c *gin.Context, column string, value bool) {
	var worker models.Worker
	if err := database.DB.First(&worker, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	if err := database.DB.Model(&worker).Update(column, value).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker"})
		return
	}

	if err := database.DB.Preload("Jobs").Preload("User").First(&worker, worker.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load worker"})
		return
	}

	c.JSON(http.StatusOK, worker)
}

// listWorkerVisits returns a worker's completed bookings.
func listWorkerVisits(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.
		Where("worker_id = ? AND status = ?", c.Param("id"), models.BookingStatusCompleted).
		Preload("User").
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visits"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// listUserVisits returns a client's completed bookings.
func listUserVisits(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.
		Where("user_id = ? AND status = ?", c.Param("id"), models.BookingStatusCompleted).
		Preload("Worker").Preload("Worker.User").
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visits"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
