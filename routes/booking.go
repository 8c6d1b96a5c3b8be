package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"worker-booking-server/database"
	"worker-booking-server/models"
	"worker-booking-server/utils"
)

// RegisterBookingRoutes registers booking lifecycle routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	// Create a booking (broadcast by default)
	router.POST("", createBooking)

	// List bookings for a client
	router.GET("/user/:userId", listUserBookings)

	// List bookings assigned to a worker
	router.GET("/worker/:workerId", listWorkerBookings)

	// List open bookings a worker is eligible to claim
	router.GET("/open-for-worker/:workerId", listOpenBookingsForWorker)

	// Lifecycle transitions
	router.PATCH("/:id/accept", acceptBooking)
	router.PATCH("/:id/mark-done", markBookingDone)
	router.PATCH("/:id/cancel-worker", cancelBookingByWorker)
	router.PATCH("/:id/cancel-client", cancelBookingByClient)
}

// createBooking creates a pending booking. The canonical flow leaves the
// worker unset and lets eligible workers claim it; passing worker_id uses the
// deprecated direct-assignment path and computes the ETA up front.
func createBooking(c *gin.Context) {
	var req models.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be an RFC 3339 timestamp"})
		return
	}

	var scheduledTo *time.Time
	if req.ScheduledTo != "" {
		to, err := time.Parse(time.RFC3339, req.ScheduledTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_to must be an RFC 3339 timestamp"})
			return
		}
		if !to.After(scheduledAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_to must be after scheduled_at"})
			return
		}
		scheduledTo = &to
	}

	if req.Location.HasCoordinates() && !utils.IsLocationValid(*req.Location.Lat, *req.Location.Lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location coordinates"})
		return
	}

	booking := models.Booking{
		UserID:      req.UserID,
		JobName:     req.JobName,
		Description: req.Description,
		ScheduledAt: scheduledAt,
		ScheduledTo: scheduledTo,
		Location:    req.Location,
		Status:      models.BookingStatusPending,
	}

	// Deprecated direct-assignment path: worker chosen at creation time,
	// ETA estimated immediately from the worker's location.
	if req.WorkerID != nil {
		var worker models.Worker
		if err := database.DB.First(&worker, *req.WorkerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
			return
		}

		workerLocation := worker.Location
		if req.WorkerLocation != nil {
			workerLocation = *req.WorkerLocation
		}

		booking.WorkerID = &worker.ID
		booking.EtaMinutes = utils.EstimateETAMinutes(
			workerLocation.Lat, workerLocation.Lng,
			req.Location.Lat, req.Location.Lng,
		)
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// listUserBookings returns all bookings created by a client, newest first,
// with the assigned worker populated.
func listUserBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.Where("user_id = ?", c.Param("userId")).
		Preload("Worker").Preload("Worker.User").Preload("User").
		Order("scheduled_at DESC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// listWorkerBookings returns all bookings assigned to a worker.
func listWorkerBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.Where("worker_id = ?", c.Param("workerId")).
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// listOpenBookingsForWorker returns pending unassigned bookings that match
// the worker's offered jobs, oldest first so workers see a fair queue. A
// fired or unapproved worker sees nothing.
func listOpenBookingsForWorker(c *gin.Context) {
	var worker models.Worker
	if err := database.DB.Preload("Jobs").First(&worker, c.Param("workerId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	jobNames := worker.JobNames()
	if !worker.IsActive || !worker.IsApproved || len(jobNames) == 0 {
		c.JSON(http.StatusOK, []models.Booking{})
		return
	}

	var bookings []models.Booking
	if err := database.DB.
		Where("status = ? AND worker_id IS NULL AND job_name IN ?", models.BookingStatusPending, jobNames).
		Preload("User").
		Order("created_at ASC").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch open bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// acceptBooking claims a pending unassigned booking for a worker. The claim
// is a single conditional update: first accept wins, every later attempt
// sees zero affected rows and gets a conflict.
func acceptBooking(c *gin.Context) {
	var req struct {
		WorkerID uint `json:"worker_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var worker models.Worker
	if err := database.DB.First(&worker, req.WorkerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}
	if !worker.IsActive || !worker.IsApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Worker is not active or not approved"})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	result := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ? AND worker_id IS NULL", booking.ID, models.BookingStatusPending).
		Updates(map[string]interface{}{
			"status":    models.BookingStatusAccepted,
			"worker_id": worker.ID,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept booking"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already taken by another worker"})
		return
	}

	// A freshly accepted job always marks the worker busy
	if err := database.DB.Model(&models.Worker{}).
		Where("id = ?", worker.ID).
		Update("is_busy", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker status"})
		return
	}

	if err := database.DB.Preload("Worker").Preload("User").First(&booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// markBookingDone records one side's completion confirmation. The booking
// only advances to completed once both the client and the worker confirmed.
func markBookingDone(c *gin.Context) {
	var req struct {
		By string `json:"by" binding:"required,oneof=client worker"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if req.By == "client" {
		booking.ClientDone = true
	} else {
		booking.WorkerDone = true
	}
	if booking.ClientDone && booking.WorkerDone && !booking.IsTerminal() {
		booking.Status = models.BookingStatusCompleted
	}

	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"client_done": booking.ClientDone,
		"worker_done": booking.WorkerDone,
		"status":      booking.Status,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	// The worker may still carry other active bookings, so recompute rather
	// than clear
	if booking.WorkerID != nil {
		if err := recomputeWorkerBusy(*booking.WorkerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker status"})
			return
		}
	}

	c.JSON(http.StatusOK, booking)
}

// cancelBookingByWorker cancels an assigned booking on the worker's behalf.
// Caller identity is trusted here; the transport layer is responsible for
// making sure only the assigned worker reaches this endpoint.
func cancelBookingByWorker(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already completed or cancelled"})
		return
	}

	booking.Status = models.BookingStatusCancelled
	booking.WorkerDone = false
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":      booking.Status,
		"worker_done": false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	if booking.WorkerID != nil {
		if err := recomputeWorkerBusy(*booking.WorkerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker status"})
			return
		}
	}

	c.JSON(http.StatusOK, booking)
}

// cancelBookingByClient cancels a booking on behalf of the owning client.
func cancelBookingByClient(c *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.UserID != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		return
	}
	if booking.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is already completed or cancelled"})
		return
	}

	booking.Status = models.BookingStatusCancelled
	booking.ClientDone = false
	booking.WorkerDone = false
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":      booking.Status,
		"client_done": false,
		"worker_done": false,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	if booking.WorkerID != nil {
		if err := recomputeWorkerBusy(*booking.WorkerID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update worker status"})
			return
		}
	}

	c.JSON(http.StatusOK, booking)
}

// recomputeWorkerBusy derives is_busy from the worker's live count of
// pending or accepted bookings. Safe to run redundantly.
func recomputeWorkerBusy(workerID uint) error {
	var active int64
	if err := database.DB.Model(&models.Booking{}).
		Where("worker_id = ? AND status IN ?", workerID, models.ActiveBookingStatuses).
		Count(&active).Error; err != nil {
		return err
	}

	return database.DB.Model(&models.Worker{}).
		Where("id = ?", workerID).
		Update("is_busy", active > 0).Error
}
