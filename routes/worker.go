package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-booking-server/database"
	"worker-booking-server/models"
	"worker-booking-server/utils"
)

// RegisterWorkerRoutes registers worker directory routes
func RegisterWorkerRoutes(router *gin.RouterGroup) {
	// Create or update a worker profile
	router.POST("/register", registerWorker)

	// Search approved, active, free workers (or look up by owning user)
	router.GET("", searchWorkers)

	// Check availability for a given time window
	router.GET("/:id/availability", checkWorkerAvailability)
}

// registerWorker upserts the worker profile for a user. A second registration
// replaces jobs, location and availability but preserves approval, active and
// busy state along with the rating aggregate.
func registerWorker(c *gin.Context) {
	var req models.WorkerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Location.HasCoordinates() && !utils.IsLocationValid(*req.Location.Lat, *req.Location.Lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location coordinates"})
		return
	}

	slots, err := buildAvailabilitySlots(req.Availability)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobs := make([]models.WorkerJob, 0, len(req.Jobs))
	for _, job := range req.Jobs {
		price := job.PricePerHour
		if price <= 0 {
			price = utils.JobPrice(job.Name)
		}
		jobs = append(jobs, models.WorkerJob{Name: job.Name, PricePerHour: price})
	}

	var worker models.Worker
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", req.UserID).First(&worker)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}

			// First registration: starts unapproved and free
			worker = models.Worker{
				UserID:       req.UserID,
				Jobs:         jobs,
				Availability: slots,
				Location:     req.Location,
				ProfilePhoto: req.ProfilePhoto,
				IsActive:     true,
			}
			return tx.Create(&worker).Error
		}

		// Update: replace offerings and availability, keep state flags
		if err := tx.Where("worker_id = ?", worker.ID).Delete(&models.WorkerJob{}).Error; err != nil {
			return err
		}
		if err := tx.Where("worker_id = ?", worker.ID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		for i := range jobs {
			jobs[i].WorkerID = worker.ID
		}
		for i := range slots {
			slots[i].WorkerID = worker.ID
		}
		if len(jobs) > 0 {
			if err := tx.Create(&jobs).Error; err != nil {
				return err
			}
		}
		if len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"location_lat":     req.Location.Lat,
			"location_lng":     req.Location.Lng,
			"location_address": req.Location.Address,
		}
		if req.ProfilePhoto != nil {
			updates["profile_photo"] = req.ProfilePhoto
		}
		return tx.Model(&worker).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register worker"})
		return
	}

	var stored models.Worker
	if err := database.DB.Preload("Jobs").Preload("Availability").Preload("User").
		First(&stored, worker.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load worker"})
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func buildAvailabilitySlots(inputs []models.AvailabilitySlotInput) ([]models.AvailabilitySlot, error) {
	slots := make([]models.AvailabilitySlot, 0, len(inputs))
	for _, slot := range inputs {
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return nil, errors.New("availability day_of_week must be between 0 and 6")
		}
		start, okStart := models.ParseClockMinutes(slot.StartTime)
		end, okEnd := models.ParseClockMinutes(slot.EndTime)
		if !okStart || !okEnd {
			return nil, errors.New("availability times must be in HH:mm format")
		}
		if end <= start {
			return nil, errors.New("availability end_time must be after start_time")
		}
		slots = append(slots, models.AvailabilitySlot{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	return slots, nil
}

// searchWorkers lists approved, active, non-busy workers sorted by rating.
// With by_user it returns the owning user's record regardless of approval, so
// workers can always see their own profile.
func searchWorkers(c *gin.Context) {
	byUser := c.Query("by_user")
	if byUser == "" {
		byUser = c.Query("byUser")
	}

	if byUser != "" {
		userID, err := strconv.ParseUint(byUser, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var workers []models.Worker
		if err := database.DB.Where("user_id = ?", uint(userID)).
			Preload("Jobs").Preload("Availability").Preload("User").
			Limit(1).Find(&workers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch worker"})
			return
		}

		c.JSON(http.StatusOK, workers)
		return
	}

	query := database.DB.Model(&models.Worker{}).
		Where("workers.is_approved = ? AND workers.is_active = ? AND workers.is_busy = ?", true, true, false)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.
			Joins("JOIN worker_jobs ON worker_jobs.worker_id = workers.id").
			Where("LOWER(worker_jobs.name) LIKE ?", "%"+strings.ToLower(q)+"%").
			Distinct("workers.*")
	}

	var workers []models.Worker
	if err := query.
		Preload("Jobs").Preload("Availability").Preload("User").
		Order("workers.average_rating DESC, workers.review_count DESC").
		Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workers"})
		return
	}

	c.JSON(http.StatusOK, workers)
}

// checkWorkerAvailability reports whether a worker can take a booking in the
// [from, to] window: the window start must fall inside a configured
// availability slot and the worker must have no active booking scheduled in
// the window.
func checkWorkerAvailability(c *gin.Context) {
	workerID := c.Param("id")

	var worker models.Worker
	if err := database.DB.Preload("Availability").First(&worker, workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be an RFC 3339 timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be an RFC 3339 timestamp"})
		return
	}

	if !worker.IsAvailableAt(from) {
		c.JSON(http.StatusOK, gin.H{"is_available": false})
		return
	}

	var overlapping int64
	if err := database.DB.Model(&models.Booking{}).
		Where("worker_id = ? AND scheduled_at >= ? AND scheduled_at <= ? AND status IN ?",
			worker.ID, from, to, models.ActiveBookingStatuses).
		Count(&overlapping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_available": overlapping == 0})
}
