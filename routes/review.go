package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worker-booking-server/database"
	"worker-booking-server/models"
)

// RegisterReviewRoutes registers review routes
func RegisterReviewRoutes(router *gin.RouterGroup) {
	router.POST("", submitReview)
}

// submitReview records a client's rating of a completed booking and
// recomputes the worker's rating aggregate. The composite unique index on
// (booking_id, user_id) backs the one-review-per-booking rule even when two
// submissions race past the clientReviewed check.
func submitReview(c *gin.Context) {
	var req models.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be an integer between 1 and 5"})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, req.BookingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.UserID != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only review your own bookings"})
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bookings can only be reviewed after completion"})
		return
	}
	if booking.WorkerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking has no assigned worker"})
		return
	}
	if booking.ClientReviewed {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already reviewed"})
		return
	}

	review := models.Review{
		BookingID: booking.ID,
		UserID:    req.UserID,
		WorkerID:  *booking.WorkerID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("client_reviewed", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Booking already reviewed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if err := updateWorkerRatingStats(*booking.WorkerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Review created but failed to update worker rating"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// updateWorkerRatingStats recomputes a worker's rating aggregate from all of
// their reviews. A full recompute stays correct under concurrent insertions,
// which an incremental update would not.
func updateWorkerRatingStats(workerID uint) error {
	var stats struct {
		AverageRating float64
		ReviewCount   int64
	}
	if err := database.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("worker_id = ?", workerID).
		Scan(&stats).Error; err != nil {
		return err
	}

	return database.DB.Model(&models.Worker{}).
		Where("id = ?", workerID).
		Updates(map[string]interface{}{
			"average_rating": stats.AverageRating,
			"review_count":   stats.ReviewCount,
		}).Error
}
