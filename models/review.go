package models

import (
	"time"
)

// Review is a client's rating of a completed booking. The composite unique
// index keeps it to one review per (booking, client) pair even when two
// submissions race.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BookingID uint      `json:"booking_id" gorm:"uniqueIndex:idx_reviews_booking_user;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_reviews_booking_user;not null"`
	WorkerID  uint      `json:"worker_id" gorm:"index;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"size:1000"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Worker  Worker  `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreateRequest is the payload for submitting a review.
type ReviewCreateRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	UserID    uint   `json:"user_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}
