package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that count toward a worker being
// busy.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusAccepted}

type Booking struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"index;not null"`
	WorkerID    *uint         `json:"worker_id"` // unset until a worker claims the booking
	JobName     string        `json:"job_name" gorm:"size:100;not null"`
	Description string        `json:"description" gorm:"size:1000"`
	ScheduledAt time.Time     `json:"scheduled_at" gorm:"not null"`
	ScheduledTo *time.Time    `json:"scheduled_to"`
	Location    GeoPoint      `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','accepted','completed','cancelled')"`
	EtaMinutes  *int          `json:"eta_minutes"`
	ClientDone  bool          `json:"client_done" gorm:"default:false"`
	WorkerDone  bool          `json:"worker_done" gorm:"default:false"`

	// ClientReviewed flips once the owning client has reviewed the completed
	// booking; the reviews table enforces the uniqueness behind it.
	ClientReviewed bool `json:"client_reviewed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User   User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Worker *Worker `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal reports whether the booking reached a terminal status.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// BookingCreateRequest is the payload for creating a booking. WorkerID and
// WorkerLocation belong to the deprecated direct-assignment path; the
// canonical flow leaves them empty and lets a worker claim the booking.
type BookingCreateRequest struct {
	UserID      uint     `json:"user_id" binding:"required"`
	JobName     string   `json:"job_name" binding:"required"`
	Description string   `json:"description"`
	ScheduledAt string   `json:"scheduled_at" binding:"required"` // RFC 3339
	ScheduledTo string   `json:"scheduled_to"`
	Location    GeoPoint `json:"location"`

	// Deprecated: direct assignment at creation time.
	WorkerID       *uint     `json:"worker_id"`
	WorkerLocation *GeoPoint `json:"worker_location"`
}
