package models

import (
	"strconv"
	"strings"
	"time"
)

// GeoPoint is a lat/lng pair with a human-readable address. Coordinates are
// pointers so a missing location stays distinguishable from (0, 0).
type GeoPoint struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address" gorm:"size:500"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (p GeoPoint) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// WorkerJob is a single service offering of a worker.
type WorkerJob struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	WorkerID     uint    `json:"worker_id" gorm:"index;not null"`
	Name         string  `json:"name" gorm:"size:100;not null"`
	PricePerHour float64 `json:"price_per_hour" gorm:"type:decimal(10,2);default:0"`
}

// AvailabilitySlot is a weekly recurring availability window. Times are
// "HH:mm" wall-clock strings with no timezone; slots never span midnight.
type AvailabilitySlot struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	WorkerID  uint   `json:"worker_id" gorm:"index;not null"`
	DayOfWeek int    `json:"day_of_week" gorm:"not null;check:day_of_week >= 0 AND day_of_week <= 6"`
	StartTime string `json:"start_time" gorm:"size:5;not null"`
	EndTime   string `json:"end_time" gorm:"size:5;not null"`
}

// Worker represents a worker's service profile. One record per owning user,
// enforced by the unique index on UserID.
type Worker struct {
	ID            uint               `json:"id" gorm:"primaryKey"`
	UserID        uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	Jobs          []WorkerJob        `json:"jobs" gorm:"foreignKey:WorkerID"`
	Availability  []AvailabilitySlot `json:"availability" gorm:"foreignKey:WorkerID"`
	Location      GeoPoint           `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	IsApproved    bool               `json:"is_approved" gorm:"default:false"`
	IsActive      bool               `json:"is_active" gorm:"default:true"`
	IsBusy        bool               `json:"is_busy" gorm:"default:false"`
	AverageRating float64            `json:"average_rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount   int                `json:"review_count" gorm:"default:0"`
	ProfilePhoto  *string            `json:"profile_photo" gorm:"size:500"`
	CreatedAt     time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time          `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Worker model
func (Worker) TableName() string {
	return "workers"
}

// OffersJob reports whether the worker offers the named job.
func (w *Worker) OffersJob(jobName string) bool {
	for _, job := range w.Jobs {
		if job.Name == jobName {
			return true
		}
	}
	return false
}

// JobNames returns the names of all jobs the worker offers.
func (w *Worker) JobNames() []string {
	names := make([]string, 0, len(w.Jobs))
	for _, job := range w.Jobs {
		names = append(names, job.Name)
	}
	return names
}

// IsAvailableAt reports whether the worker is available at the given time.
// A worker with no configured slots counts as always available. Slot windows
// are half-open: a worker with 09:00-17:00 is available at 16:59 but not at
// 17:00.
func (w *Worker) IsAvailableAt(t time.Time) bool {
	if len(w.Availability) == 0 {
		return true
	}

	day := int(t.Weekday())
	minuteOfDay := t.Hour()*60 + t.Minute()

	for _, slot := range w.Availability {
		if slot.DayOfWeek != day {
			continue
		}
		start, okStart := ParseClockMinutes(slot.StartTime)
		end, okEnd := ParseClockMinutes(slot.EndTime)
		if !okStart || !okEnd {
			continue
		}
		if minuteOfDay >= start && minuteOfDay < end {
			return true
		}
	}
	return false
}

// ParseClockMinutes converts an "HH:mm" string to minutes since midnight.
func ParseClockMinutes(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// WorkerJobInput is a job offering in a worker registration payload.
type WorkerJobInput struct {
	Name         string  `json:"name" binding:"required"`
	PricePerHour float64 `json:"price_per_hour"`
}

// AvailabilitySlotInput is an availability window in a registration payload.
type AvailabilitySlotInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// WorkerRegisterRequest is the payload for creating or updating a worker
// profile. Registering again for the same user updates the existing record.
type WorkerRegisterRequest struct {
	UserID       uint                    `json:"user_id" binding:"required"`
	Jobs         []WorkerJobInput        `json:"jobs" binding:"required,min=1,dive"`
	Location     GeoPoint                `json:"location"`
	Availability []AvailabilitySlotInput `json:"availability" binding:"dive"`
	ProfilePhoto *string                 `json:"profile_photo"`
}
