package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worker-booking-server/database"
	"worker-booking-server/models"
	"worker-booking-server/utils"
)

func TestRegisterWorkerDefaultsAndUpsert(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, models.RoleWorker)

	// First registration starts unapproved with the default hourly rate
	w := performJSON(t, router, http.MethodPost, "/api/v1/workers/register", map[string]interface{}{
		"user_id": user.ID,
		"jobs":    []map[string]interface{}{{"name": "Electrician"}},
		"location": map[string]interface{}{
			"lat": 13.0827, "lng": 80.2707, "address": "Chennai",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var worker models.Worker
	decodeJSON(t, w, &worker)
	assert.False(t, worker.IsApproved)
	assert.True(t, worker.IsActive)
	assert.False(t, worker.IsBusy)
	require.Len(t, worker.Jobs, 1)
	assert.Equal(t, utils.JobPrice("Electrician"), worker.Jobs[0].PricePerHour)

	// Seed some state the second registration must not disturb
	require.NoError(t, database.DB.Model(&models.Worker{}).Where("id = ?", worker.ID).
		Updates(map[string]interface{}{
			"is_approved":    true,
			"average_rating": 4.5,
			"review_count":   12,
		}).Error)

	w = performJSON(t, router, http.MethodPost, "/api/v1/workers/register", map[string]interface{}{
		"user_id": user.ID,
		"jobs": []map[string]interface{}{
			{"name": "Electrician", "price_per_hour": 250},
			{"name": "Plumbing"},
		},
		"location": map[string]interface{}{
			"lat": 13.1000, "lng": 80.3000, "address": "New address",
		},
		"availability": []map[string]interface{}{
			{"day_of_week": 1, "start_time": "09:00", "end_time": "17:00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var updated models.Worker
	decodeJSON(t, w, &updated)
	assert.Equal(t, worker.ID, updated.ID, "same record, not a second one")
	assert.True(t, updated.IsApproved, "approval survives re-registration")
	assert.Equal(t, 4.5, updated.AverageRating)
	assert.Equal(t, 12, updated.ReviewCount)
	assert.Len(t, updated.Jobs, 2)
	assert.Len(t, updated.Availability, 1)
	assert.Equal(t, "New address", updated.Location.Address)
}

func TestRegisterWorkerValidation(t *testing.T) {
	router := setupTestRouter(t)
	user := createTestUser(t, models.RoleWorker)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"no jobs", map[string]interface{}{
			"user_id": user.ID,
			"jobs":    []map[string]interface{}{},
		}},
		{"bad clock format", map[string]interface{}{
			"user_id": user.ID,
			"jobs":    []map[string]interface{}{{"name": "Cleaning"}},
			"availability": []map[string]interface{}{
				{"day_of_week": 1, "start_time": "9am", "end_time": "17:00"},
			},
		}},
		{"end before start", map[string]interface{}{
			"user_id": user.ID,
			"jobs":    []map[string]interface{}{{"name": "Cleaning"}},
			"availability": []map[string]interface{}{
				{"day_of_week": 1, "start_time": "17:00", "end_time": "09:00"},
			},
		}},
		{"latitude out of range", map[string]interface{}{
			"user_id":  user.ID,
			"jobs":     []map[string]interface{}{{"name": "Cleaning"}},
			"location": map[string]interface{}{"lat": 123.0, "lng": 80.0},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, "/api/v1/workers/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSearchWorkersFiltersAndOrder(t *testing.T) {
	router := setupTestRouter(t)

	makeWorker := func(job string, approved, active, busy bool, rating float64, reviews int) models.Worker {
		worker := createTestWorker(t, createTestUser(t, models.RoleWorker).ID, []string{job}, approved, active)
		require.NoError(t, database.DB.Model(&models.Worker{}).Where("id = ?", worker.ID).
			Updates(map[string]interface{}{
				"is_busy":        busy,
				"average_rating": rating,
				"review_count":   reviews,
			}).Error)
		return worker
	}

	lowRated := makeWorker("Plumbing", true, true, false, 3.5, 2)
	topRated := makeWorker("Plumbing", true, true, false, 4.8, 10)
	makeWorker("Plumbing", false, true, false, 5.0, 3) // unapproved
	makeWorker("Plumbing", true, false, false, 5.0, 3) // fired
	makeWorker("Plumbing", true, true, true, 5.0, 3)   // busy
	gardener := makeWorker("Gardening", true, true, false, 4.0, 1)

	t.Run("hides unapproved, fired and busy workers", func(t *testing.T) {
		w := performJSON(t, router, http.MethodGet, "/api/v1/workers", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var workers []models.Worker
		decodeJSON(t, w, &workers)
		require.Len(t, workers, 3)
		assert.Equal(t, topRated.ID, workers[0].ID, "best rating first")
		assert.Equal(t, gardener.ID, workers[1].ID)
		assert.Equal(t, lowRated.ID, workers[2].ID)
	})

	t.Run("job filter is case-insensitive", func(t *testing.T) {
		w := performJSON(t, router, http.MethodGet, "/api/v1/workers?q=plumb", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var workers []models.Worker
		decodeJSON(t, w, &workers)
		require.Len(t, workers, 2)
		assert.Equal(t, topRated.ID, workers[0].ID)
		assert.Equal(t, lowRated.ID, workers[1].ID)
	})

	t.Run("by_user returns own record regardless of visibility", func(t *testing.T) {
		hiddenUser := createTestUser(t, models.RoleWorker)
		hidden := createTestWorker(t, hiddenUser.ID, []string{"Moving"}, false, true)

		w := performJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/workers?by_user=%d", hiddenUser.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var workers []models.Worker
		decodeJSON(t, w, &workers)
		require.Len(t, workers, 1)
		assert.Equal(t, hidden.ID, workers[0].ID)
	})

	t.Run("by_user with no profile returns an empty list", func(t *testing.T) {
		stranger := createTestUser(t, models.RoleClient)
		w := performJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/workers?by_user=%d", stranger.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var workers []models.Worker
		decodeJSON(t, w, &workers)
		assert.Empty(t, workers)
	})
}

func TestCheckWorkerAvailability(t *testing.T) {
	router := setupTestRouter(t)

	user := createTestUser(t, models.RoleWorker)
	worker := models.Worker{
		UserID:     user.ID,
		Jobs:       []models.WorkerJob{{Name: "Cleaning", PricePerHour: 100}},
		IsApproved: true,
		IsActive:   true,
		Availability: []models.AvailabilitySlot{
			// Monday, nine to five
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		},
	}
	require.NoError(t, database.DB.Create(&worker).Error)

	check := func(t *testing.T, from, to string) bool {
		t.Helper()
		w := performJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/workers/%d/availability?from=%s&to=%s", worker.ID, from, to), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			IsAvailable bool `json:"is_available"`
		}
		decodeJSON(t, w, &resp)
		return resp.IsAvailable
	}

	// 2024-06-10 is a Monday
	t.Run("inside the slot", func(t *testing.T) {
		assert.True(t, check(t, "2024-06-10T10:00:00Z", "2024-06-10T12:00:00Z"))
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		assert.True(t, check(t, "2024-06-10T16:59:00Z", "2024-06-10T18:00:00Z"))
		assert.False(t, check(t, "2024-06-10T17:00:00Z", "2024-06-10T18:00:00Z"))
	})

	t.Run("wrong day", func(t *testing.T) {
		assert.False(t, check(t, "2024-06-11T10:00:00Z", "2024-06-11T12:00:00Z"))
	})

	t.Run("conflicting active booking", func(t *testing.T) {
		client := createTestUser(t, models.RoleClient)
		createTestBooking(t, client.ID, "Cleaning", models.BookingStatusAccepted, &worker.ID)
		assert.False(t, check(t, "2024-06-10T09:00:00Z", "2024-06-10T11:00:00Z"))
	})

	t.Run("unknown worker", func(t *testing.T) {
		w := performJSON(t, router, http.MethodGet,
			"/api/v1/workers/9999/availability?from=2024-06-10T10:00:00Z&to=2024-06-10T12:00:00Z", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed window", func(t *testing.T) {
		w := performJSON(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/workers/%d/availability?from=today&to=tomorrow", worker.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
