package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worker-booking-server/config"
	"worker-booking-server/database"
	"worker-booking-server/models"
	"worker-booking-server/utils"
)

// setupTestRouter wires the API against a fresh in-memory database. The
// shared-cache DSN keeps every pooled connection on the same database.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.Load()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	database.DB = db

	router := gin.New()
	SetupRoutes(router)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), "body: %s", w.Body.String())
}

func createTestUser(t *testing.T, role models.UserRole) models.User {
	t.Helper()

	user := models.User{
		Name:         fmt.Sprintf("%s user", role),
		Email:        fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Role:         role,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createTestWorker(t *testing.T, userID uint, jobNames []string, approved, active bool) models.Worker {
	t.Helper()

	jobs := make([]models.WorkerJob, 0, len(jobNames))
	for _, name := range jobNames {
		jobs = append(jobs, models.WorkerJob{Name: name, PricePerHour: utils.JobPrice(name)})
	}

	worker := models.Worker{
		UserID:     userID,
		Jobs:       jobs,
		IsApproved: approved,
		IsActive:   active,
	}
	require.NoError(t, database.DB.Create(&worker).Error)
	return worker
}

func createTestBooking(t *testing.T, userID uint, jobName string, status models.BookingStatus, workerID *uint) models.Booking {
	t.Helper()

	booking := models.Booking{
		UserID:      userID,
		WorkerID:    workerID,
		JobName:     jobName,
		ScheduledAt: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
		Status:      status,
	}
	require.NoError(t, database.DB.Create(&booking).Error)
	return booking
}

func reloadWorker(t *testing.T, id uint) models.Worker {
	t.Helper()
	var worker models.Worker
	require.NoError(t, database.DB.First(&worker, id).Error)
	return worker
}

func reloadBooking(t *testing.T, id uint) models.Booking {
	t.Helper()
	var booking models.Booking
	require.NoError(t, database.DB.First(&booking, id).Error)
	return booking
}

func adminAuthHeader(t *testing.T) []string {
	t.Helper()
	admin := createTestUser(t, models.RoleAdmin)
	token, err := utils.GenerateToken(admin.ID, string(models.RoleAdmin))
	require.NoError(t, err)
	return []string{"Authorization", "Bearer " + token}
}

func floatPtr(v float64) *float64 { return &v }
