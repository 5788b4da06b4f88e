package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/middleware"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/internal/services"
	"github.com/gymconnect/gymconnect-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Membership{},
		&models.Booking{},
	))
	return db
}

// newTestRouter registers the API routes the handler tests exercise,
// behind the real auth middleware.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	hub := services.NewHub()

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", Register(db))
	api.POST("/auth/login", Login(db))
	api.GET("/gyms", GetGyms(db))
	api.GET("/gyms/:id", GetGym(db))
	api.GET("/gyms/:id/memberships", GetGymMemberships(db))

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(db))

	protected.POST("/gyms", middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin), CreateGym(db))
	protected.PUT("/gyms/:id", UpdateGym(db))

	protected.POST("/memberships", middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin), CreateMembership(db))
	protected.PUT("/memberships/:id", UpdateMembership(db))
	protected.GET("/memberships/my", GetMyMemberships(db))

	protected.POST("/bookings", CreateBooking(db))
	protected.GET("/bookings", GetMyBookings(db))
	protected.GET("/bookings/:id", GetBooking(db))
	protected.PUT("/bookings/:id/status", UpdateBookingStatus(db, hub))
	protected.POST("/bookings/:id/cancel", CancelBooking(db, hub))
	protected.PUT("/bookings/:id/status/owner",
		middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin),
		UpdateBookingStatusOwner(db, hub))

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/stats", GetAdminStats(db))

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) (*models.User, string) {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-checked",
		Role:         string(role),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)
	return &user, token
}

func createTestGym(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Gym {
	t.Helper()
	gym := models.Gym{
		OwnerID:      ownerID,
		Name:         name,
		City:         "Nairobi",
		MonthlyPrice: 3000,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&gym).Error)
	return &gym
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validBookingInput(gymID uint) map[string]interface{} {
	return map[string]interface{}{
		"gymId":         gymID,
		"bookingDate":   "2024-01-15",
		"startTime":     "10:00",
		"endTime":       "11:00",
		"totalAmount":   2000,
		"paymentMethod": "cash",
	}
}
