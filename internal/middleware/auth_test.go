package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(db), func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetUint("userId"), "role": c.GetString("userRole")})
	})
	r.GET("/owners", AuthMiddleware(db), RequireRoles(models.RoleGymOwner, models.RoleAdmin), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddlewareRejectsMissingOrInvalidTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := setupRouter(setupTestDB(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"malformed token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, 401, w.Code)
		})
	}
}

func TestAuthMiddlewareResolvesUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := setupRouter(db)

	user := models.User{Username: "jane", Email: "jane@example.com", PasswordHash: "x", Role: "user", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestAuthMiddlewareRejectsDeactivatedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := setupRouter(db)

	user := models.User{Username: "gone", Email: "gone@example.com", PasswordHash: "x", Role: "user", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(&user)
	require.NoError(t, err)

	// Deactivate after the token was issued
	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestRequireRolesDistinguishesAuthorization(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := setupRouter(db)

	member := models.User{Username: "member", Email: "member@example.com", PasswordHash: "x", Role: "user", IsActive: true}
	owner := models.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x", Role: "gym_owner", IsActive: true}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&owner).Error)

	memberToken, err := utils.GenerateToken(&member)
	require.NoError(t, err)
	ownerToken, err := utils.GenerateToken(&owner)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owners", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/owners", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}
