package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMembershipRequiresGymOwnership(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := newTestRouter(db)
	owner, ownerToken := createTestUser(t, db, "owner", models.RoleGymOwner)
	_, otherToken := createTestUser(t, db, "other", models.RoleGymOwner)
	gym := createTestGym(t, db, owner.ID, "Iron Temple")

	input := map[string]interface{}{
		"gymId":    gym.ID,
		"name":     "Monthly Basic",
		"price":    3000,
		"features": []string{"Access to gym equipment"},
	}

	w := doRequest(r, http.MethodPost, "/api/memberships", otherToken, input)
	assert.Equal(t, 403, w.Code)

	w = doRequest(r, http.MethodPost, "/api/memberships", ownerToken, input)
	require.Equal(t, 201, w.Code)
	body := decodeBody(t, w)
	membership := body["membership"].(map[string]interface{})
	assert.Equal(t, "Monthly Basic", membership["name"])
	assert.Equal(t, float64(1), membership["duration"])
	assert.Equal(t, "months", membership["durationType"])

	input["gymId"] = 9999
	w = doRequest(r, http.MethodPost, "/api/memberships", ownerToken, input)
	assert.Equal(t, 404, w.Code)
}

func TestGetGymMembershipsOnlyGenericActivePlans(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := newTestRouter(db)
	owner, _ := createTestUser(t, db, "owner", models.RoleGymOwner)
	member, _ := createTestUser(t, db, "member", models.RoleUser)
	gym := createTestGym(t, db, owner.ID, "Iron Temple")

	generic := models.Membership{Name: "Basic", Price: 3000, Duration: 1, DurationType: "months", IsActive: true, GymID: gym.ID}
	inactive := models.Membership{Name: "Legacy", Price: 1000, Duration: 1, DurationType: "months", IsActive: false, GymID: gym.ID}
	assigned := models.Membership{Name: "Jane's plan", Price: 2000, Duration: 1, DurationType: "months", IsActive: true, GymID: gym.ID, UserID: &member.ID}
	require.NoError(t, db.Create(&generic).Error)
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Create(&assigned).Error)

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/api/gyms/%d/memberships", gym.ID), "", nil)
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	memberships := body["memberships"].([]interface{})
	require.Len(t, memberships, 1)
	assert.Equal(t, "Basic", memberships[0].(map[string]interface{})["name"])
}

func TestUpdateMembershipAsAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupTestDB(t)
	r := newTestRouter(db)
	owner, _ := createTestUser(t, db, "owner", models.RoleGymOwner)
	_, adminToken := createTestUser(t, db, "admin", models.RoleAdmin)
	gym := createTestGym(t, db, owner.ID, "Iron Temple")

	plan := models.Membership{Name: "Basic", Price: 3000, Duration: 1, DurationType: "months", IsActive: true, GymID: gym.ID}
	require.NoError(t, db.Create(&plan).Error)

	w := doRequest(r, http.MethodPut, fmt.Sprintf("/api/memberships/%d", plan.ID), adminToken,
		map[string]interface{}{"price": 3500, "isPopular": true})
	require.Equal(t, 200, w.Code)

	var updated models.Membership
	require.NoError(t, db.First(&updated, plan.ID).Error)
	assert.Equal(t, float64(3500), updated.Price)
	assert.True(t, updated.IsPopular)
}
