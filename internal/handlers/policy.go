package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
)

// canManageGym reports whether the caller may manage the gym and the
// bookings referencing it: the gym's owner, or an admin.
func canManageGym(c *gin.Context, gym *models.Gym) bool {
	if c.GetString("userRole") == string(models.RoleAdmin) {
		return true
	}
	return gym.OwnerID == c.GetUint("userId")
}

// ownsBooking reports whether the caller is the booking's user.
func ownsBooking(c *gin.Context, booking *models.Booking) bool {
	return booking.UserID == c.GetUint("userId")
}
