package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/internal/services"
	"gorm.io/gorm"
)

// CreateBooking handles the creation of a new booking by a user
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			GymID         uint    `json:"gymId" binding:"required"`
			MembershipID  *uint   `json:"membershipId"`
			BookingDate   string  `json:"bookingDate" binding:"required"`
			StartTime     string  `json:"startTime" binding:"required"`
			EndTime       string  `json:"endTime" binding:"required"`
			TotalAmount   float64 `json:"totalAmount" binding:"required"`
			PaymentMethod string  `json:"paymentMethod"`
			Notes         string  `json:"notes"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Missing required booking fields", "details": err.Error()})
			return
		}

		bookingDate, err := time.Parse("2006-01-02", input.BookingDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking date, expected YYYY-MM-DD"})
			return
		}

		startTime, err := time.Parse("15:04", input.StartTime)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid start time, expected HH:MM"})
			return
		}
		endTime, err := time.Parse("15:04", input.EndTime)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid end time, expected HH:MM"})
			return
		}
		if !endTime.After(startTime) {
			c.JSON(400, gin.H{"error": "End time must be after start time"})
			return
		}

		var gym models.Gym
		if err := db.Where("is_active = ?", true).First(&gym, input.GymID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		if input.MembershipID != nil {
			var membership models.Membership
			if err := db.First(&membership, *input.MembershipID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Membership not found"})
				return
			}
		}

		booking := models.Booking{
			UserID:        userId,
			GymID:         input.GymID,
			MembershipID:  input.MembershipID,
			BookingDate:   bookingDate,
			StartTime:     input.StartTime,
			EndTime:       input.EndTime,
			Notes:         input.Notes,
			TotalAmount:   input.TotalAmount,
			PaymentMethod: input.PaymentMethod,
			Status:        models.BookingStatusPending,
			PaymentStatus: models.PaymentStatusPending,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		if err := db.Preload("Gym").Preload("Membership").First(&booking, booking.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to load booking"})
			return
		}

		invalidateStats()

		c.JSON(201, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

// GetMyBookings retrieves the caller's bookings with optional status
// filter and page/limit pagination, newest first
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		status := c.Query("status")
		page := parsePositiveInt(c.Query("page"), 1)
		limit := parsePositiveInt(c.Query("limit"), 10)

		query := db.Model(&models.Booking{}).Where("user_id = ?", userId)
		if status != "" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count bookings"})
			return
		}

		var bookings []models.Booking
		if err := query.
			Preload("Gym").
			Preload("Membership").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		totalPages := int(total) / limit
		if int(total)%limit != 0 {
			totalPages++
		}

		c.JSON(200, gin.H{
			"bookings":   bookings,
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
		})
	}
}

// GetBooking retrieves one of the caller's bookings by id
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Where("user_id = ?", userId).
			Preload("Gym").
			Preload("Membership").
			First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, booking)
	}
}

// UpdateBookingStatus updates the status of the caller's own booking
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"reason"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.IsValidBookingStatus(input.Status) {
			c.JSON(400, gin.H{"error": "Unknown booking status"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		// Another user's booking reads as absent, not forbidden
		if !ownsBooking(c, &booking) {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		target := models.BookingStatus(input.Status)
		if !booking.Status.CanTransitionTo(target) {
			c.JSON(400, gin.H{"error": "Invalid status transition", "details": string(booking.Status) + " -> " + input.Status})
			return
		}

		booking.Status = target
		if target == models.BookingStatusCancelled {
			now := time.Now()
			booking.CancelledAt = &now
			booking.CancelledBy = string(models.RoleUser)
			booking.CancellationReason = input.Reason
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		invalidateStats()
		notifyBookingStatus(db, hub, &booking, string(models.RoleUser))

		c.JSON(200, booking)
	}
}

// CancelBooking cancels the caller's own booking
func CancelBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")

		var input struct {
			Reason string `json:"reason"`
		}
		// Body is optional for cancellation
		_ = c.ShouldBindJSON(&input)

		var booking models.Booking
		if err := db.First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !ownsBooking(c, &booking) {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.Status == models.BookingStatusCancelled {
			c.JSON(400, gin.H{"error": "Booking is already cancelled"})
			return
		}

		if !booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
			c.JSON(400, gin.H{"error": "Invalid status transition", "details": string(booking.Status) + " -> cancelled"})
			return
		}

		now := time.Now()
		booking.Status = models.BookingStatusCancelled
		booking.CancelledAt = &now
		booking.CancelledBy = string(models.RoleUser)
		booking.CancellationReason = input.Reason

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		invalidateStats()
		notifyBookingStatus(db, hub, &booking, string(models.RoleUser))

		c.JSON(200, gin.H{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	}
}

// UpdateBookingStatusOwner updates a booking's status as the gym owner.
// Confirming a booking issues a membership for the gym/user pair when no
// active one exists; the status change and the membership creation commit
// or roll back together.
func UpdateBookingStatusOwner(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"reason"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !models.IsValidBookingStatus(input.Status) {
			c.JSON(400, gin.H{"error": "Unknown booking status"})
			return
		}

		var booking models.Booking
		if err := db.Preload("Gym").First(&booking, bookingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !canManageGym(c, &booking.Gym) {
			c.JSON(403, gin.H{"error": "Unauthorized to manage bookings for this gym"})
			return
		}

		target := models.BookingStatus(input.Status)
		if !booking.Status.CanTransitionTo(target) {
			c.JSON(400, gin.H{"error": "Invalid status transition", "details": string(booking.Status) + " -> " + input.Status})
			return
		}

		booking.Status = target
		if target == models.BookingStatusCancelled {
			now := time.Now()
			booking.CancelledAt = &now
			booking.CancelledBy = string(models.RoleGymOwner)
			booking.CancellationReason = input.Reason
		}

		var createdMembership *models.Membership

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Save(&booking).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		if target == models.BookingStatusConfirmed {
			var existing models.Membership
			err := tx.Where("gym_id = ? AND user_id = ? AND is_active = ?",
				booking.GymID, booking.UserID, true).
				First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				membership := models.Membership{
					Name:         "Gym Membership",
					Price:        booking.TotalAmount,
					Duration:     1,
					DurationType: "months",
					Features:     models.DefaultMembershipFeatures(),
					IsActive:     true,
					GymID:        booking.GymID,
					UserID:       &booking.UserID,
				}
				if err := tx.Create(&membership).Error; err != nil {
					tx.Rollback()
					c.JSON(500, gin.H{"error": "Failed to create membership"})
					return
				}
				createdMembership = &membership
			} else if err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to check existing membership"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to commit booking update"})
			return
		}

		invalidateStats()
		notifyBookingStatus(db, hub, &booking, string(models.RoleGymOwner))
		if createdMembership != nil && hub != nil {
			hub.SendMembershipCreated(booking.UserID, services.MembershipCreated{
				MembershipID: createdMembership.ID,
				GymID:        createdMembership.GymID,
				Price:        createdMembership.Price,
			})
		}

		response := gin.H{
			"message": "Booking status updated successfully",
			"booking": booking,
		}
		if createdMembership != nil {
			response["membership"] = createdMembership
		}
		c.JSON(200, response)
	}
}

// notifyBookingStatus pushes a booking status event to the booking's user
// and the gym's owner
func notifyBookingStatus(db *gorm.DB, hub *services.Hub, booking *models.Booking, updatedBy string) {
	if hub == nil {
		return
	}

	update := services.BookingStatusUpdate{
		BookingID: booking.ID,
		GymID:     booking.GymID,
		Status:    string(booking.Status),
		UpdatedBy: updatedBy,
	}

	recipients := []uint{booking.UserID}
	var gym models.Gym
	if err := db.First(&gym, booking.GymID).Error; err == nil {
		recipients = append(recipients, gym.OwnerID)
	}

	hub.SendBookingStatusUpdate(update, recipients...)
}

// parsePositiveInt parses a query parameter, falling back when absent or invalid
func parsePositiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// invalidateStats drops the cached admin statistics after a booking mutation
func invalidateStats() {
	if services.RedisClient == nil {
		return
	}
	if err := services.InvalidateAdminStats(context.Background()); err != nil {
		log.Printf("Failed to invalidate admin stats cache: %v", err)
	}
}
