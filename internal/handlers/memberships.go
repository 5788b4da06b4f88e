package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CreateMembership creates a membership plan for a gym the caller owns
func CreateMembership(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			GymID        uint     `json:"gymId" binding:"required"`
			Name         string   `json:"name" binding:"required"`
			Price        float64  `json:"price" binding:"required"`
			Duration     int      `json:"duration"`
			DurationType string   `json:"durationType"`
			Features     []string `json:"features"`
			IsPopular    bool     `json:"isPopular"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var gym models.Gym
		if err := db.First(&gym, input.GymID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		if !canManageGym(c, &gym) {
			c.JSON(403, gin.H{"error": "Unauthorized to create memberships for this gym"})
			return
		}

		if input.Duration == 0 {
			input.Duration = 1
		}
		if input.DurationType == "" {
			input.DurationType = "months"
		}

		membership := models.Membership{
			Name:         input.Name,
			Price:        input.Price,
			Duration:     input.Duration,
			DurationType: input.DurationType,
			Features:     pq.StringArray(input.Features),
			IsActive:     true,
			IsPopular:    input.IsPopular,
			GymID:        input.GymID,
		}

		if err := db.Create(&membership).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create membership"})
			return
		}

		c.JSON(201, gin.H{
			"message":    "Membership created successfully",
			"membership": membership,
		})
	}
}

// GetGymMemberships retrieves the active generic plans offered by a gym
func GetGymMemberships(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymId := c.Param("id")

		var gym models.Gym
		if err := db.Where("is_active = ?", true).First(&gym, gymId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		var memberships []models.Membership
		if err := db.Where("gym_id = ? AND user_id IS NULL AND is_active = ?", gym.ID, true).
			Order("price ASC").
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch memberships"})
			return
		}

		c.JSON(200, gin.H{"memberships": memberships})
	}
}

// UpdateMembership updates a membership plan as the gym's owner or an admin
func UpdateMembership(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		membershipId := c.Param("id")

		var input struct {
			Name         *string   `json:"name"`
			Price        *float64  `json:"price"`
			Duration     *int      `json:"duration"`
			DurationType *string   `json:"durationType"`
			Features     *[]string `json:"features"`
			IsActive     *bool     `json:"isActive"`
			IsPopular    *bool     `json:"isPopular"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var membership models.Membership
		if err := db.Preload("Gym").First(&membership, membershipId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}

		if !canManageGym(c, &membership.Gym) {
			c.JSON(403, gin.H{"error": "Unauthorized to update this membership"})
			return
		}

		if input.Name != nil {
			membership.Name = *input.Name
		}
		if input.Price != nil {
			membership.Price = *input.Price
		}
		if input.Duration != nil {
			membership.Duration = *input.Duration
		}
		if input.DurationType != nil {
			membership.DurationType = *input.DurationType
		}
		if input.Features != nil {
			membership.Features = pq.StringArray(*input.Features)
		}
		if input.IsActive != nil {
			membership.IsActive = *input.IsActive
		}
		if input.IsPopular != nil {
			membership.IsPopular = *input.IsPopular
		}

		if err := db.Save(&membership).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update membership"})
			return
		}

		c.JSON(200, membership)
	}
}

// GetMyMemberships retrieves the caller's membership instances
func GetMyMemberships(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var memberships []models.Membership
		if err := db.Where("user_id = ?", userId).
			Preload("Gym").
			Order("created_at DESC").
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch memberships"})
			return
		}

		c.JSON(200, gin.H{"memberships": memberships})
	}
}
