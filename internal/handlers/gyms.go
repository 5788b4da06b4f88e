package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/internal/services"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CreateGym handles the creation of a new gym by a gym owner
func CreateGym(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Name         string   `json:"name" binding:"required"`
			Description  string   `json:"description"`
			Address      string   `json:"address"`
			City         string   `json:"city"`
			PhoneNumber  string   `json:"phoneNumber"`
			MonthlyPrice float64  `json:"monthlyPrice"`
			AnnualPrice  float64  `json:"annualPrice"`
			Facilities   []string `json:"facilities"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		gym := models.Gym{
			OwnerID:      userId,
			Name:         input.Name,
			Description:  input.Description,
			Address:      input.Address,
			City:         input.City,
			PhoneNumber:  input.PhoneNumber,
			MonthlyPrice: input.MonthlyPrice,
			AnnualPrice:  input.AnnualPrice,
			Facilities:   pq.StringArray(input.Facilities),
			IsActive:     true,
		}

		if err := db.Create(&gym).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create gym"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Gym created successfully",
			"gym":     gym,
		})
	}
}

// GetGyms retrieves all active gyms with optional search, boosted first
func GetGyms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		city := c.Query("city")
		search := c.Query("search")

		if services.RedisClient != nil {
			if cached, err := services.GetCachedGymList(c.Request.Context(), gymListCacheKey(city, search)); err == nil {
				c.JSON(200, gin.H{"gyms": cached})
				return
			}
		}

		var gyms []models.Gym
		query := db.Where("is_active = ?", true)

		if city != "" {
			query = query.Where("LOWER(city) = LOWER(?)", city)
		}
		if search != "" {
			query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+strings.ToLower(search)+"%")
		}

		if err := query.Order("is_boosted DESC, created_at DESC").Find(&gyms).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch gyms"})
			return
		}

		cacheGymList(city, search, gyms)

		c.JSON(200, gin.H{"gyms": gyms})
	}
}

// GetGym retrieves a single active gym with its owner
func GetGym(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymId := c.Param("id")

		var gym models.Gym
		if err := db.Where("is_active = ?", true).
			Preload("Owner").
			First(&gym, gymId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":           gym.ID,
			"name":         gym.Name,
			"description":  gym.Description,
			"address":      gym.Address,
			"city":         gym.City,
			"phoneNumber":  gym.PhoneNumber,
			"monthlyPrice": gym.MonthlyPrice,
			"annualPrice":  gym.AnnualPrice,
			"facilities":   gym.Facilities,
			"imageUrl":     gym.ImageURL,
			"isVerified":   gym.IsVerified,
			"isBoosted":    gym.IsBoosted,
			"owner": gin.H{
				"id":       gym.Owner.ID,
				"username": gym.Owner.Username,
			},
		})
	}
}

// UpdateGym updates a gym's details as its owner or an admin
func UpdateGym(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymId := c.Param("id")

		var input struct {
			Name         *string   `json:"name"`
			Description  *string   `json:"description"`
			Address      *string   `json:"address"`
			City         *string   `json:"city"`
			PhoneNumber  *string   `json:"phoneNumber"`
			MonthlyPrice *float64  `json:"monthlyPrice"`
			AnnualPrice  *float64  `json:"annualPrice"`
			Facilities   *[]string `json:"facilities"`
			IsActive     *bool     `json:"isActive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var gym models.Gym
		if err := db.First(&gym, gymId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		if !canManageGym(c, &gym) {
			c.JSON(403, gin.H{"error": "Unauthorized to update this gym"})
			return
		}

		if input.Name != nil {
			gym.Name = *input.Name
		}
		if input.Description != nil {
			gym.Description = *input.Description
		}
		if input.Address != nil {
			gym.Address = *input.Address
		}
		if input.City != nil {
			gym.City = *input.City
		}
		if input.PhoneNumber != nil {
			gym.PhoneNumber = *input.PhoneNumber
		}
		if input.MonthlyPrice != nil {
			gym.MonthlyPrice = *input.MonthlyPrice
		}
		if input.AnnualPrice != nil {
			gym.AnnualPrice = *input.AnnualPrice
		}
		if input.Facilities != nil {
			gym.Facilities = pq.StringArray(*input.Facilities)
		}
		if input.IsActive != nil {
			gym.IsActive = *input.IsActive
		}

		if err := db.Save(&gym).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update gym"})
			return
		}

		c.JSON(200, gym)
	}
}

// UploadGymImage uploads a gym image to S3 or local storage
func UploadGymImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gymId := c.Param("id")

		var gym models.Gym
		if err := db.First(&gym, gymId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Gym not found"})
			return
		}

		if !canManageGym(c, &gym) {
			c.JSON(403, gin.H{"error": "Unauthorized to update this gym"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file is required"})
			return
		}

		imageURL, err := services.UploadImage(file, "gyms")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image", "details": err.Error()})
			return
		}

		// Remove the previous image, best effort
		if gym.ImageURL != "" {
			if err := services.DeleteImage(gym.ImageURL); err != nil {
				log.Printf("Failed to delete previous gym image: %v", err)
			}
		}

		gym.ImageURL = imageURL
		if err := db.Save(&gym).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save gym image"})
			return
		}

		c.JSON(200, gin.H{
			"message":  "Image uploaded successfully",
			"imageUrl": imageURL,
		})
	}
}

// GetOwnerGyms retrieves all gyms owned by the caller
func GetOwnerGyms(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var gyms []models.Gym
		if err := db.Where("owner_id = ?", userId).
			Order("created_at DESC").
			Find(&gyms).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch gyms"})
			return
		}

		c.JSON(200, gin.H{"gyms": gyms})
	}
}

// gymListCacheKey builds the redis key for a gym search
func gymListCacheKey(city, search string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(city), strings.ToLower(search))
}

// cacheGymList stores a gym listing, best effort
func cacheGymList(city, search string, gyms []models.Gym) {
	if services.RedisClient == nil {
		return
	}
	if err := services.CacheGymList(context.Background(), gymListCacheKey(city, search), gyms); err != nil {
		log.Printf("Failed to cache gym list: %v", err)
	}
}
