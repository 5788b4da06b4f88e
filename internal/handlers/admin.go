package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/internal/services"
	"gorm.io/gorm"
)

// GetAdminStats returns aggregate platform statistics, cached in Redis
// with a short TTL
func GetAdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if services.RedisClient != nil {
			if cached, err := services.GetCachedAdminStats(ctx); err == nil {
				c.JSON(200, cached)
				return
			}
		}

		var totalUsers, totalGyms, totalBookings, totalMemberships int64
		if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}
		if err := db.Model(&models.Gym{}).Count(&totalGyms).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}
		if err := db.Model(&models.Booking{}).Count(&totalBookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}
		if err := db.Model(&models.Membership{}).Where("user_id IS NOT NULL").Count(&totalMemberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}

		var confirmedRevenue float64
		if err := db.Model(&models.Booking{}).
			Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCompleted}).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&confirmedRevenue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}

		type statusCount struct {
			Status string
			Count  int64
		}
		var rows []statusCount
		if err := db.Model(&models.Booking{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to compute statistics"})
			return
		}

		bookingsByStatus := map[string]int64{}
		for _, row := range rows {
			bookingsByStatus[row.Status] = row.Count
		}

		stats := map[string]interface{}{
			"totalUsers":       totalUsers,
			"totalGyms":        totalGyms,
			"totalBookings":    totalBookings,
			"totalMemberships": totalMemberships,
			"confirmedRevenue": confirmedRevenue,
			"bookingsByStatus": bookingsByStatus,
		}

		if services.RedisClient != nil {
			if err := services.CacheAdminStats(ctx, stats); err != nil {
				log.Printf("Failed to cache admin stats: %v", err)
			}
		}

		c.JSON(200, stats)
	}
}
