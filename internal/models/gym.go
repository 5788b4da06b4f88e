package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Gym struct {
	gorm.Model
	OwnerID      uint           `json:"ownerId" gorm:"not null"`
	Owner        User           `json:"owner"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	PhoneNumber  string         `json:"phoneNumber"`
	MonthlyPrice float64        `json:"monthlyPrice"`
	AnnualPrice  float64        `json:"annualPrice"`
	Facilities   pq.StringArray `json:"facilities" gorm:"type:text[]"`
	ImageURL     string         `json:"imageUrl"`
	IsActive     bool           `json:"isActive" gorm:"not null;default:true"`
	IsVerified   bool           `json:"isVerified" gorm:"not null;default:false"`
	IsBoosted    bool           `json:"isBoosted" gorm:"not null;default:false"`
}
