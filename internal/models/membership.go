package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Membership struct {
	gorm.Model
	Name         string         `json:"name" gorm:"not null"`
	Price        float64        `json:"price" gorm:"not null"`
	Duration     int            `json:"duration" gorm:"not null;default:1"`
	DurationType string         `json:"durationType" gorm:"not null;default:'months'"`
	Features     pq.StringArray `json:"features" gorm:"type:text[]"`
	IsActive     bool           `json:"isActive" gorm:"not null;default:true"`
	IsPopular    bool           `json:"isPopular" gorm:"not null;default:false"`
	GymID        uint           `json:"gymId" gorm:"not null"`
	Gym          Gym            `json:"gym"`
	// UserID is null for a generic plan offered by the gym and set when the
	// membership is a concrete subscription instance for one user.
	UserID *uint `json:"userId"`
	User   *User `json:"user,omitempty"`
}

// DefaultMembershipFeatures is the feature list applied to memberships
// auto-created when a gym owner confirms a booking.
func DefaultMembershipFeatures() pq.StringArray {
	return pq.StringArray{
		"Access to gym equipment",
		"Locker room access",
	}
}
