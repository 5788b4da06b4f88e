package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// bookingTransitions is the closed set of legal status transitions.
// completed and cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// IsValidBookingStatus reports whether s is a known booking status.
func IsValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status from may move to target.
func (from BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == target {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	UserID             uint          `json:"userId" gorm:"not null"`
	User               User          `json:"user"`
	GymID              uint          `json:"gymId" gorm:"not null"`
	Gym                Gym           `json:"gym"`
	MembershipID       *uint         `json:"membershipId"`
	Membership         *Membership   `json:"membership,omitempty"`
	BookingDate        time.Time     `json:"bookingDate" gorm:"not null"`
	StartTime          string        `json:"startTime" gorm:"not null"`
	EndTime            string        `json:"endTime" gorm:"not null"`
	Notes              string        `json:"notes"`
	TotalAmount        float64       `json:"totalAmount" gorm:"not null"`
	PaymentMethod      string        `json:"paymentMethod"`
	Status             BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	PaymentStatus      PaymentStatus `json:"paymentStatus" gorm:"not null;default:'pending'"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CancelledBy        string        `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
}
