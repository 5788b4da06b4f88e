package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"confirmed to completed", BookingStatusConfirmed, BookingStatusCompleted, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"confirmed to pending", BookingStatusConfirmed, BookingStatusPending, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusConfirmed, false},
		{"cancelled cannot re-cancel", BookingStatusCancelled, BookingStatusCancelled, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIsValidBookingStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		assert.True(t, IsValidBookingStatus(s), s)
	}
	for _, s := range []string{"", "accepted", "PENDING", "done"} {
		assert.False(t, IsValidBookingStatus(s), s)
	}
}
