package model

import "time"

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingPaid          = "booking.paid"
)

// NotificationEvent is pushed to websocket clients of the affected user.
type NotificationEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"bookingId"`
	Reference string    `json:"referenceCode"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
