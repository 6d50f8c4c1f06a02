package model

// Payment records one succeeded Stripe intent credited to a booking.
type Payment struct {
	DTO
	BookingID string  `gorm:"type:varchar(36);not null;index" json:"bookingId"`
	IntentID  string  `gorm:"uniqueIndex;not null" json:"intentId"`
	Amount    float64 `gorm:"not null" json:"amount"`
}
