package model

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/utils"
)

type Booking struct {
	DTO
	ReferenceCode      string           `gorm:"uniqueIndex;not null" json:"referenceCode"`
	UserID             string           `gorm:"type:varchar(36);not null;index" json:"userId"`
	User               *User            `json:"user,omitempty"`
	VenueID            *string          `gorm:"type:varchar(36);index" json:"venueId"`
	Venue              *Venue           `json:"venue,omitempty"`
	CatererID          *string          `gorm:"type:varchar(36);index" json:"catererId"`
	Caterer            *Caterer         `json:"caterer,omitempty"`
	EventDate          utils.CustomDate `gorm:"type:date;not null;index" json:"eventDate"`
	StartTime          string           `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime            string           `gorm:"type:varchar(5);not null" json:"endTime"`
	GuestCount         int              `gorm:"not null" json:"guestCount"`
	EventType          string           `gorm:"type:varchar(20);not null" json:"eventType"`
	Status             string           `gorm:"type:varchar(20);not null;index" json:"status"`
	PriceType          string           `gorm:"type:varchar(10);not null" json:"priceType"`
	VenueAmount        float64          `gorm:"not null;default:0" json:"venueAmount"`
	CatererAmount      float64          `gorm:"not null;default:0" json:"catererAmount"`
	TotalAmount        float64          `gorm:"not null" json:"totalAmount"`
	AmountPaid         float64          `gorm:"not null;default:0" json:"amountPaid"`
	PaymentStatus      string           `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	PaymentIntentID    *string          `gorm:"index" json:"-"`
	SpecialRequests    *string          `gorm:"type:text" json:"specialRequests"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
}

var bookingTransitions = map[string][]string{
	constants.BOOKING_PENDING:   {constants.BOOKING_CONFIRMED, constants.BOOKING_CANCELLED},
	constants.BOOKING_CONFIRMED: {constants.BOOKING_COMPLETED, constants.BOOKING_CANCELLED},
}

// CanTransitionTo reports whether the booking may move to the given status.
func (b *Booking) CanTransitionTo(status string) bool {
	for _, next := range bookingTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}

func (b *Booking) IsActive() bool {
	return b.Status == constants.BOOKING_PENDING || b.Status == constants.BOOKING_CONFIRMED
}

type CreateBookingInput struct {
	VenueID         *string          `json:"venueId" validate:"omitempty,uuid"`
	CatererID       *string          `json:"catererId" validate:"omitempty,uuid"`
	EventDate       utils.CustomDate `json:"eventDate"`
	StartTime       string           `json:"startTime" validate:"required,clock"`
	EndTime         string           `json:"endTime" validate:"required,clock"`
	GuestCount      int              `json:"guestCount" validate:"required,min=1"`
	EventType       string           `json:"eventType" validate:"required,eventtype"`
	PriceType       string           `json:"priceType" validate:"omitempty,oneof=daily hourly"`
	SpecialRequests *string          `json:"specialRequests" validate:"omitempty,max=2000"`
}

type UpdateBookingInput struct {
	EventDate       *utils.CustomDate `json:"eventDate"`
	StartTime       *string           `json:"startTime" validate:"omitempty,clock"`
	EndTime         *string           `json:"endTime" validate:"omitempty,clock"`
	GuestCount      *int              `json:"guestCount" validate:"omitempty,min=1"`
	PriceType       *string           `json:"priceType" validate:"omitempty,oneof=daily hourly"`
	SpecialRequests *string           `json:"specialRequests" validate:"omitempty,max=2000"`
}

type UpdateBookingStatusInput struct {
	Status string  `json:"status" validate:"required,oneof=CONFIRMED CANCELLED COMPLETED"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type CancelBookingInput struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type FilterBooking struct {
	Pagination
	Status string `query:"status" json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

type PaymentIntentResponse struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
