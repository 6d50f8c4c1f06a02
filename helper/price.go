package helper

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"
	"strings"
)

var ErrHourlyPricingUnavailable = errors.New(constants.BOOKING_HOURLY_DISABLED)

// BookingQuote holds the priced parts of a booking.
type BookingQuote struct {
	VenueAmount   float64
	CatererAmount float64
	TotalAmount   float64
}

// CalculateVenuePrice prices a venue for the given slot. Daily pricing ignores the clock times.
func CalculateVenuePrice(venue *model.Venue, priceType, startTime, endTime string) (float64, error) {
	if strings.EqualFold(priceType, constants.PRICE_HOURLY) {
		if venue.PricePerHour == nil {
			return 0, ErrHourlyPricingUnavailable
		}
		hours, err := utils.HoursBetween(startTime, endTime)
		if err != nil {
			return 0, err
		}
		return utils.Round(*venue.PricePerHour*hours, 2), nil
	}
	return venue.PricePerDay, nil
}

func CalculateCatererPrice(caterer *model.Caterer, guestCount int) float64 {
	return utils.Round(caterer.PricePerPerson*float64(guestCount), 2)
}

// QuoteBooking prices the venue and caterer parts of a booking. Either listing may be nil.
func QuoteBooking(venue *model.Venue, caterer *model.Caterer, priceType, startTime, endTime string, guestCount int) (BookingQuote, error) {
	var q BookingQuote
	if venue != nil {
		amount, err := CalculateVenuePrice(venue, priceType, startTime, endTime)
		if err != nil {
			return BookingQuote{}, err
		}
		q.VenueAmount = amount
	}
	if caterer != nil {
		q.CatererAmount = CalculateCatererPrice(caterer, guestCount)
	}
	q.TotalAmount = utils.Round(q.VenueAmount+q.CatererAmount, 2)
	return q, nil
}

// AdvanceAmount returns the part of the outstanding balance due now.
// percent outside (0,100] charges the full balance.
func AdvanceAmount(booking *model.Booking, percent float64, full bool) float64 {
	balance := utils.Round(booking.TotalAmount-booking.AmountPaid, 2)
	if balance <= 0 {
		return 0
	}
	if full || percent <= 0 || percent >= 100 || booking.AmountPaid > 0 {
		return balance
	}
	return utils.Round(booking.TotalAmount*percent/100, 2)
}

// PaymentStatusFor derives the payment status from what has been paid so far.
func PaymentStatusFor(total, paid float64) string {
	switch {
	case paid <= 0:
		return constants.PAYMENT_PENDING
	case paid+0.005 >= total:
		return constants.PAYMENT_PAID
	default:
		return constants.PAYMENT_PARTIAL
	}
}
