package helper

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func PaymentsConfigured() bool {
	return config.Config("STRIPE_SECRET_KEY") != ""
}

// InitStripe sets the global Stripe key. It reports whether payments are enabled.
func InitStripe() bool {
	stripe.Key = config.Config("STRIPE_SECRET_KEY")
	return stripe.Key != ""
}

// ToMinorUnits converts a rupee amount to paisa as Stripe expects.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(amount int64) float64 {
	return utils.Round(float64(amount)/100, 2)
}

// CreatePaymentIntent opens a Stripe intent for amount on the booking.
func CreatePaymentIntent(booking *model.Booking, amount float64) (*stripe.PaymentIntent, error) {
	if !PaymentsConfigured() {
		return nil, errors.New("stripe is not configured")
	}
	stripe.Key = config.Config("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(ToMinorUnits(amount)),
		Currency:    stripe.String(strings.ToLower(config.Config("STRIPE_CURRENCY"))),
		Description: stripe.String("Booking " + booking.ReferenceCode),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", booking.ID)
	params.AddMetadata("referenceCode", booking.ReferenceCode)
	return paymentintent.New(params)
}

// ErrPaymentRecorded marks a redelivered intent that was already credited.
var ErrPaymentRecorded = errors.New("payment intent already recorded")

// ApplyPayment credits a succeeded intent to its booking and records it in
// the payments ledger. The booking is resolved from the intent metadata and
// falls back to the stored intent id; nil means no match. Money arriving for
// a cancelled booking is recorded as refunded.
func ApplyPayment(tx *gorm.DB, intentID, bookingID string, amount float64) (*model.Booking, error) {
	var recorded int64
	if err := tx.Model(&model.Payment{}).Where("intent_id = ?", intentID).Count(&recorded).Error; err != nil {
		return nil, err
	}
	if recorded > 0 {
		return nil, ErrPaymentRecorded
	}

	var booking model.Booking
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	if bookingID != "" {
		q = q.Where("id = ?", bookingID)
	} else {
		q = q.Where("payment_intent_id = ?", intentID)
	}
	if err := q.First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := tx.Create(&model.Payment{BookingID: booking.ID, IntentID: intentID, Amount: amount}).Error; err != nil {
		return nil, err
	}

	paid := utils.Round(booking.AmountPaid+amount, 2)
	if paid > booking.TotalAmount {
		paid = booking.TotalAmount
	}
	status := PaymentStatusFor(booking.TotalAmount, paid)
	if booking.Status == constants.BOOKING_CANCELLED {
		status = constants.PAYMENT_REFUNDED
	}

	updates := map[string]any{
		"amount_paid":    paid,
		"payment_status": status,
	}
	if booking.PaymentIntentID != nil && *booking.PaymentIntentID == intentID {
		updates["payment_intent_id"] = nil
		booking.PaymentIntentID = nil
	}
	if err := tx.Model(&booking).Updates(updates).Error; err != nil {
		return nil, err
	}
	booking.AmountPaid = paid
	booking.PaymentStatus = status
	return &booking, nil
}
