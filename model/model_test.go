package model

import (
	"testing"

	"asaan_shaadi/constants"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	pending := &Booking{Status: constants.BOOKING_PENDING}
	assert.True(t, pending.CanTransitionTo(constants.BOOKING_CONFIRMED))
	assert.True(t, pending.CanTransitionTo(constants.BOOKING_CANCELLED))
	assert.False(t, pending.CanTransitionTo(constants.BOOKING_COMPLETED))

	confirmed := &Booking{Status: constants.BOOKING_CONFIRMED}
	assert.True(t, confirmed.CanTransitionTo(constants.BOOKING_COMPLETED))
	assert.True(t, confirmed.CanTransitionTo(constants.BOOKING_CANCELLED))
	assert.False(t, confirmed.CanTransitionTo(constants.BOOKING_PENDING))

	for _, terminal := range []string{constants.BOOKING_CANCELLED, constants.BOOKING_COMPLETED} {
		b := &Booking{Status: terminal}
		assert.False(t, b.IsActive())
		for _, next := range []string{constants.BOOKING_PENDING, constants.BOOKING_CONFIRMED, constants.BOOKING_CANCELLED, constants.BOOKING_COMPLETED} {
			assert.False(t, b.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestDTOBeforeCreateAssignsID(t *testing.T) {
	v := &Venue{}
	assert.NoError(t, v.BeforeCreate(nil))
	assert.Len(t, v.ID, 36)

	keep := &Venue{DTO: DTO{ID: "fixed"}}
	assert.NoError(t, keep.BeforeCreate(nil))
	assert.Equal(t, "fixed", keep.ID)
}

func TestCatererFillNames(t *testing.T) {
	c := &Caterer{
		ServiceAreas: []City{{Name: "Karachi"}, {Name: "Lahore"}},
		Cuisines:     []Cuisine{{Name: "Pakistani"}},
	}
	c.FillNames()
	assert.Equal(t, []string{"Karachi", "Lahore"}, c.ServiceAreaNames)
	assert.Equal(t, []string{"Pakistani"}, c.CuisineNames)
	assert.Empty(t, c.SpecialtyNames)
	assert.NotNil(t, c.SpecialtyNames)
}

func TestSortingDirection(t *testing.T) {
	assert.Equal(t, "ASC", Sorting{SortOrder: "asc"}.Direction())
	assert.Equal(t, "DESC", Sorting{SortOrder: "desc"}.Direction())
	assert.Equal(t, "DESC", Sorting{}.Direction())
}
