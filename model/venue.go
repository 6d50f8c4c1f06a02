package model

import "asaan_shaadi/utils"

type Venue struct {
	DTO
	Name             string              `gorm:"not null" json:"name"`
	Slug             string              `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string              `gorm:"type:text" json:"description"`
	Address          string              `gorm:"not null" json:"address"`
	CityID           string              `gorm:"type:varchar(36);not null;index" json:"cityId"`
	City             *City               `json:"city,omitempty"`
	AreaID           string              `gorm:"type:varchar(36);not null;index" json:"areaId"`
	Area             *Area               `json:"area,omitempty"`
	Capacity         int                 `gorm:"not null" json:"capacity"`
	PricePerDay      float64             `gorm:"not null" json:"pricePerDay"`
	PricePerHour     *float64            `json:"pricePerHour"`
	IsAirConditioned bool                `gorm:"not null;default:false" json:"isAirConditioned"`
	ContactPerson    string              `json:"contactPerson"`
	ContactPhone     string              `json:"contactPhone"`
	ContactEmail     string              `json:"contactEmail"`
	Latitude         *float64            `json:"latitude"`
	Longitude        *float64            `json:"longitude"`
	IsActive         bool                `gorm:"not null;default:true;index" json:"isActive"`
	IsApproved       bool                `gorm:"not null;default:false;index" json:"isApproved"`
	Rating           float64             `gorm:"not null;default:0" json:"rating"`
	ReviewCount      int                 `gorm:"not null;default:0" json:"reviewCount"`
	OwnerID          string              `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Owner            *User               `json:"owner,omitempty"`
	Images           []VenueImage        `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Amenities        []Amenity           `gorm:"many2many:venue_amenities" json:"amenities"`
	Reviews          []Review            `json:"reviews,omitempty"`
	Availability     []VenueAvailability `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	PrimaryImage *string  `gorm:"-" json:"primaryImage"`
	BookingCount int64    `gorm:"-" json:"bookingCount"`
	DistanceKm   *float64 `gorm:"-" json:"distanceKm,omitempty"`
}

type VenueImage struct {
	DTO
	VenueID   string `gorm:"type:varchar(36);not null;index" json:"venueId"`
	URL       string `gorm:"not null" json:"url"`
	PublicID  string `json:"publicId,omitempty"`
	IsPrimary bool   `gorm:"not null;default:false" json:"isPrimary"`
	SortOrder int    `gorm:"not null;default:0" json:"order"`
}

type VenueAvailability struct {
	DTO
	VenueID     string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_venue_date" json:"venueId"`
	Date        utils.CustomDate `gorm:"type:date;not null;uniqueIndex:idx_venue_date" json:"date"`
	IsAvailable bool             `gorm:"not null" json:"isAvailable"`
	Note        *string          `json:"note,omitempty"`
}

type CreateVenueInput struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Description      string   `json:"description" validate:"required,min=10"`
	Address          string   `json:"address" validate:"required,min=5"`
	CityID           string   `json:"cityId" validate:"required,uuid"`
	AreaID           string   `json:"areaId" validate:"required,uuid"`
	Capacity         int      `json:"capacity" validate:"required,min=1"`
	PricePerDay      float64  `json:"pricePerDay" validate:"min=0"`
	PricePerHour     *float64 `json:"pricePerHour" validate:"omitempty,min=0"`
	IsAirConditioned bool     `json:"isAirConditioned"`
	AmenityIDs       []string `json:"amenityIds" validate:"omitempty,dive,uuid"`
	ContactPerson    string   `json:"contactPerson" validate:"required"`
	ContactPhone     string   `json:"contactPhone" validate:"required,mobilephone"`
	ContactEmail     string   `json:"contactEmail" validate:"required,email"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type UpdateVenueInput struct {
	Name             *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string   `json:"description" validate:"omitempty,min=10"`
	Address          *string   `json:"address" validate:"omitempty,min=5"`
	CityID           *string   `json:"cityId" validate:"omitempty,uuid"`
	AreaID           *string   `json:"areaId" validate:"omitempty,uuid"`
	Capacity         *int      `json:"capacity" validate:"omitempty,min=1"`
	PricePerDay      *float64  `json:"pricePerDay" validate:"omitempty,min=0"`
	PricePerHour     *float64  `json:"pricePerHour" validate:"omitempty,min=0"`
	IsAirConditioned *bool     `json:"isAirConditioned"`
	AmenityIDs       *[]string `json:"amenityIds" validate:"omitempty,dive,uuid"`
	ContactPerson    *string   `json:"contactPerson" validate:"omitempty,min=1"`
	ContactPhone     *string   `json:"contactPhone" validate:"omitempty,mobilephone"`
	ContactEmail     *string   `json:"contactEmail" validate:"omitempty,email"`
	Latitude         *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude        *float64  `json:"longitude" validate:"omitempty,longitude"`
}

type FilterVenue struct {
	Pagination
	Sorting
	City             string   `query:"city" json:"city"`
	Area             string   `query:"area" json:"area"`
	Search           string   `query:"search" json:"search"`
	MinCapacity      *int     `query:"minCapacity" json:"minCapacity" validate:"omitempty,min=0"`
	MaxCapacity      *int     `query:"maxCapacity" json:"maxCapacity" validate:"omitempty,min=0"`
	MinPrice         *float64 `query:"minPrice" json:"minPrice" validate:"omitempty,min=0"`
	MaxPrice         *float64 `query:"maxPrice" json:"maxPrice" validate:"omitempty,min=0"`
	IsAirConditioned *bool    `query:"isAirConditioned" json:"isAirConditioned"`
	Lat              *float64 `query:"lat" json:"lat" validate:"omitempty,latitude"`
	Lng              *float64 `query:"lng" json:"lng" validate:"omitempty,longitude"`
	RadiusKm         *float64 `query:"radiusKm" json:"radiusKm" validate:"omitempty,gt=0"`
	SortBy           string   `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=price rating capacity name createdAt"`
	Amenities        []string `query:"-" json:"amenities"`
}

type FilterAvailability struct {
	StartDate string `query:"startDate" json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type AvailabilityEntryInput struct {
	Date        utils.CustomDate `json:"date" validate:"required"`
	IsAvailable bool             `json:"isAvailable"`
	Note        *string          `json:"note" validate:"omitempty,max=255"`
}

type SetAvailabilityInput struct {
	Dates []AvailabilityEntryInput `json:"dates" validate:"required,min=1,max=366,dive"`
}

type BookedSlot struct {
	Date      utils.CustomDate `json:"date"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime"`
	Status    string           `json:"status"`
}

type VenueAvailabilityResponse struct {
	Blocked []VenueAvailability `json:"blocked"`
	Booked  []BookedSlot        `json:"booked"`
}
