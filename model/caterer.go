package model

type Caterer struct {
	DTO
	Name           string            `gorm:"not null" json:"name"`
	Slug           string            `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string            `gorm:"type:text" json:"description"`
	PricePerPerson float64           `gorm:"not null" json:"pricePerPerson"`
	MinimumOrder   int               `gorm:"not null;default:1" json:"minimumOrder"`
	ContactPerson  string            `json:"contactPerson"`
	ContactPhone   string            `json:"contactPhone"`
	ContactEmail   string            `json:"contactEmail"`
	IsActive       bool              `gorm:"not null;default:true;index" json:"isActive"`
	IsApproved     bool              `gorm:"not null;default:false;index" json:"isApproved"`
	Rating         float64           `gorm:"not null;default:0" json:"rating"`
	ReviewCount    int               `gorm:"not null;default:0" json:"reviewCount"`
	OwnerID        string            `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Owner          *User             `json:"owner,omitempty"`
	ServiceAreas   []City            `gorm:"many2many:caterer_service_areas" json:"serviceAreas,omitempty"`
	Cuisines       []Cuisine         `gorm:"many2many:caterer_cuisines" json:"cuisines,omitempty"`
	Specialties    []Specialty       `gorm:"many2many:caterer_specialties" json:"specialties,omitempty"`
	Images         []CatererImage    `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	MenuItems      []MenuItem        `gorm:"constraint:OnDelete:CASCADE" json:"menuItems,omitempty"`
	Packages       []CateringPackage `gorm:"constraint:OnDelete:CASCADE" json:"packages,omitempty"`
	Reviews        []Review          `json:"reviews,omitempty"`

	ServiceAreaNames []string `gorm:"-" json:"serviceAreaNames"`
	CuisineNames     []string `gorm:"-" json:"cuisineNames"`
	SpecialtyNames   []string `gorm:"-" json:"specialtyNames"`
	PrimaryImage     *string  `gorm:"-" json:"primaryImage"`
	BookingCount     int64    `gorm:"-" json:"bookingCount"`
}

// FillNames copies association names into the flat name lists used by listing cards.
func (c *Caterer) FillNames() {
	c.ServiceAreaNames = make([]string, 0, len(c.ServiceAreas))
	for _, a := range c.ServiceAreas {
		c.ServiceAreaNames = append(c.ServiceAreaNames, a.Name)
	}
	c.CuisineNames = make([]string, 0, len(c.Cuisines))
	for _, cu := range c.Cuisines {
		c.CuisineNames = append(c.CuisineNames, cu.Name)
	}
	c.SpecialtyNames = make([]string, 0, len(c.Specialties))
	for _, s := range c.Specialties {
		c.SpecialtyNames = append(c.SpecialtyNames, s.Name)
	}
}

type CatererImage struct {
	DTO
	CatererID string `gorm:"type:varchar(36);not null;index" json:"catererId"`
	URL       string `gorm:"not null" json:"url"`
	PublicID  string `json:"publicId,omitempty"`
	IsPrimary bool   `gorm:"not null;default:false" json:"isPrimary"`
	SortOrder int    `gorm:"not null;default:0" json:"order"`
}

type MenuItem struct {
	DTO
	CatererID   string  `gorm:"type:varchar(36);not null;index" json:"catererId"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `gorm:"not null" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	IsAvailable bool    `gorm:"not null;default:true" json:"isAvailable"`
}

type CateringPackage struct {
	DTO
	CatererID      string  `gorm:"type:varchar(36);not null;index" json:"catererId"`
	Name           string  `gorm:"not null" json:"name"`
	Description    string  `json:"description,omitempty"`
	PricePerPerson float64 `gorm:"not null" json:"pricePerPerson"`
	MinimumGuests  int     `gorm:"not null;default:1" json:"minimumGuests"`
	IsActive       bool    `gorm:"not null;default:true" json:"isActive"`
}

type CreateCatererInput struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required,min=10"`
	PricePerPerson float64  `json:"pricePerPerson" validate:"min=0"`
	MinimumOrder   int      `json:"minimumOrder" validate:"required,min=1"`
	ContactPerson  string   `json:"contactPerson" validate:"required"`
	ContactPhone   string   `json:"contactPhone" validate:"required,mobilephone"`
	ContactEmail   string   `json:"contactEmail" validate:"required,email"`
	ServiceAreaIDs []string `json:"serviceAreaIds" validate:"required,min=1,dive,uuid"`
	CuisineIDs     []string `json:"cuisineIds" validate:"required,min=1,dive,uuid"`
	SpecialtyIDs   []string `json:"specialtyIds" validate:"omitempty,dive,uuid"`
}

type UpdateCatererInput struct {
	Name           *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string   `json:"description" validate:"omitempty,min=10"`
	PricePerPerson *float64  `json:"pricePerPerson" validate:"omitempty,min=0"`
	MinimumOrder   *int      `json:"minimumOrder" validate:"omitempty,min=1"`
	ContactPerson  *string   `json:"contactPerson" validate:"omitempty,min=1"`
	ContactPhone   *string   `json:"contactPhone" validate:"omitempty,mobilephone"`
	ContactEmail   *string   `json:"contactEmail" validate:"omitempty,email"`
	ServiceAreaIDs *[]string `json:"serviceAreaIds" validate:"omitempty,min=1,dive,uuid"`
	CuisineIDs     *[]string `json:"cuisineIds" validate:"omitempty,min=1,dive,uuid"`
	SpecialtyIDs   *[]string `json:"specialtyIds" validate:"omitempty,dive,uuid"`
}

type FilterCaterer struct {
	Pagination
	Sorting
	Search       string   `query:"search" json:"search"`
	MinPrice     *float64 `query:"minPrice" json:"minPrice" validate:"omitempty,min=0"`
	MaxPrice     *float64 `query:"maxPrice" json:"maxPrice" validate:"omitempty,min=0"`
	MinimumOrder *int     `query:"minimumOrder" json:"minimumOrder" validate:"omitempty,min=1"`
	SortBy       string   `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=price rating name createdAt"`
	ServiceAreas []string `query:"-" json:"serviceAreas"`
	Cuisines     []string `query:"-" json:"cuisine"`
}

type MenuItemInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Category    string  `json:"category" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"min=0"`
	IsAvailable *bool   `json:"isAvailable"`
}

type PackageInput struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Description    string  `json:"description" validate:"omitempty,max=2000"`
	PricePerPerson float64 `json:"pricePerPerson" validate:"min=0"`
	MinimumGuests  int     `json:"minimumGuests" validate:"omitempty,min=1"`
}
