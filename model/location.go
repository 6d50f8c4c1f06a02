package model

type City struct {
	DTO
	Name      string  `gorm:"uniqueIndex;not null" json:"name"`
	Province  string  `json:"province"`
	Country   string  `gorm:"not null;default:'Pakistan'" json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Areas     []Area  `json:"areas,omitempty"`
}

type Area struct {
	DTO
	Name     string `gorm:"not null;uniqueIndex:idx_area_city" json:"name"`
	CityID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_area_city" json:"cityId"`
	City     *City  `json:"city,omitempty"`
	PostCode string `json:"postCode,omitempty"`
}

type Amenity struct {
	DTO
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Cuisine struct {
	DTO
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
	Origin      string `json:"origin,omitempty"`
}

type Specialty struct {
	DTO
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}
