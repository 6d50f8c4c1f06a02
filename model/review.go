package model

type Review struct {
	DTO
	UserID    string   `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_venue;uniqueIndex:idx_review_user_caterer" json:"userId"`
	User      *User    `json:"user,omitempty"`
	VenueID   *string  `gorm:"type:varchar(36);index;uniqueIndex:idx_review_user_venue" json:"venueId"`
	Venue     *Venue   `json:"venue,omitempty"`
	CatererID *string  `gorm:"type:varchar(36);index;uniqueIndex:idx_review_user_caterer" json:"catererId"`
	Caterer   *Caterer `json:"caterer,omitempty"`
	Rating    int      `gorm:"not null" json:"rating"`
	Comment   string   `gorm:"type:text" json:"comment"`
}

type CreateReviewInput struct {
	VenueID   *string `json:"venueId" validate:"omitempty,uuid"`
	CatererID *string `json:"catererId" validate:"omitempty,uuid"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   string  `json:"comment" validate:"required,min=10,max=2000"`
}

type FilterReview struct {
	Pagination
	VenueID   string `query:"venueId" json:"venueId" validate:"omitempty,uuid"`
	CatererID string `query:"catererId" json:"catererId" validate:"omitempty,uuid"`
}
