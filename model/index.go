package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type TokenClaim struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
}

type DTO struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *DTO) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type Pagination struct {
	Page  *int `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit *int `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

type Sorting struct {
	SortOrder string `query:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Direction returns the SQL direction, defaulting to DESC.
func (s Sorting) Direction() string {
	if s.SortOrder == "asc" {
		return "ASC"
	}
	return "DESC"
}
