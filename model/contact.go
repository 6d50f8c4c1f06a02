package model

type ContactMessage struct {
	DTO
	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null" json:"email"`
	Phone   string `json:"phone"`
	Subject string `gorm:"not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"not null;default:false" json:"isRead"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,mobilephone"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type FilterContactMessage struct {
	Pagination
	IsRead *bool `query:"isRead" json:"isRead"`
}

type ApprovalInput struct {
	IsApproved *bool `json:"isApproved" validate:"required"`
}

type MediaSignatureInput struct {
	Folder   string `json:"folder" validate:"omitempty,max=100"`
	PublicID string `json:"publicId" validate:"omitempty,max=200"`
}
