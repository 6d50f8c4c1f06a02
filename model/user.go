package model

import "time"

type User struct {
	DTO
	Email       string     `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `gorm:"not null" json:"lastName"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `gorm:"type:varchar(20);not null;index" json:"role,omitempty"`
	IsVerified  bool       `gorm:"not null;default:false" json:"isVerified"`
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	AvatarURL   *string    `json:"avatarUrl,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AuthToken is a single-use token for password reset or email verification.
type AuthToken struct {
	DTO
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	Purpose   string    `gorm:"type:varchar(30);not null" json:"purpose"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,mobilephone"`
	Role      string `json:"role" validate:"omitempty,oneof=USER VENDOR ADMIN"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailInput struct {
	Token string `json:"token" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,mobilephone"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type FilterUser struct {
	Pagination
	Search string `query:"search" json:"search"`
	Role   string `query:"role" json:"role" validate:"omitempty,oneof=USER VENDOR ADMIN"`
}

type AdminUpdateUserInput struct {
	Role       *string `json:"role" validate:"omitempty,oneof=USER VENDOR ADMIN"`
	IsActive   *bool   `json:"isActive"`
	IsVerified *bool   `json:"isVerified"`
}
