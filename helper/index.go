package helper

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not configured")

func HashPassword(password string) (string, error) {
	cost := config.Int("BCRYPT_COST")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func jwtSecret() ([]byte, error) {
	secret := config.Config("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(secret), nil
}

func generateToken(user *model.User, tokenType string, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = user.ID
	claims["email"] = user.Email
	claims["role"] = user.Role
	claims["type"] = tokenType
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(secret)
}

func GenerateAccessToken(user *model.User) (string, error) {
	return generateToken(user, constants.JWT_TYPE_ACCESS, config.Duration("JWT_EXPIRES_IN", 7*24*time.Hour))
}

func GenerateRefreshToken(user *model.User) (string, error) {
	return generateToken(user, constants.JWT_TYPE_REFRESH, config.Duration("JWT_REFRESH_EXPIRES_IN", 30*24*time.Hour))
}

// GenerateTokenPair issues an access and a refresh token for the user.
func GenerateTokenPair(user *model.User) (model.TokenData, error) {
	access, err := GenerateAccessToken(user)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{Token: access, RefreshToken: refresh}, nil
}

// ParseToken verifies the signature and expiry of a token and returns its claims.
func ParseToken(tokenString string) (*model.TokenClaim, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing userId", jwt.ErrTokenInvalidClaims)
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	tokenType, _ := claims["type"].(string)
	if tokenType == "" {
		tokenType = constants.JWT_TYPE_ACCESS
	}

	return &model.TokenClaim{UserID: userID, Email: email, Role: role, Type: tokenType}, nil
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

func GetUserByEmail(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	if err := db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByID(db *gorm.DB, id string) (*model.User, error) {
	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetCurrentUser returns the user stored by the auth middleware, or nil.
func GetCurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(constants.LOCALS_USER).(*model.User)
	return user
}

func IsAdmin(user *model.User) bool {
	return user != nil && user.Role == constants.ROLE_ADMIN
}

// CanManage reports whether the user owns the resource or is an admin.
func CanManage(user *model.User, ownerID string) bool {
	return user != nil && (user.Role == constants.ROLE_ADMIN || user.ID == ownerID)
}

// RandomToken returns a hex encoded random token of n bytes.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CreateAuthToken stores a single-use token for the user.
func CreateAuthToken(tx *gorm.DB, userID, purpose string, ttl time.Duration) (*model.AuthToken, error) {
	value, err := RandomToken(32)
	if err != nil {
		return nil, err
	}
	token := model.AuthToken{
		UserID:    userID,
		Token:     value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := tx.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeAuthToken loads a valid token of the given purpose and deletes it.
func ConsumeAuthToken(tx *gorm.DB, value, purpose string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := tx.Where("token = ? AND purpose = ? AND expires_at > ?", value, purpose, time.Now()).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	res := tx.Delete(&token)
	if res.Error != nil {
		return nil, res.Error
	}
	// a concurrent consumer deleted it first
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &token, nil
}

// GenerateReferenceCode returns a booking reference like BK-1A2B3C4D.
func GenerateReferenceCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}
