package utils

import (
	"asaan_shaadi/constants"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	pgKeyDetail      = regexp.MustCompile(`Key \(([^)]+)\)`)
	sqliteUniqueCols = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
)

// MapError translates an error into an HTTP status and a client-facing message.
func MapError(err error) (int, string) {
	if err == nil {
		return fiber.StatusOK, ""
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, constants.RESOURCE_NOT_FOUND
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return fiber.StatusUnauthorized, constants.TOKEN_EXPIRED
	}
	if isJWTError(err) {
		return fiber.StatusUnauthorized, constants.INVALID_TOKEN
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, constants.VALIDATION_ERROR
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fiber.StatusBadRequest, duplicateMessage(pgKeyField(pgErr.Detail))
		case "23503":
			return fiber.StatusBadRequest, constants.INVALID_REFERENCE
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.StatusBadRequest, constants.DUPLICATE_VALUE
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fiber.StatusBadRequest, constants.INVALID_REFERENCE
	}

	msg := err.Error()
	if m := sqliteUniqueCols.FindStringSubmatch(msg); m != nil {
		col := m[1]
		if i := strings.LastIndex(col, "."); i >= 0 {
			col = col[i+1:]
		}
		return fiber.StatusBadRequest, duplicateMessage(col)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return fiber.StatusBadRequest, constants.INVALID_REFERENCE
	}

	return fiber.StatusInternalServerError, constants.INTERNAL_ERROR
}

func isJWTError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrSignatureInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func pgKeyField(detail string) string {
	if m := pgKeyDetail.FindStringSubmatch(detail); m != nil {
		return m[1]
	}
	return ""
}

func duplicateMessage(field string) string {
	if field == "" {
		return constants.DUPLICATE_VALUE
	}
	return "Duplicate value for " + field
}
