package constants

// Roles
const (
	ROLE_USER   = "USER"
	ROLE_VENDOR = "VENDOR"
	ROLE_ADMIN  = "ADMIN"
)

// Booking status
const (
	BOOKING_PENDING   = "PENDING"
	BOOKING_CONFIRMED = "CONFIRMED"
	BOOKING_CANCELLED = "CANCELLED"
	BOOKING_COMPLETED = "COMPLETED"
)

// Payment status
const (
	PAYMENT_PENDING  = "PENDING"
	PAYMENT_PAID     = "PAID"
	PAYMENT_PARTIAL  = "PARTIAL"
	PAYMENT_REFUNDED = "REFUNDED"
)

// Event types
const (
	EVENT_WEDDING    = "WEDDING"
	EVENT_ENGAGEMENT = "ENGAGEMENT"
	EVENT_MEHNDI     = "MEHNDI"
	EVENT_RECEPTION  = "RECEPTION"
	EVENT_BIRTHDAY   = "BIRTHDAY"
	EVENT_CORPORATE  = "CORPORATE"
	EVENT_OTHER      = "OTHER"
)

var EVENT_TYPES = []string{EVENT_WEDDING, EVENT_ENGAGEMENT, EVENT_MEHNDI, EVENT_RECEPTION, EVENT_BIRTHDAY, EVENT_CORPORATE, EVENT_OTHER}

// Pricing
const (
	PRICE_DAILY      = "daily"
	PRICE_HOURLY     = "hourly"
	PRICE_PER_PERSON = "per_person"
)

// Auth token purposes
const (
	TOKEN_PASSWORD_RESET     = "PASSWORD_RESET"
	TOKEN_EMAIL_VERIFICATION = "EMAIL_VERIFICATION"
)

const (
	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"
)

// Pagination
const (
	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 12
	MAX_LIMIT     = 100
)

const DATE_LAYOUT = "2006-01-02"
const TIME_LAYOUT = "15:04"

// Locals keys
const (
	LOCALS_USER = "user"
)

// Messages
const (
	ACCESS_TOKEN_REQUIRED    = "Access token required"
	INVALID_TOKEN            = "Invalid token"
	TOKEN_EXPIRED            = "Token expired"
	USER_NOT_FOUND           = "User not found"
	EMAIL_NOT_VERIFIED       = "Please verify your email address"
	ACCOUNT_DISABLED         = "Account has been deactivated"
	AUTHENTICATION_REQUIRED  = "Authentication required"
	INSUFFICIENT_PERMISSIONS = "Insufficient permissions"

	USER_ALREADY_EXISTS   = "User with this email already exists"
	INVALID_CREDENTIALS   = "Invalid credentials"
	INVALID_RESET_TOKEN   = "Invalid or expired token"
	INVALID_VERIFY_TOKEN  = "Invalid or expired verification token"
	INVALID_REFRESH_TOKEN = "Invalid refresh token"
	WRONG_PASSWORD        = "Current password is incorrect"

	VALIDATION_FAILED    = "Validation failed"
	VALIDATION_ERROR     = "Validation Error"
	INVALID_REQUEST_BODY = "Invalid request body"
	INVALID_QUERY        = "Invalid query parameters"
	INVALID_ID           = "Invalid id"

	RESOURCE_NOT_FOUND  = "Resource not found"
	DUPLICATE_VALUE     = "Duplicate value for field"
	INVALID_REFERENCE   = "Invalid reference to related resource"
	INTERNAL_ERROR      = "Internal Server Error"
	TOO_MANY_REQUESTS   = "Too many requests from this IP, please try again later."
	UPGRADE_REQUIRED    = "Websocket upgrade required"
	SERVICE_UNAVAILABLE = "Service not configured"

	VENUE_NOT_FOUND          = "Venue not found"
	VENUE_NOT_AVAILABLE      = "Venue not available"
	NOT_AUTHORIZED_UPDATE_V  = "Not authorized to update this venue"
	NOT_AUTHORIZED_DELETE_V  = "Not authorized to delete this venue"
	CATERER_NOT_FOUND        = "Caterer not found"
	CATERER_NOT_AVAILABLE    = "Caterer not available"
	NOT_AUTHORIZED_UPDATE_C  = "Not authorized to update this caterer"
	NOT_AUTHORIZED_DELETE_C  = "Not authorized to delete this caterer"
	CITY_NOT_FOUND           = "City not found"
	AREA_NOT_IN_CITY         = "Area does not belong to the selected city"
	INVALID_AMENITIES        = "One or more amenities are invalid"
	INVALID_CUISINES         = "One or more cuisines are invalid"
	INVALID_SPECIALTIES      = "One or more specialties are invalid"
	INVALID_SERVICE_AREAS    = "One or more service areas are invalid"
	IMAGE_NOT_FOUND          = "Image not found"
	MENU_ITEM_NOT_FOUND      = "Menu item not found"
	PACKAGE_NOT_FOUND        = "Package not found"
	NO_IMAGES_UPLOADED       = "No images uploaded"
	IMAGE_STORAGE_DISABLED   = "Image storage not configured"
	PAYMENTS_DISABLED        = "Payments not configured"
	BOOKING_NOT_FOUND        = "Booking not found"
	NOT_AUTHORIZED_BOOKING   = "Not authorized to access this booking"
	BOOKING_LISTING_REQUIRED = "Either venueId or catererId is required"
	BOOKING_DATE_PAST        = "Event date cannot be in the past"
	BOOKING_TIME_ORDER       = "End time must be after start time"
	BOOKING_CAPACITY         = "Guest count exceeds venue capacity"
	BOOKING_MINIMUM_ORDER    = "Guest count is below the caterer's minimum order"
	BOOKING_DATE_BLOCKED     = "Venue is not available on the selected date"
	BOOKING_CONFLICT         = "Venue is already booked for the selected time"
	BOOKING_HOURLY_DISABLED  = "Venue does not offer hourly pricing"
	BOOKING_NOT_EDITABLE     = "Only pending bookings can be modified"
	BOOKING_NOT_CANCELLABLE  = "Booking cannot be cancelled"
	BOOKING_BAD_TRANSITION   = "Invalid booking status transition"
	BOOKING_QR_UNAVAILABLE   = "QR code is only available for confirmed bookings"
	BOOKING_ALREADY_PAID     = "Booking is already paid"
	BOOKING_NOT_PAYABLE      = "Only pending or confirmed bookings can be paid"
	INVALID_WEBHOOK          = "Invalid webhook signature"
	REVIEW_TARGET_REQUIRED   = "Exactly one of venueId or catererId is required"
	REVIEW_DUPLICATE         = "You have already reviewed this listing"
	REVIEW_NOT_FOUND         = "Review not found"
	NOT_AUTHORIZED_REVIEW    = "Not authorized to delete this review"
	MESSAGE_NOT_FOUND        = "Message not found"
	ADMIN_ROLE_FORBIDDEN     = "Cannot register as admin"
)
