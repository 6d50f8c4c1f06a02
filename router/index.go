package router

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/handler"
	"asaan_shaadi/middleware"
	"asaan_shaadi/validate"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the Fiber app with the global middleware chain and every route.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "asaan-shaadi-api",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: config.IsDevelopment()}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, Stripe-Signature",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))
	app.Use(compress.New())
	if !config.IsTest() {
		app.Use(logger.New())
	}

	app.Get("/health", handler.Health)
	app.Static("/uploads", config.Config("UPLOAD_DIR"))

	SetupRoutes(app)

	app.Use(middleware.NotFound)
	return app
}

func rateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          config.Int("RATE_LIMIT_MAX_REQUESTS"),
		Expiration:   time.Duration(config.Int("RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
		LimitReached: middleware.TooManyRequests,
		Next: func(c *fiber.Ctx) bool {
			return websocket.IsWebSocketUpgrade(c)
		},
	})
}

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", rateLimiter())

	vendorOrAdmin := middleware.Authorize(constants.ROLE_VENDOR, constants.ROLE_ADMIN)

	auth := api.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Post("/verify-email", validate.VerifyEmail(), handler.VerifyEmail)
	auth.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)
	auth.Post("/refresh-token", validate.RefreshToken(), handler.RefreshToken)
	auth.Get("/me", middleware.Protected(), handler.Me)

	users := api.Group("/users", middleware.Protected())
	users.Get("/profile", handler.GetProfile)
	users.Put("/profile", validate.UpdateProfile(), handler.UpdateProfile)
	users.Put("/change-password", validate.ChangePassword(), handler.ChangePassword)

	venues := api.Group("/venues")
	venues.Get("/", middleware.OptionalAuth(), validate.FilterVenue(), handler.GetVenues)
	venues.Get("/mine", middleware.Protected(), vendorOrAdmin, validate.Pagination(), handler.GetMyVenues)
	venues.Get("/:id", middleware.OptionalAuth(), validate.ParamID("id"), handler.GetVenue)
	venues.Post("/", middleware.Protected(), vendorOrAdmin, validate.CreateVenue(), handler.CreateVenue)
	venues.Put("/:id", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.UpdateVenue(), handler.UpdateVenue)
	venues.Delete("/:id", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), handler.DeleteVenue)
	venues.Get("/:id/availability", validate.ParamID("id"), validate.FilterAvailability(), handler.GetVenueAvailability)
	venues.Put("/:id/availability", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.SetAvailability(), handler.SetVenueAvailability)
	venues.Post("/:id/images", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.UploadImages(), handler.UploadVenueImages)
	venues.Delete("/:id/images/:imageId", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.ParamIDs("imageId"), handler.DeleteVenueImage)

	caterers := api.Group("/caterers")
	caterers.Get("/", middleware.OptionalAuth(), validate.FilterCaterer(), handler.GetCaterers)
	caterers.Get("/mine", middleware.Protected(), vendorOrAdmin, validate.Pagination(), handler.GetMyCaterers)
	caterers.Get("/:id", middleware.OptionalAuth(), validate.ParamID("id"), handler.GetCaterer)
	caterers.Post("/", middleware.Protected(), vendorOrAdmin, validate.CreateCaterer(), handler.CreateCaterer)
	caterers.Put("/:id", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.UpdateCaterer(), handler.UpdateCaterer)
	caterers.Delete("/:id", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), handler.DeleteCaterer)
	caterers.Post("/:id/menu-items", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.CreateMenuItem(), handler.CreateMenuItem)
	caterers.Delete("/:id/menu-items/:itemId", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.ParamIDs("itemId"), handler.DeleteMenuItem)
	caterers.Post("/:id/packages", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.CreatePackage(), handler.CreatePackage)
	caterers.Delete("/:id/packages/:packageId", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.ParamIDs("packageId"), handler.DeletePackage)
	caterers.Post("/:id/images", middleware.Protected(), vendorOrAdmin, validate.ParamID("id"), validate.UploadImages(), handler.UploadCatererImages)

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Get("/", validate.FilterBooking(), handler.GetMyBookings)
	bookings.Get("/vendor", vendorOrAdmin, validate.FilterBooking(), handler.GetVendorBookings)
	bookings.Post("/", validate.CreateBooking(), handler.CreateBooking)
	bookings.Get("/:id", validate.ParamID("id"), handler.GetBooking)
	bookings.Put("/:id", validate.ParamID("id"), validate.UpdateBooking(), handler.UpdateBooking)
	bookings.Patch("/:id/status", vendorOrAdmin, validate.ParamID("id"), validate.UpdateBookingStatus(), handler.UpdateBookingStatus)
	bookings.Delete("/:id", validate.ParamID("id"), validate.CancelBooking(), handler.CancelBooking)
	bookings.Get("/:id/qr", validate.ParamID("id"), handler.GetBookingQR)
	bookings.Post("/:id/payment-intent", validate.ParamID("id"), handler.CreatePaymentIntent)

	api.Post("/payments/webhook", handler.StripeWebhook)

	reviews := api.Group("/reviews")
	reviews.Get("/", middleware.OptionalAuth(), validate.FilterReview(), handler.GetReviews)
	reviews.Post("/", middleware.Protected(), validate.CreateReview(), handler.CreateReview)
	reviews.Delete("/:id", middleware.Protected(), validate.ParamID("id"), handler.DeleteReview)

	api.Post("/contact", validate.CreateContactMessage(), handler.CreateContactMessage)

	admin := api.Group("/admin", middleware.Protected(), middleware.Authorize(constants.ROLE_ADMIN))
	admin.Get("/dashboard", handler.GetDashboard)
	admin.Get("/users", validate.FilterUser(), handler.GetUsers)
	admin.Patch("/users/:id", validate.ParamID("id"), validate.AdminUpdateUser(), handler.UpdateUser)
	admin.Patch("/venues/:id/approval", validate.ParamID("id"), validate.Approval(), handler.ApproveVenue)
	admin.Patch("/caterers/:id/approval", validate.ParamID("id"), validate.Approval(), handler.ApproveCaterer)
	admin.Get("/contact-messages", validate.FilterContactMessage(), handler.GetContactMessages)
	admin.Patch("/contact-messages/:id/read", validate.ParamID("id"), handler.MarkContactMessageRead)

	api.Get("/cities", handler.GetCities)
	api.Get("/cities/:id/areas", validate.ParamID("id"), handler.GetCityAreas)
	api.Get("/amenities", handler.GetAmenities)
	api.Get("/cuisines", handler.GetCuisines)
	api.Get("/specialties", handler.GetSpecialties)

	api.Post("/cloudinary-signature", middleware.Protected(), vendorOrAdmin, validate.MediaSignature(), handler.GenerateSignature)
	api.Get("/ws/notifications", middleware.WebSocketAuth(), websocket.New(handler.NotificationSocket))
}
