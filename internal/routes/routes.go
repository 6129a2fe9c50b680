package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/handlers"
	"github.com/Ananth-NQI/loadboard-backend/internal/middleware"
	"github.com/Ananth-NQI/loadboard-backend/internal/models"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Loads         *handlers.LoadHandler
	Vehicles      *handlers.VehicleHandler
	Trucks        *handlers.TruckHandler
	Rates         *handlers.RateHandler
	Admin         *handlers.AdminHandler
	Analytics     *handlers.AnalyticsHandler
	Messages      *handlers.MessageHandler
	Notifications *handlers.NotificationHandler
	Reviews       *handlers.ReviewHandler
	Documents     *handlers.DocumentHandler
	Searches      *handlers.SearchHandler
	WhatsApp      *handlers.WhatsAppHandler
}

func roles(groups ...[]models.Role) []models.Role {
	var out []models.Role
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h Handlers, auth middleware.Authenticator, twilio config.TwilioConfig) {
	app.Get("/health", h.Health.Check)

	api := app.Group("/api")
	api.Get("/health", h.Health.Check)

	carrier := middleware.RequireRoles(roles(models.CarrierRoles, models.AdminRoles)...)
	shipper := middleware.RequireRoles(roles(models.ShipperRoles, models.AdminRoles)...)
	admin := middleware.RequireRoles(models.AdminRoles...)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Get("/me", middleware.RequireAuth(auth), h.Auth.Me)

	// Twilio delivery callbacks carry no bearer token
	if twilio.Enabled() && h.WhatsApp != nil {
		webhooks := api.Group("/webhooks")
		webhooks.Post("/twilio/status", middleware.ValidateTwilioSignature(twilio.AuthToken, twilio.StatusCallbackURL), h.WhatsApp.HandleStatus)
	}

	protected := api.Group("", middleware.RequireAuth(auth))

	// Loads
	loads := protected.Group("/loads")
	loads.Get("/", h.Loads.GetLoads)
	loads.Post("/", shipper, h.Loads.CreateLoad)
	loads.Get("/my", h.Loads.MyLoads)
	loads.Get("/:id", h.Loads.GetLoad)
	loads.Post("/:id/bid", carrier, h.Loads.PlaceBid)
	loads.Put("/:id/bids/:bidId", shipper, h.Loads.DecideBid)
	loads.Post("/:id/tracking", carrier, h.Loads.AddTracking)
	loads.Get("/:id/tracking", h.Loads.GetTracking)

	// Vehicles
	vehicles := protected.Group("/vehicles", carrier)
	vehicles.Post("/", h.Vehicles.Create)
	vehicles.Get("/my", h.Vehicles.ListMine)
	vehicles.Put("/:id", h.Vehicles.Update)
	vehicles.Delete("/:id", h.Vehicles.Delete)

	// Trucks
	trucks := protected.Group("/trucks")
	trucks.Get("/search", h.Trucks.Search)
	trucks.Get("/availability", h.Trucks.ListAvailability)
	trucks.Post("/availability", carrier, h.Trucks.PostAvailability)
	trucks.Get("/availability/my-postings", carrier, h.Trucks.MyPostings)
	trucks.Put("/availability/:id", carrier, h.Trucks.UpdateAvailability)
	trucks.Delete("/availability/:id", carrier, h.Trucks.DeleteAvailability)
	trucks.Post("/availability/:id/book", shipper, h.Trucks.Book)

	// Rates
	rates := protected.Group("/rates")
	rates.Get("/lane", h.Rates.GetLaneRate)
	rates.Get("/trending", h.Rates.Trending)
	rates.Get("/hot-lanes", h.Rates.HotLanes)
	rates.Get("/compare", h.Rates.Compare)
	rates.Get("/trihaul", h.Rates.TriHaul)
	rates.Post("/refresh", admin, h.Rates.Refresh)

	// Admin
	adminGroup := protected.Group("/admin", admin)
	adminGroup.Get("/users", h.Admin.ListUsers)
	adminGroup.Put("/users/:id/status", h.Admin.SetUserStatus)

	// Analytics
	analytics := protected.Group("/analytics")
	analytics.Get("/overview", admin, h.Analytics.Overview)
	analytics.Get("/lanes", middleware.RequireRoles(roles(models.AdminRoles, []models.Role{models.RoleBroker})...), h.Analytics.TopLanes)
	analytics.Get("/carriers/:id", h.Analytics.CarrierPerformance)

	// Messages
	messages := protected.Group("/messages")
	messages.Post("/", h.Messages.Send)
	messages.Get("/", h.Messages.Inbox)
	messages.Get("/unread-count", h.Messages.UnreadCount)
	messages.Get("/:userId", h.Messages.Conversation)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notifications.List)
	notifications.Get("/unread-count", h.Notifications.UnreadCount)
	notifications.Put("/read-all", h.Notifications.MarkAllRead)
	notifications.Put("/:id/read", h.Notifications.MarkRead)

	// Reviews
	reviews := protected.Group("/reviews")
	reviews.Post("/", h.Reviews.Create)
	reviews.Get("/user/:userId", h.Reviews.ListForUser)

	// Documents
	documents := protected.Group("/documents")
	documents.Post("/", h.Documents.Create)
	documents.Get("/my", h.Documents.ListMine)
	documents.Get("/", admin, h.Documents.ListByStatus)
	documents.Put("/:id/verify", admin, h.Documents.Verify)

	// Saved searches
	searches := protected.Group("/searches")
	searches.Post("/", h.Searches.Create)
	searches.Get("/", h.Searches.List)
	searches.Get("/:id", h.Searches.Get)
	searches.Put("/:id", h.Searches.Update)
	searches.Delete("/:id", h.Searches.Delete)
	searches.Post("/:id/run", h.Searches.Run)
	searches.Put("/:id/alarm", h.Searches.ToggleAlarm)

	// Settings
	settings := protected.Group("/settings")
	settings.Get("/", h.Admin.GetSettings)
	settings.Put("/", admin, h.Admin.UpdateSettings)
}
