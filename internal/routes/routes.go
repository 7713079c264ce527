package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KundeServices/booking-gateway/internal/audit"
	"github.com/KundeServices/booking-gateway/internal/availability"
	"github.com/KundeServices/booking-gateway/internal/config"
	"github.com/KundeServices/booking-gateway/internal/handlers"
	"github.com/KundeServices/booking-gateway/internal/middleware"
	"github.com/KundeServices/booking-gateway/internal/notify"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/store"
	"github.com/KundeServices/booking-gateway/internal/timezone"
	ucBooking "github.com/KundeServices/booking-gateway/internal/usecase/booking"
)

type Deps struct {
	Cfg       *config.Config
	Settings  *config.Settings
	Calendars provider.Calendars
	Store     store.Store
	DB        *gorm.DB // opcional; nil sem DATABASE_URL
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	domains := make([]string, 0, len(d.Settings.Brands))
	for _, b := range d.Settings.Brands {
		domains = append(domains, b.Domain)
	}
	r.Use(middleware.CORSMiddleware(domains...))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	var auditSink audit.Sink = audit.StdoutSink{}
	if d.DB != nil {
		auditSink = audit.New(d.DB)
	}
	auditDispatcher := audit.NewDispatcher(auditSink)

	notifyDispatcher := notify.NewDispatcher(d.Calendars)

	resolver := availability.NewResolver(
		d.Calendars,
		d.Settings,
		availability.Policy{
			TentativeBlocks: d.Cfg.TentativeBlocks,
			Step:            time.Duration(d.Cfg.SlotStepMinutes) * time.Minute,
			Location:        timezone.Location(""),
			CallTimeout:     d.Cfg.ProviderTimeout,
		},
		d.Cfg.MaxProviderCalls,
	)

	locks := ucBooking.NewLocks()

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		d.Settings,
		resolver,
		d.Calendars,
		d.Store,
		notifyDispatcher,
		auditDispatcher,
		nil,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		d.Settings,
		d.Calendars,
		d.Store,
		notifyDispatcher,
		auditDispatcher,
		locks,
		nil,
	)

	rescheduleBookingUC := ucBooking.NewRescheduleBooking(
		d.Settings,
		resolver,
		d.Calendars,
		d.Store,
		notifyDispatcher,
		auditDispatcher,
		locks,
		nil,
	)

	listBookingsUC := ucBooking.NewListBookings(d.Settings, d.Store)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(resolver)
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		rescheduleBookingUC,
		listBookingsUC,
	)
	configHandler := handlers.NewConfigHandler(d.Settings)
	authHandler := handlers.NewAuthHandler(d.Cfg)
	adminHandler := handlers.NewAdminHandler(listBookingsUC, d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/brands", configHandler.ListBrands)
			publicAPI.GET("/:brand/services", configHandler.ListServices)
			publicAPI.GET("/:brand/employees", configHandler.ListEmployees)

			publicAPI.POST("/availability", availabilityHandler.Resolve)

			publicAPI.POST("/bookings", bookingHandler.Create)
			publicAPI.GET("/bookings", bookingHandler.ListByCustomer)
			publicAPI.DELETE("/bookings/:id", bookingHandler.Cancel)
			publicAPI.PATCH("/bookings/:id/reschedule", bookingHandler.Reschedule)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(d.Cfg))
		{
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}
}
