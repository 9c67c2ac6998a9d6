package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Catalog endpoints
	ListServicesHandler  gin.HandlerFunc
	ListProvidersHandler gin.HandlerFunc
	ListSlotsHandler     gin.HandlerFunc

	// Booking wizard endpoints
	CreateSessionHandler     gin.HandlerFunc
	GetSessionHandler        gin.HandlerFunc
	DeleteSessionHandler     gin.HandlerFunc
	SetProviderHandler       gin.HandlerFunc
	SetServicesHandler       gin.HandlerFunc
	SetDateHandler           gin.HandlerFunc
	SetTimeHandler           gin.HandlerFunc
	SetCustomerHandler       gin.HandlerFunc
	EligibleProvidersHandler gin.HandlerFunc
	SessionSlotsHandler      gin.HandlerFunc
	NextStepHandler          gin.HandlerFunc
	PrevStepHandler          gin.HandlerFunc
	SummaryHandler           gin.HandlerFunc
	SetupIntentHandler       gin.HandlerFunc
	SubmitBookingHandler     gin.HandlerFunc

	// Admin endpoints
	AdminListBookingsHandler gin.HandlerFunc
	AdminStatsHandler        gin.HandlerFunc
	AdminRefreshHandler      gin.HandlerFunc
	AdminUpdateStatusHandler gin.HandlerFunc
	AdminCancelHandler       gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(catalogH *CatalogHandler, bookingH *BookingHandler, adminH *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		ListServicesHandler:  catalogH.ListServices,
		ListProvidersHandler: catalogH.ListProviders,
		ListSlotsHandler:     catalogH.ListSlots,

		CreateSessionHandler:     bookingH.CreateSession,
		GetSessionHandler:        bookingH.GetSession,
		DeleteSessionHandler:     bookingH.DeleteSession,
		SetProviderHandler:       bookingH.SetProvider,
		SetServicesHandler:       bookingH.SetServices,
		SetDateHandler:           bookingH.SetDate,
		SetTimeHandler:           bookingH.SetTime,
		SetCustomerHandler:       bookingH.SetCustomer,
		EligibleProvidersHandler: bookingH.ListProviders,
		SessionSlotsHandler:      bookingH.ListSlots,
		NextStepHandler:          bookingH.Next,
		PrevStepHandler:          bookingH.Back,
		SummaryHandler:           bookingH.Summary,
		SetupIntentHandler:       bookingH.CreateSetupIntent,
		SubmitBookingHandler:     bookingH.Submit,

		AdminListBookingsHandler: adminH.ListBookings,
		AdminStatsHandler:        adminH.Stats,
		AdminRefreshHandler:      adminH.Refresh,
		AdminUpdateStatusHandler: adminH.UpdateStatus,
		AdminCancelHandler:       adminH.Cancel,

		HealthHandler: Health,
	}
}
