package routes

import (
	"barberbook/handlers"
	"barberbook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints of the booking wizard.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.Use(middleware.JWTAuthMiddleware())
		booking.POST("/session", hb.CreateSessionHandler)

		s := booking.Group("/session/:id")
		s.GET("", hb.GetSessionHandler)
		s.DELETE("", hb.DeleteSessionHandler)

		// Step 1-3 selections
		s.PUT("/provider", hb.SetProviderHandler)
		s.PUT("/services", hb.SetServicesHandler)
		s.PUT("/date", hb.SetDateHandler)
		s.PUT("/time", hb.SetTimeHandler)
		s.PUT("/customer", hb.SetCustomerHandler)
		s.GET("/providers", hb.EligibleProvidersHandler)
		s.GET("/slots", hb.SessionSlotsHandler)

		s.POST("/next", hb.NextStepHandler)
		s.POST("/back", hb.PrevStepHandler)

		// Step 4 review and payment
		s.GET("/summary", hb.SummaryHandler)
		s.POST("/payment/setup-intent", hb.SetupIntentHandler)
		s.POST("/submit", hb.SubmitBookingHandler)
	}
}
