package routes

import (
	"time"

	"barberbook/handlers"
	"barberbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the public reference data endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("/services", hb.ListServicesHandler)
		api.GET("/providers", hb.ListProvidersHandler)
		api.GET("/slots", hb.ListSlotsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterAdminRoutes sets up endpoints for the staff dashboard.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnly())
		adminGroup.GET("/bookings", hb.AdminListBookingsHandler)
		adminGroup.POST("/bookings/refresh", hb.AdminRefreshHandler)
		adminGroup.PUT("/bookings/:id/status", hb.AdminUpdateStatusHandler)
		adminGroup.PUT("/bookings/:id/cancel", hb.AdminCancelHandler)
		adminGroup.GET("/stats", hb.AdminStatsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RefreshTokenHeader, "X-User-Email", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", handlers.AccessTokenHeader, "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
