package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterRoutes registers the probes.  /healthz only proves the process is
// up; /readyz also pings the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers the account endpoints.  Register, login, refresh
// and logout live under /v1/auth and need no session; /v1/me requires an
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the guest browse endpoints.  They carry no JWT
// and are served through the response cache.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, cache *middleware.ResponseCache) {
	mw := cache.Middleware()
	e.GET("/v1/hotels", p.ListHotels, mw)
	e.GET("/v1/hotels/:id", p.GetHotel, mw)
	e.GET("/v1/hotels/:id/reviews", p.ListReviews, mw)
	e.GET("/v1/areas", p.Areas, mw)
}
