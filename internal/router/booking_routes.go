package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// RegisterBookings registers guest endpoints under /v1.  Every route needs
// a valid JWT; the booking mutations and review posting also pass through
// the rate limiter.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, p *handler.CatalogHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	if limiter == nil {
		limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings", b.Create, limiter)
	g.PATCH("/bookings/:id", b.UpdateDates, limiter)
	g.POST("/bookings/:id/cancel", b.Cancel, limiter)
	g.POST("/bookings/:id/receipt", b.Receipt, limiter)
	g.GET("/receipts/:id", b.GetReceipt)

	g.POST("/hotels/:id/reviews", p.CreateReview, limiter)
}
