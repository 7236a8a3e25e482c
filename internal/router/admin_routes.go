package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// RegisterAdmin registers the console endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Hotels ----
	g.GET("/hotels", a.ListHotels)
	g.POST("/hotels", a.CreateHotel)
	g.DELETE("/hotels/:id", a.DeleteHotel)
	g.POST("/hotels/:id/rooms", a.CreateRoom)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.POST("/users", a.CreateUser)
	g.DELETE("/users/:id", a.DeleteUser)

	// ---- Reviews ----
	g.GET("/reviews", a.ListReviews)
	g.DELETE("/reviews/:id", a.DeleteReview)

	g.POST("/availability/sweep", a.SweepAvailability)
}
