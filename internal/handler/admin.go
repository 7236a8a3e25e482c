package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// UserAdmin is the account management the admin console needs.
type UserAdmin interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u repository.NewUser, cost int) (uint64, error)
	Delete(ctx context.Context, id uint64) error
}

// AvailabilitySweeper recomputes every room's availability flag.
type AvailabilitySweeper interface {
	SweepAvailability(ctx context.Context) (int, error)
}

// CachePurger drops cached catalog responses.
type CachePurger interface {
	Purge(ctx context.Context) (int, error)
}

// AdminHandler serves the ADMIN-only console routes.
type AdminHandler struct {
	Hotels     HotelStore
	Rooms      RoomStore
	Reviews    ReviewStore
	Users      UserAdmin
	Sweeper    AvailabilitySweeper
	Cache      CachePurger // optional
	BcryptCost int
}

// ----- DTOs -----

type createHotelReq struct {
	Name             string   `json:"name" validate:"required,max=100"`
	FormattedAddress *string  `json:"formatted_address" validate:"omitempty,max=255"`
	Area             *string  `json:"area" validate:"omitempty,max=255"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Rating           *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	PhoneNumber      *string  `json:"phone_number" validate:"omitempty,max=20"`
	WebsiteURL       *string  `json:"website_url" validate:"omitempty,httpurl"`
	GoogleMapsURL    *string  `json:"google_maps_url" validate:"omitempty,httpurl"`
	Description      *string  `json:"description"`
	ImageLink        *string  `json:"image_link" validate:"omitempty,httpurl"`
}

type createRoomReq struct {
	RoomType  string   `json:"room_type" validate:"required,max=50"`
	Amenities []string `json:"amenities" validate:"dive,max=50"`
}

type createUserReq struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Role        string `json:"role" validate:"omitempty,oneof=CUSTOMER ADMIN"`
}

func (h *AdminHandler) purge(c echo.Context) {
	if h.Cache == nil {
		return
	}
	if _, err := h.Cache.Purge(c.Request().Context()); err != nil {
		c.Logger().Warnf("cache purge: %v", err)
	}
}

// deleteResult maps repository delete errors to responses.
func deleteResult(c echo.Context, what string, err error) error {
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " is still referenced by bookings or reviews"})
	}
	return internalError(c, "delete "+what, err)
}

// ListHotels handles GET /v1/admin/hotels.
func (h *AdminHandler) ListHotels(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	hotels, err := h.Hotels.List(ctx, "")
	if err != nil {
		return internalError(c, "list hotels", err)
	}
	return c.JSON(http.StatusOK, hotels)
}

// CreateHotel handles POST /v1/admin/hotels.
func (h *AdminHandler) CreateHotel(c echo.Context) error {
	var req createHotelReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	hotel := model.Hotel{
		Name:             strings.TrimSpace(req.Name),
		FormattedAddress: req.FormattedAddress,
		Area:             req.Area,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Rating:           req.Rating,
		PhoneNumber:      req.PhoneNumber,
		WebsiteURL:       req.WebsiteURL,
		GoogleMapsURL:    req.GoogleMapsURL,
		Description:      req.Description,
		ImageLink:        req.ImageLink,
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Hotels.Create(ctx, &hotel); err != nil {
		return internalError(c, "create hotel", err)
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, hotel)
}

// DeleteHotel handles DELETE /v1/admin/hotels/:id.
func (h *AdminHandler) DeleteHotel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	err := h.Hotels.Delete(ctx, id)
	if err == nil {
		h.purge(c)
	}
	return deleteResult(c, "hotel", err)
}

// CreateRoom handles POST /v1/admin/hotels/:id/rooms.  New rooms start
// available.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	hotelID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req createRoomReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	room := model.Room{HotelID: hotelID, RoomType: strings.TrimSpace(req.RoomType), Amenities: req.Amenities}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Rooms.Create(ctx, &room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return internalError(c, "create room", err)
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, room)
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return internalError(c, "list users", err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /v1/admin/users.  Role defaults to CUSTOMER.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Users.Create(ctx, repository.NewUser{
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
	}, h.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists), errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case err != nil:
		return internalError(c, "create user", err)
	}
	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user_id":  id,
		"username": strings.TrimSpace(req.Username),
		"email":    strings.ToLower(strings.TrimSpace(req.Email)),
		"role":     role,
	})
}

// DeleteUser handles DELETE /v1/admin/users/:id.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	return deleteResult(c, "user", h.Users.Delete(ctx, id))
}

// ListReviews handles GET /v1/admin/reviews.
func (h *AdminHandler) ListReviews(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		return internalError(c, "list reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// DeleteReview handles DELETE /v1/admin/reviews/:id.
func (h *AdminHandler) DeleteReview(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	err := h.Reviews.Delete(ctx, id)
	if err == nil {
		h.purge(c)
	}
	return deleteResult(c, "review", err)
}

// SweepAvailability handles POST /v1/admin/availability/sweep and reports
// how many rooms changed.
func (h *AdminHandler) SweepAvailability(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	n, err := h.Sweeper.SweepAvailability(ctx)
	if err != nil {
		return writeBookingError(c, err)
	}
	if n > 0 {
		h.purge(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated_rooms": n})
}
