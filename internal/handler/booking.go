package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// BookingLister lists a guest's bookings with display names.
type BookingLister interface {
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// ReceiptIssuer records and reads receipts for the caller's bookings.
type ReceiptIssuer interface {
	Create(ctx context.Context, bookingID, userID uint64) (*model.Receipt, error)
	GetByID(ctx context.Context, id uint64) (*model.Receipt, error)
}

// BookingHandler exposes the booking engine over HTTP.  Every route runs
// behind JWTAuth; the authenticated user becomes the booking.Actor and all
// rules (dates, conflicts, ownership, window) are enforced by the service.
type BookingHandler struct {
	Service  *booking.Service
	Lister   BookingLister
	Receipts ReceiptIssuer
}

func NewBookingHandler(svc *booking.Service, lister BookingLister, receipts ReceiptIssuer) *BookingHandler {
	if svc == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, Lister: lister, Receipts: receipts}
}

// ----- DTOs -----

type createBookingReq struct {
	HotelID         uint64 `json:"hotel_id"`
	RoomID          uint64 `json:"room_id" validate:"required"`
	CheckIn         string `json:"check_in_date" validate:"required"`
	CheckOut        string `json:"check_out_date" validate:"required"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`
}

type updateBookingReq struct {
	CheckIn  string `json:"check_in_date" validate:"required"`
	CheckOut string `json:"check_out_date" validate:"required"`
}

type bookingResp struct {
	ID              uint64    `json:"booking_id"`
	UserID          uint64    `json:"user_id"`
	HotelID         uint64    `json:"hotel_id"`
	RoomID          uint64    `json:"room_id"`
	CheckIn         string    `json:"check_in_date"`
	CheckOut        string    `json:"check_out_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	HotelName       string    `json:"hotel_name,omitempty"`
	RoomType        string    `json:"room_type,omitempty"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		UserID:          b.UserID,
		HotelID:         b.HotelID,
		RoomID:          b.RoomID,
		CheckIn:         booking.FormatDate(b.CheckIn),
		CheckOut:        booking.FormatDate(b.CheckOut),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		SpecialRequests: b.SpecialRequests,
	}
}

func parseRange(in, out string) (time.Time, time.Time, error) {
	checkIn, err := booking.ParseDate(in)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := booking.ParseDate(out)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

// Create handles POST /v1/bookings and returns 201 with the new booking.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req createBookingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return writeBookingError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Service.CreateBooking(ctx, actor, booking.CreateInput{
		HotelID:         req.HotelID,
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(*b))
}

// Get handles GET /v1/bookings/:id.  Only the owner sees the booking.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id", "kind": "invalid_request"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Service.GetBooking(ctx, actor, id)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(*b))
}

// UpdateDates handles PATCH /v1/bookings/:id with new check-in and
// check-out dates.
func (h *BookingHandler) UpdateDates(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id", "kind": "invalid_request"})
	}
	var req updateBookingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return writeBookingError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Service.UpdateBookingDates(ctx, actor, id, checkIn, checkOut)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(*b))
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id", "kind": "invalid_request"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Service.CancelBooking(ctx, actor, id)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(*b))
}

// ListMine handles GET /v1/my-bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Lister.ListByUser(ctx, userID)
	if err != nil {
		c.Logger().Errorf("list bookings for user %d: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "kind": booking.KindPersistence})
	}
	out := make([]bookingResp, 0, len(list))
	for _, d := range list {
		r := toBookingResp(d.Booking)
		r.HotelName, r.RoomType = d.HotelName, d.RoomType
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// Receipt handles POST /v1/bookings/:id/receipt and returns 201 with the
// receipt snapshot.
func (h *BookingHandler) Receipt(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id", "kind": "invalid_request"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	rc, err := h.Receipts.Create(ctx, id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMessage, "kind": booking.KindNotFound})
	case err != nil:
		c.Logger().Errorf("create receipt for booking %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "kind": booking.KindPersistence})
	}
	return c.JSON(http.StatusCreated, rc)
}

// GetReceipt handles GET /v1/receipts/:id.  Receipts of other users are
// reported as missing.
func (h *BookingHandler) GetReceipt(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid receipt id", "kind": "invalid_request"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	rc, err := h.Receipts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && rc.UserID != userID) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "receipt not found", "kind": booking.KindNotFound})
	}
	if err != nil {
		c.Logger().Errorf("load receipt %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "kind": booking.KindPersistence})
	}
	return c.JSON(http.StatusOK, rc)
}
