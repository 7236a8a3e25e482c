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

// HotelStore is the hotel persistence the catalog and admin handlers use.
type HotelStore interface {
	List(ctx context.Context, area string) ([]model.Hotel, error)
	GetByID(ctx context.Context, id uint64) (model.Hotel, error)
	Areas(ctx context.Context, query string) ([]string, error)
	Create(ctx context.Context, h *model.Hotel) error
	Delete(ctx context.Context, id uint64) error
}

// RoomStore lists and creates rooms.
type RoomStore interface {
	ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error)
	Create(ctx context.Context, r *model.Room) error
}

// ReviewStore reads and writes reviews.
type ReviewStore interface {
	ListByHotel(ctx context.Context, hotelID uint64) ([]model.Review, error)
	List(ctx context.Context) ([]model.Review, error)
	Create(ctx context.Context, r *model.Review) error
	Delete(ctx context.Context, id uint64) error
}

// CatalogHandler serves hotel browsing.  The read routes are public and
// cached; posting a review requires a login.
type CatalogHandler struct {
	Hotels  HotelStore
	Rooms   RoomStore
	Reviews ReviewStore
}

func NewCatalogHandler(h HotelStore, r RoomStore, rv ReviewStore) *CatalogHandler {
	return &CatalogHandler{Hotels: h, Rooms: r, Reviews: rv}
}

type hotelDetailResp struct {
	model.Hotel
	Rooms   []model.Room   `json:"rooms"`
	Reviews []model.Review `json:"reviews"`
}

type createReviewReq struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"review_text" validate:"required,max=5000"`
}

func internalError(c echo.Context, what string, err error) error {
	c.Logger().Errorf("%s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// ListHotels handles GET /v1/hotels with an optional ?area= filter.
func (h *CatalogHandler) ListHotels(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	hotels, err := h.Hotels.List(ctx, c.QueryParam("area"))
	if err != nil {
		return internalError(c, "list hotels", err)
	}
	return c.JSON(http.StatusOK, hotels)
}

// GetHotel handles GET /v1/hotels/:id and returns the hotel with its rooms
// and reviews (newest first).
func (h *CatalogHandler) GetHotel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	hotel, err := h.Hotels.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	if err != nil {
		return internalError(c, "get hotel", err)
	}
	rooms, err := h.Rooms.ListByHotel(ctx, id)
	if err != nil {
		return internalError(c, "list rooms", err)
	}
	reviews, err := h.Reviews.ListByHotel(ctx, id)
	if err != nil {
		return internalError(c, "list reviews", err)
	}
	return c.JSON(http.StatusOK, hotelDetailResp{Hotel: hotel, Rooms: rooms, Reviews: reviews})
}

// ListReviews handles GET /v1/hotels/:id/reviews.
func (h *CatalogHandler) ListReviews(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	reviews, err := h.Reviews.ListByHotel(ctx, id)
	if err != nil {
		return internalError(c, "list reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Areas handles GET /v1/areas?query=.  The query is required.
func (h *CatalogHandler) Areas(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("query"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query parameter is required"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	areas, err := h.Hotels.Areas(ctx, q)
	if err != nil {
		return internalError(c, "search areas", err)
	}
	return c.JSON(http.StatusOK, areas)
}

// CreateReview handles POST /v1/hotels/:id/reviews for a logged-in user.
func (h *CatalogHandler) CreateReview(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	hotelID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req createReviewReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	rv := model.Review{UserID: userID, HotelID: hotelID, Rating: req.Rating, Text: strings.TrimSpace(req.Text)}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return internalError(c, "create review", err)
	}
	return c.JSON(http.StatusCreated, rv)
}
