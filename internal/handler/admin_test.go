package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/storage/memory"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

type fakeHotels struct {
	hotels map[uint64]model.Hotel
	areas  []string
}

func (f *fakeHotels) List(_ context.Context, area string) ([]model.Hotel, error) {
	out := []model.Hotel{}
	for _, h := range f.hotels {
		if area == "" || (h.Area != nil && *h.Area == area) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHotels) GetByID(_ context.Context, id uint64) (model.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return model.Hotel{}, repository.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) Areas(_ context.Context, query string) ([]string, error) { return f.areas, nil }

func (f *fakeHotels) Create(_ context.Context, h *model.Hotel) error {
	h.ID = uint64(len(f.hotels) + 1)
	f.hotels[h.ID] = *h
	return nil
}

func (f *fakeHotels) Delete(_ context.Context, id uint64) error {
	if id == 2 {
		return repository.ErrConflict
	}
	if _, ok := f.hotels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.hotels, id)
	return nil
}

type fakeRooms struct{}

func (fakeRooms) ListByHotel(_ context.Context, hotelID uint64) ([]model.Room, error) {
	return []model.Room{{ID: 1, HotelID: hotelID, RoomType: "Double", IsAvailable: true}}, nil
}

func (fakeRooms) Create(_ context.Context, r *model.Room) error {
	if r.HotelID != 1 {
		return repository.ErrNotFound
	}
	r.ID, r.IsAvailable = 7, true
	return nil
}

type fakeReviews struct{ created []model.Review }

func (f *fakeReviews) ListByHotel(_ context.Context, hotelID uint64) ([]model.Review, error) {
	return []model.Review{}, nil
}
func (f *fakeReviews) List(_ context.Context) ([]model.Review, error) { return f.created, nil }
func (f *fakeReviews) Create(_ context.Context, r *model.Review) error {
	if r.HotelID != 1 {
		return repository.ErrNotFound
	}
	r.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *r)
	return nil
}
func (f *fakeReviews) Delete(_ context.Context, id uint64) error { return repository.ErrNotFound }

type fakeUsers struct{ made []repository.NewUser }

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	return []model.User{{ID: 1, Username: "root", Email: "root@example.com", Role: model.RoleAdmin}}, nil
}
func (f *fakeUsers) Create(_ context.Context, u repository.NewUser, _ int) (uint64, error) {
	if u.Email == "taken@example.com" {
		return 0, repository.ErrEmailExists
	}
	f.made = append(f.made, u)
	return uint64(len(f.made) + 1), nil
}
func (f *fakeUsers) Delete(_ context.Context, id uint64) error { return nil }

type countingPurger struct{ calls int }

func (p *countingPurger) Purge(context.Context) (int, error) {
	p.calls++
	return 0, nil
}

func catalogFakes() (*fakeHotels, *fakeReviews) {
	area := "Downtown"
	return &fakeHotels{
		hotels: map[uint64]model.Hotel{1: {ID: 1, Name: "Grand", Area: &area}},
		areas:  []string{"Downtown"},
	}, &fakeReviews{}
}

func adminApp(t *testing.T) (*echo.Echo, *fakeUsers, *countingPurger) {
	t.Helper()
	hotels, reviews := catalogFakes()
	users := &fakeUsers{}
	purger := &countingPurger{}

	st := memory.New()
	st.AddRoom(model.Room{ID: 1, HotelID: 1, IsAvailable: false})
	svc := booking.NewService(st)

	h := &AdminHandler{Hotels: hotels, Rooms: fakeRooms{}, Reviews: reviews, Users: users, Sweeper: svc, Cache: purger, BcryptCost: 4}
	e := echo.New()
	e.Validator = utils.NewRequestValidator()
	g := e.Group("/v1/admin", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin))
	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.POST("/hotels", h.CreateHotel)
	g.DELETE("/hotels/:id", h.DeleteHotel)
	g.POST("/hotels/:id/rooms", h.CreateRoom)
	g.DELETE("/reviews/:id", h.DeleteReview)
	g.POST("/availability/sweep", h.SweepAvailability)
	return e, users, purger
}

func TestAdminRequiresAdminRole(t *testing.T) {
	e, _, _ := adminApp(t)
	if rec := do(e, http.MethodGet, "/v1/admin/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/v1/admin/users", signToken(t, 3, model.RoleCustomer), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("customer: %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/v1/admin/users", signToken(t, 1, model.RoleAdmin), ""); rec.Code != http.StatusOK {
		t.Fatalf("admin: %d", rec.Code)
	}
}

func TestAdminCreateUser(t *testing.T) {
	e, users, _ := adminApp(t)
	admin := signToken(t, 1, model.RoleAdmin)

	body := expect(t, do(e, http.MethodPost, "/v1/admin/users", admin,
		`{"username":"maria","email":"Maria@Example.com","password":"s3cretpass"}`), http.StatusCreated, "")
	if body["role"] != model.RoleCustomer || body["email"] != "maria@example.com" {
		t.Fatalf("body %v", body)
	}
	if len(users.made) != 1 {
		t.Fatalf("created %d users", len(users.made))
	}

	expect(t, do(e, http.MethodPost, "/v1/admin/users", admin,
		`{"username":"dup","email":"taken@example.com","password":"s3cretpass"}`), http.StatusConflict, "")
	bad := expect(t, do(e, http.MethodPost, "/v1/admin/users", admin,
		`{"username":"x","email":"nope","password":"short","role":"OWNER"}`), http.StatusBadRequest, "invalid_request")
	if bad["error"] == "" {
		t.Fatal("validation message missing")
	}
}

func TestAdminHotelsAndRooms(t *testing.T) {
	e, _, purger := adminApp(t)
	admin := signToken(t, 1, model.RoleAdmin)

	expect(t, do(e, http.MethodPost, "/v1/admin/hotels", admin,
		`{"name":"Harbor","website_url":"ftp://harbor.example"}`), http.StatusBadRequest, "invalid_request")
	expect(t, do(e, http.MethodPost, "/v1/admin/hotels", admin,
		`{"name":"Harbor","rating":6}`), http.StatusBadRequest, "invalid_request")
	expect(t, do(e, http.MethodPost, "/v1/admin/hotels", admin,
		`{"name":"Harbor","rating":4.5,"website_url":"https://harbor.example"}`), http.StatusCreated, "")

	room := expect(t, do(e, http.MethodPost, "/v1/admin/hotels/1/rooms", admin,
		`{"room_type":"Suite","amenities":["wifi","minibar"]}`), http.StatusCreated, "")
	if room["is_available"] != true {
		t.Fatalf("room %v", room)
	}
	expect(t, do(e, http.MethodPost, "/v1/admin/hotels/9/rooms", admin, `{"room_type":"Suite"}`), http.StatusNotFound, "")

	if rec := do(e, http.MethodDelete, "/v1/admin/hotels/2", admin, ""); rec.Code != http.StatusConflict {
		t.Fatalf("referenced hotel delete: %d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/v1/admin/hotels/1", admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := do(e, http.MethodDelete, "/v1/admin/reviews/4", admin, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing review delete: %d", rec.Code)
	}
	// hotel create, room create, hotel delete
	if purger.calls != 3 {
		t.Fatalf("cache purged %d times", purger.calls)
	}
}

func TestAdminSweep(t *testing.T) {
	e, _, _ := adminApp(t)
	admin := signToken(t, 1, model.RoleAdmin)
	body := expect(t, do(e, http.MethodPost, "/v1/admin/availability/sweep", admin, ""), http.StatusOK, "")
	if body["updated_rooms"] != float64(1) {
		t.Fatalf("body %v", body)
	}
	body = expect(t, do(e, http.MethodPost, "/v1/admin/availability/sweep", admin, ""), http.StatusOK, "")
	if body["updated_rooms"] != float64(0) {
		t.Fatalf("second sweep %v", body)
	}
}

func TestCatalogRoutes(t *testing.T) {
	hotels, reviews := catalogFakes()
	h := NewCatalogHandler(hotels, fakeRooms{}, reviews)
	e := echo.New()
	e.Validator = utils.NewRequestValidator()
	e.GET("/v1/hotels", h.ListHotels)
	e.GET("/v1/hotels/:id", h.GetHotel)
	e.GET("/v1/areas", h.Areas)
	e.POST("/v1/hotels/:id/reviews", h.CreateReview, middleware.JWTAuth(testSecret))

	if rec := do(e, http.MethodGet, "/v1/hotels?area=Downtown", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	detail := expect(t, do(e, http.MethodGet, "/v1/hotels/1", "", ""), http.StatusOK, "")
	if detail["name"] != "Grand" || detail["rooms"] == nil {
		t.Fatalf("detail %v", detail)
	}
	expect(t, do(e, http.MethodGet, "/v1/hotels/3", "", ""), http.StatusNotFound, "")
	expect(t, do(e, http.MethodGet, "/v1/hotels/x", "", ""), http.StatusBadRequest, "")
	expect(t, do(e, http.MethodGet, "/v1/areas", "", ""), http.StatusBadRequest, "")
	if rec := do(e, http.MethodGet, "/v1/areas?query=Down", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("areas: %d", rec.Code)
	}

	guest := signToken(t, 4, model.RoleCustomer)
	if rec := do(e, http.MethodPost, "/v1/hotels/1/reviews", "", `{"rating":5,"review_text":"great"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous review: %d", rec.Code)
	}
	expect(t, do(e, http.MethodPost, "/v1/hotels/1/reviews", guest, `{"rating":6,"review_text":"great"}`), http.StatusBadRequest, "invalid_request")
	expect(t, do(e, http.MethodPost, "/v1/hotels/1/reviews", guest, `{"rating":4}`), http.StatusBadRequest, "invalid_request")
	expect(t, do(e, http.MethodPost, "/v1/hotels/9/reviews", guest, `{"rating":4,"review_text":"fine"}`), http.StatusNotFound, "")
	rv := expect(t, do(e, http.MethodPost, "/v1/hotels/1/reviews", guest, `{"rating":4,"review_text":"  fine  "}`), http.StatusCreated, "")
	if rv["review_text"] != "fine" || reviews.created[0].UserID != 4 {
		t.Fatalf("review %v", rv)
	}
}

func TestReadyReportsDatabaseDown(t *testing.T) {
	e := echo.New()
	e.GET("/readyz", Ready(pingerFunc(func(context.Context) error { return context.DeadlineExceeded })))
	if rec := do(e, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
	e.GET("/healthz", Health)
	if rec := do(e, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health %d", rec.Code)
	}
}

type pingerFunc func(context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }
