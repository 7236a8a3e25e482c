// This file defines the hotel catalog queries: listing, lookup, area
// suggestions and the admin create/delete operations.
package repository

import (
	"context"      // deadlines and cancellation for DB calls
	"database/sql" // generic database operations
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// HotelRepo encapsulates all database queries related to hotels.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

const hotelColumns = `hotel_id, name, formatted_address, area, latitude, longitude, rating,
                      phone_number, website_url, google_maps_url, description, image_link`

func scanHotel(row rowScanner) (model.Hotel, error) {
	var h model.Hotel
	var addr, area, phone, web, maps, desc, img sql.NullString
	var lat, lng, rating sql.NullFloat64
	if err := row.Scan(&h.ID, &h.Name, &addr, &area, &lat, &lng, &rating,
		&phone, &web, &maps, &desc, &img); err != nil {
		return h, err
	}
	h.FormattedAddress = nullString(addr)
	h.Area = nullString(area)
	h.Latitude = nullFloat(lat)
	h.Longitude = nullFloat(lng)
	h.Rating = nullFloat(rating)
	h.PhoneNumber = nullString(phone)
	h.WebsiteURL = nullString(web)
	h.GoogleMapsURL = nullString(maps)
	h.Description = nullString(desc)
	h.ImageLink = nullString(img)
	return h, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// List returns hotels ordered by id.  A non-empty area restricts the list
// to hotels whose area contains it.
func (r *HotelRepo) List(ctx context.Context, area string) ([]model.Hotel, error) {
	q := "SELECT " + hotelColumns + " FROM hotels"
	var args []interface{}
	if area = strings.TrimSpace(area); area != "" {
		q += " WHERE area LIKE ?"
		args = append(args, "%"+area+"%")
	}
	q += " ORDER BY hotel_id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a hotel.  It returns ErrNotFound if no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, "SELECT "+hotelColumns+" FROM hotels WHERE hotel_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return h, ErrNotFound
	}
	return h, err
}

// Areas returns up to ten distinct areas containing query, ascending.
func (r *HotelRepo) Areas(ctx context.Context, query string) ([]string, error) {
	const q = `SELECT DISTINCT area FROM hotels
	           WHERE area IS NOT NULL AND area LIKE ?
	           ORDER BY area ASC LIMIT 10`
	rows, err := r.db.QueryContext(ctx, q, "%"+strings.TrimSpace(query)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0, 10)
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts a hotel and populates its ID.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const q = `INSERT INTO hotels (name, formatted_address, area, latitude, longitude, rating,
	                               phone_number, website_url, google_maps_url, description, image_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.FormattedAddress, h.Area, h.Latitude, h.Longitude,
		h.Rating, h.PhoneNumber, h.WebsiteURL, h.GoogleMapsURL, h.Description, h.ImageLink)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// Delete removes a hotel together with its rooms.  A hotel whose rooms
// have bookings, or which has reviews, is refused with ErrConflict.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM hotels WHERE hotel_id = ?", id)
	if err != nil {
		if isReferenced(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
