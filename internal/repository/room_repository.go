package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// RoomRepo reads and creates rooms.  It never writes is_available after
// creation; that column belongs to the booking service.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// ListByHotel returns a hotel's rooms ordered by id.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	const q = `SELECT room_id, hotel_id, room_type, amenities, is_available
	           FROM rooms WHERE hotel_id = ? ORDER BY room_id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		var amenities sql.NullString
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.RoomType, &amenities, &rm.IsAvailable); err != nil {
			return nil, err
		}
		rm.Amenities = model.SplitAmenities(amenities.String)
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Create inserts an available room for an existing hotel.  A missing hotel
// is reported as ErrNotFound.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM hotels WHERE hotel_id = ?", rm.HotelID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (hotel_id, room_type, amenities, is_available) VALUES (?, ?, ?, TRUE)",
		rm.HotelID, rm.RoomType, model.JoinAmenities(rm.Amenities))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	rm.IsAvailable = true
	rm.Amenities = model.SplitAmenities(model.JoinAmenities(rm.Amenities))
	return nil
}
