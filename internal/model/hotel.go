package model

import (
	"strings"
	"time"
)

// Hotel is a property listed in the catalog.  Most descriptive columns are
// optional because the original data set was imported from map listings.
type Hotel struct {
	ID               uint64   `json:"hotel_id"`                    // hotels.hotel_id
	Name             string   `json:"name"`                        // hotels.name
	FormattedAddress *string  `json:"formatted_address,omitempty"` // hotels.formatted_address
	Area             *string  `json:"area,omitempty"`              // hotels.area
	Latitude         *float64 `json:"latitude,omitempty"`          // hotels.latitude
	Longitude        *float64 `json:"longitude,omitempty"`         // hotels.longitude
	Rating           *float64 `json:"rating,omitempty"`            // hotels.rating (0..5)
	PhoneNumber      *string  `json:"phone_number,omitempty"`      // hotels.phone_number
	WebsiteURL       *string  `json:"website_url,omitempty"`       // hotels.website_url
	GoogleMapsURL    *string  `json:"google_maps_url,omitempty"`   // hotels.google_maps_url
	Description      *string  `json:"description,omitempty"`       // hotels.description
	ImageLink        *string  `json:"image_link,omitempty"`        // hotels.image_link
}

// Room belongs to a hotel.  IsAvailable is a cached projection of the
// bookings table and is only written by the booking service.
type Room struct {
	ID          uint64   `json:"room_id"`      // rooms.room_id
	HotelID     uint64   `json:"hotel_id"`     // rooms.hotel_id
	RoomType    string   `json:"room_type"`    // rooms.room_type
	Amenities   []string `json:"amenities"`    // rooms.amenities (comma separated)
	IsAvailable bool     `json:"is_available"` // rooms.is_available
}

// JoinAmenities encodes a set of amenity labels for the amenities column.
// Blank and duplicate labels are dropped.
func JoinAmenities(labels []string) string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return strings.Join(out, ",")
}

// SplitAmenities is the inverse of JoinAmenities.
func SplitAmenities(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Review is a guest's rating of a hotel.
type Review struct {
	ID           uint64    `json:"review_id"`               // reviews.review_id
	UserID       uint64    `json:"user_id"`                 // reviews.user_id
	HotelID      uint64    `json:"hotel_id"`                // reviews.hotel_id
	Rating       int       `json:"rating"`                  // reviews.rating (1..5)
	Text         string    `json:"review_text"`             // reviews.review_text
	CreatedAt    time.Time `json:"created_at"`              // reviews.created_at
	ReviewerName string    `json:"reviewer_name,omitempty"` // users.username (joined)
}
