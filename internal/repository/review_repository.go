package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ReviewRepo stores guest reviews.  Every read joins the reviewer's
// username so responses can show who wrote the review.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewSelect = `SELECT rv.review_id, rv.user_id, rv.hotel_id, rv.rating, rv.review_text, rv.created_at, u.username
                      FROM reviews rv JOIN users u ON u.user_id = rv.user_id`

func (r *ReviewRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		var text sql.NullString
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.HotelID, &rv.Rating, &text, &rv.CreatedAt, &rv.ReviewerName); err != nil {
			return nil, err
		}
		rv.Text = text.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByHotel returns a hotel's reviews, newest first.
func (r *ReviewRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Review, error) {
	return r.query(ctx, reviewSelect+" WHERE rv.hotel_id = ? ORDER BY rv.created_at DESC, rv.review_id DESC", hotelID)
}

// List returns every review, newest first.  Used by the admin console.
func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return r.query(ctx, reviewSelect+" ORDER BY rv.created_at DESC, rv.review_id DESC")
}

// Create inserts a review and fills in ID, CreatedAt and ReviewerName.
// A missing hotel is reported as ErrNotFound.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	var exists int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM hotels WHERE hotel_id = ?", rv.HotelID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	rv.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, hotel_id, rating, review_text, created_at) VALUES (?, ?, ?, ?, ?)",
		rv.UserID, rv.HotelID, rv.Rating, rv.Text, rv.CreatedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT username FROM users WHERE user_id = ?", rv.UserID).Scan(&rv.ReviewerName)
}

// Delete removes a review by id.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE review_id = ?", id)
	if err != nil {
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
