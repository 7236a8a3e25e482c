package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables in dependency order.  Rooms go with their
// hotel; bookings, reviews and receipts keep their parents alive so a
// delete that would orphan them fails with a foreign key error.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		email         VARCHAR(100) NOT NULL UNIQUE,
		phone_number  VARCHAR(20)  NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'CUSTOMER',
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL UNIQUE,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS hotels (
		hotel_id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name              VARCHAR(100) NOT NULL,
		formatted_address VARCHAR(255) NULL,
		area              VARCHAR(255) NULL,
		latitude          DECIMAL(9,6) NULL,
		longitude         DECIMAL(9,6) NULL,
		rating            FLOAT        NULL CHECK (rating BETWEEN 0 AND 5),
		phone_number      VARCHAR(20)  NULL,
		website_url       VARCHAR(255) NULL,
		google_maps_url   VARCHAR(255) NULL,
		description       TEXT         NULL,
		image_link        VARCHAR(255) NULL,
		KEY idx_hotels_area (area)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		room_id      BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		hotel_id     BIGINT UNSIGNED NOT NULL,
		room_type    VARCHAR(50)     NOT NULL,
		amenities    VARCHAR(255)    NULL,
		is_available BOOLEAN         NOT NULL DEFAULT TRUE,
		CONSTRAINT fk_rooms_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(hotel_id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		booking_id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id          BIGINT UNSIGNED NOT NULL,
		hotel_id         BIGINT UNSIGNED NOT NULL,
		room_id          BIGINT UNSIGNED NOT NULL,
		check_in_date    DATE            NOT NULL,
		check_out_date   DATE            NOT NULL,
		status           VARCHAR(20)     NOT NULL DEFAULT 'Confirmed'
		                 CHECK (status IN ('Confirmed', 'Cancelled', 'Modified')),
		created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		special_requests TEXT            NULL,
		KEY idx_bookings_room_status (room_id, status),
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_user  FOREIGN KEY (user_id)  REFERENCES users(user_id),
		CONSTRAINT fk_bookings_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(hotel_id),
		CONSTRAINT fk_bookings_room  FOREIGN KEY (room_id)  REFERENCES rooms(room_id),
		CONSTRAINT chk_bookings_range CHECK (check_out_date > check_in_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		review_id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		hotel_id    BIGINT UNSIGNED NOT NULL,
		rating      INT             NOT NULL CHECK (rating BETWEEN 1 AND 5),
		review_text TEXT            NULL,
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reviews_hotel (hotel_id),
		CONSTRAINT fk_reviews_user  FOREIGN KEY (user_id)  REFERENCES users(user_id),
		CONSTRAINT fk_reviews_hotel FOREIGN KEY (hotel_id) REFERENCES hotels(hotel_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS receipts (
		receipt_id       BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id       BIGINT UNSIGNED NOT NULL,
		user_id          BIGINT UNSIGNED NOT NULL,
		receipt_date     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		username         VARCHAR(100)    NOT NULL,
		hotel_name       VARCHAR(255)    NOT NULL,
		room_type        VARCHAR(100)    NOT NULL,
		check_in_date    DATE            NOT NULL,
		check_out_date   DATE            NOT NULL,
		status           VARCHAR(16)     NOT NULL,
		special_requests TEXT            NULL,
		UNIQUE KEY uq_receipts_booking (booking_id),
		CONSTRAINT fk_receipts_booking FOREIGN KEY (booking_id) REFERENCES bookings(booking_id) ON DELETE CASCADE,
		CONSTRAINT fk_receipts_user    FOREIGN KEY (user_id)    REFERENCES users(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.  Existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
