package model

import "time"

// Roles stored in users.role.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User represents an account as stored in the `users` table.  The
// password hash never leaves the service; handlers render users through
// their own response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display and login name.
//  Email        – unique email address (lower-cased).
//  PhoneNumber  – optional contact number.
//  PasswordHash – bcrypt hashed password.
//  Role         – CUSTOMER or ADMIN.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"user_id"`      // users.user_id
	Username     string    `json:"username"`     // users.username
	Email        string    `json:"email"`        // users.email
	PhoneNumber  *string   `json:"phone_number"` // users.phone_number (nullable)
	PasswordHash string    `json:"-"`            // users.password_hash
	Role         string    `json:"role"`         // users.role
	CreatedAt    time.Time `json:"created_at"`   // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token handed to the client is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
