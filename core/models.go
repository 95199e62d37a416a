package core

import "time"

// Identity represents a registered user
//
// This is the "who": an email and the hash proving they know the password
type Identity struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	HashAlgorithm string    `json:"-"` // "bcrypt", "argon2id"
	CreatedAt     time.Time `json:"createdAt"`
}

// RegistrationRequest is one submission of the registration form.
// It is never persisted and never logged.
type RegistrationRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Session represents an active browser session
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	Email      string    `json:"email"`
	TokenHash  string    `json:"-"` // Never expose in JSON (security!)
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateSessionResult carries the stored session and the raw token handed to the client
type CreateSessionResult struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw token (not the hash)
}

// Game is one row of the catalog
type Game struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Genre    string  `json:"genre"`
	ImageURL string  `json:"imageUrl"`

	// Comments is filled on the detail view and by seed data; listings leave it empty
	Comments []Comment `json:"comments,omitempty"`
}

// Comment is a player's note attached to one game
type Comment struct {
	ID     int64  `json:"id"`
	GameID int64  `json:"-"`
	Text   string `json:"comment"`
}
