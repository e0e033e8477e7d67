package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
)

// UserRole is the authorization role of a user
type UserRole string

const (
	RoleUser  UserRole = "USER"  // Regular user
	RoleAdmin UserRole = "ADMIN" // Administrator
)

// User Model
type User struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`                 // Primary key
	Username   string    `gorm:"size:64;uniqueIndex;not null" json:"username"`       // Unique username
	Password   string    `gorm:"not null" json:"-"`                                  // Hashed password
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`         // Unique email
	FirstName  string    `gorm:"size:128" json:"first_name"`                         // First name
	LastName   string    `gorm:"size:128" json:"last_name"`                          // Last name
	ProfilePic string    `gorm:"size:1000" json:"profile_pic"`                       // Profile picture URL
	Role       UserRole  `gorm:"type:varchar(16);not null" json:"role"`              // USER or ADMIN
	Active     bool      `gorm:"not null" json:"active"`                             // Inactive users cannot log in
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`                         // Registration time
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`                         // Last modification time
	Credit     *Credit   `gorm:"foreignKey:OwnerID" json:"credit,omitempty"`         // One-to-one credit
	Wallets    []Wallet  `gorm:"foreignKey:OwnerID" json:"wallets,omitempty"`        // Owned wallets
}

// NewUser creates an active USER with fresh timestamps
func NewUser(username, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  passwordHash,
		Email:     email,
		Role:      RoleUser,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
