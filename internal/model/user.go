package model

import (
	"time"
)

type User struct {
	ID             string     `db:"id"`
	Email          string     `db:"email"`
	Name           *string    `db:"name"`
	Image          *string    `db:"image"`
	PasswordHash   *string    `db:"password_hash"` // Nullable for OAuth users
	FamilyID       *string    `db:"family_id"`
	FamilyJoinedAt *time.Time `db:"family_joined_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) HasFamily() bool {
	return u.FamilyID != nil && *u.FamilyID != ""
}

// DisplayName falls back to the email when no name was provided.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
