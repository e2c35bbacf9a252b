package models

import "time"

// DefaultAvatar is the avatar file assigned to new accounts.
const DefaultAvatar = "default.jpg"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarFile   string    `json:"avatar_file"`
	CreatedAt    time.Time `json:"created_at"`
}
