package models

import "time"

// Post is one question. Author fields are filled from the users join
// when listing; UserID alone decides who may edit or delete it.
type Post struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	UserID       int       `json:"user_id"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"author_avatar"`
	CreatedAt    time.Time `json:"created_at"`
}
