package entity

import "time"

// Comment is an entry of the shared comment board.
type Comment struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentView is a comment enriched with the poster's current photo. Never persisted.
type CommentView struct {
	Comment
	ProfilePhoto string `json:"profile_photo"`
}
