package entity

import "time"

// Task belongs to exactly one user and lives in that user's task list.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	DateAdded time.Time `json:"date_added"`
}
