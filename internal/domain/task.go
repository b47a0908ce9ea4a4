package domain

import "time"

// Task is a single to-do item. OwnerID is set once at creation.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Content   string    `db:"content" json:"content"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
