package models

import "time"

// Vote links a user to a post they voted for. The composite primary key
// enforces at most one vote per (user, post) pair at the store level.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
