package models

import "time"

// Post is a published entry owned by exactly one user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Published bool      `gorm:"not null;default:true" json:"published"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostWithVotes is the read shape for post endpoints: the post row annotated
// with its live vote count. The count comes from a correlated COUNT subquery
// aliased as "votes", so posts without votes scan as 0.
type PostWithVotes struct {
	Post  `gorm:"embedded"`
	Votes int64 `json:"votes"`
}
