package repository

import (
	"context"

	"echowall/internal/cache"
	"echowall/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for votes.
type VoteRepository interface {
	Create(ctx context.Context, userID, postID uint) error
	Delete(ctx context.Context, userID, postID uint) error
	CountForPost(ctx context.Context, postID uint) (int64, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Create casts a vote. Uniqueness is enforced by the composite primary key,
// not by a read-before-write, so concurrent duplicate casts cannot both land.
func (r *voteRepository) Create(ctx context.Context, userID, postID uint) error {
	vote := models.Vote{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if isUniqueConstraintError(err) {
			return &models.AppError{Code: "VOTE_EXISTS", Message: "You have already voted for this post"}
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// Delete retracts a vote. Deleting an absent vote is not an error: retraction
// is idempotent.
func (r *voteRepository) Delete(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Vote{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
	}
	return nil
}

func (r *voteRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
