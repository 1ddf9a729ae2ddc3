package repository

import (
	"context"
	"errors"

	"echowall/internal/cache"
	"echowall/internal/models"

	"gorm.io/gorm"
)

// votesSelect annotates each post row with its live vote count. The correlated
// subquery keeps posts with zero votes in the result set with votes = 0, which
// a plain inner join would drop.
const votesSelect = "posts.*, (SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id) AS votes"

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context, limit, offset int, search string) ([]models.PostWithVotes, error)
	Latest(ctx context.Context) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.PostWithVotes, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id, ownerID uint, title, content string, published bool) (*models.Post, error)
	Delete(ctx context.Context, id, ownerID uint) error
	OwnerOf(ctx context.Context, id uint) (uint, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) List(ctx context.Context, limit, offset int, search string) ([]models.PostWithVotes, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	posts := []models.PostWithVotes{}
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(votesSelect).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset)
	if search != "" {
		q = q.Where("posts.title LIKE ?", "%"+search+"%")
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Latest returns the newest post by created_at, or (nil, nil) when no posts
// exist.
func (r *postRepository) Latest(ctx context.Context) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	var post models.PostWithVotes

	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.Post{}).
			Select(votesSelect).
			Where("posts.id = ?", id).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies a full replacement of title/content/published in a single
// conditional statement scoped to the owner, so a concurrent delete cannot
// slip between an ownership check and the write. A zero affected-row count is
// disambiguated into not-found vs forbidden via OwnerOf.
func (r *postRepository) Update(ctx context.Context, id, ownerID uint, title, content string, published bool) (*models.Post, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"title":     title,
			"content":   content,
			"published": published,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		owner, err := r.OwnerOf(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner != ownerID {
			return nil, models.NewForbiddenError("You can only update your own posts")
		}
		// Owner matched on the re-read; the row vanished between the two
		// statements.
		return nil, models.NewNotFoundError("Post", id)
	}

	cache.InvalidatePost(ctx, id)

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Delete removes a post in a single owner-scoped statement. Votes on the post
// are removed in the same call so no orphaned references remain.
func (r *postRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		owner, err := r.OwnerOf(ctx, id)
		if err != nil {
			return err
		}
		if owner != ownerID {
			return models.NewForbiddenError("You can only delete your own posts")
		}
		return models.NewNotFoundError("Post", id)
	}

	if err := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidatePost(ctx, id)
	return nil
}

// OwnerOf returns the owner ID of a post, or a not-found error.
func (r *postRepository) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "owner_id").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("Post", id)
		}
		return 0, models.NewInternalError(err)
	}
	return post.OwnerID, nil
}
