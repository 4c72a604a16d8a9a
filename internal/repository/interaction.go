package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository persists likes and ratings and serves the
// ranked post listings derived from them.
type InteractionRepository interface {
	Like(ctx context.Context, userID, postID uint) (bool, error)
	GetLike(ctx context.Context, userID, postID uint) (*models.PostLike, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
	Rate(ctx context.Context, userID, postID uint, rating int) (*models.PostRating, error)
	GetRating(ctx context.Context, userID, postID uint) (*models.PostRating, error)
	MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error)
	HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// Like inserts a like row atomically. It returns false when the
// (user, post) pair already exists, including when a concurrent
// insert wins the race; the unique index is the arbiter either way.
func (r *interactionRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&models.PostLike{UserID: userID, PostID: postID})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
	}
	return result.RowsAffected > 0, nil
}

func (r *interactionRepository) GetLike(ctx context.Context, userID, postID uint) (*models.PostLike, error) {
	var like models.PostLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *interactionRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Rate upserts the (user, post) rating. On conflict only rating and
// updated_at change; created_at keeps the first rating's timestamp.
func (r *interactionRepository) Rate(ctx context.Context, userID, postID uint, rating int) (*models.PostRating, error) {
	row := models.PostRating{UserID: userID, PostID: postID, Rating: rating}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)

	// Re-read so the caller sees the stored row, not the upsert scratch value.
	stored, err := r.GetRating(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *interactionRepository) GetRating(ctx context.Context, userID, postID uint) (*models.PostRating, error) {
	var rating models.PostRating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// MostLiked orders published posts by like count. Posts nobody liked
// still appear with a zero count; ties break on post id ascending.
// Pages are served cache-aside; likes and ratings invalidate them.
func (r *interactionRepository) MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.MostLikedKey(limit, offset), &posts, cache.RankingsTTL, func() error {
		err := r.db.WithContext(ctx).
			Model(&models.Post{}).
			Select("posts.*, "+
				"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count, "+
				"(SELECT COALESCE(AVG(rating), 0) FROM post_ratings WHERE post_ratings.post_id = posts.id) as average_rating").
			Where("status = ?", models.PostStatusPublished).
			Order("likes_count DESC, posts.id ASC").
			Limit(limit).
			Offset(offset).
			Preload("Author").
			Find(&posts).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// HighestRated orders published posts by mean rating. Unrated posts
// are excluded rather than ranked at zero; ties break on post id.
func (r *interactionRepository) HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.HighestRatedKey(limit, offset), &posts, cache.RankingsTTL, func() error {
		err := r.db.WithContext(ctx).
			Model(&models.Post{}).
			Select("posts.*, "+
				"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count, "+
				"(SELECT AVG(rating) FROM post_ratings WHERE post_ratings.post_id = posts.id) as average_rating").
			Where("status = ?", models.PostStatusPublished).
			Where("EXISTS(SELECT 1 FROM post_ratings WHERE post_ratings.post_id = posts.id)").
			Order("average_rating DESC, posts.id ASC").
			Limit(limit).
			Offset(offset).
			Preload("Author").
			Find(&posts).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
