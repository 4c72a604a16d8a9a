package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository persists author and category subscriptions.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, userID, authorID uint) (*models.AuthorSubscription, bool, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) (bool, error)
	SubscribeCategory(ctx context.Context, userID, categoryID uint) (*models.CategorySubscription, bool, error)
	UnsubscribeCategory(ctx context.Context, userID, categoryID uint) (bool, error)
	SubscriberIDs(ctx context.Context, authorID uint) ([]uint, error)
	CategorySubscriberIDs(ctx context.Context, categoryID uint) ([]uint, error)
	SubscriberCount(ctx context.Context, authorID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.AuthorSubscription, error)
	ListCategoriesByUser(ctx context.Context, userID uint) ([]models.CategorySubscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Subscribe inserts the (user, author) pair, returning the created row
// and false when the pair already existed. The unique index settles
// concurrent subscribes.
func (r *subscriptionRepository) Subscribe(ctx context.Context, userID, authorID uint) (*models.AuthorSubscription, bool, error) {
	sub := &models.AuthorSubscription{UserID: userID, AuthorID: authorID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(sub)
	if result.Error != nil {
		return nil, false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	cache.Invalidate(ctx, cache.SubscriberCount(authorID))
	return sub, true, nil
}

// Unsubscribe removes the pair, returning false when no row existed.
func (r *subscriptionRepository) Unsubscribe(ctx context.Context, userID, authorID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.AuthorSubscription{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.SubscriberCount(authorID))
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) SubscribeCategory(ctx context.Context, userID, categoryID uint) (*models.CategorySubscription, bool, error) {
	sub := &models.CategorySubscription{UserID: userID, CategoryID: categoryID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}},
			DoNothing: true,
		}).
		Create(sub)
	if result.Error != nil {
		return nil, false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return sub, true, nil
}

func (r *subscriptionRepository) UnsubscribeCategory(ctx context.Context, userID, categoryID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&models.CategorySubscription{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) SubscriberIDs(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.AuthorSubscription{}).
		Where("author_id = ?", authorID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *subscriptionRepository) CategorySubscriberIDs(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CategorySubscription{}).
		Where("category_id = ?", categoryID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *subscriptionRepository) SubscriberCount(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuthorSubscription{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID uint) ([]models.AuthorSubscription, error) {
	var subs []models.AuthorSubscription
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("subscribed_at DESC").
		Find(&subs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListCategoriesByUser(ctx context.Context, userID uint) ([]models.CategorySubscription, error) {
	var subs []models.CategorySubscription
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("subscribed_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}
