package service

import (
	"context"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
)

// SubscriptionService manages author and category subscriptions and
// their confirmation notifications.
type SubscriptionService struct {
	subRepo      repository.SubscriptionRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	notifRepo    repository.NotificationRepository
	notifier     *notifications.Notifier
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	notifRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:      subRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		notifRepo:    notifRepo,
		notifier:     notifier,
	}
}

// Subscribe follows an author, returning the created subscription and
// the subscriber's confirmation notification. The author is not
// notified.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*models.AuthorSubscription, *models.Notification, error) {
	if userID == authorID {
		return nil, nil, models.NewValidationError("Cannot subscribe to yourself")
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, nil, err
	}

	sub, inserted, err := s.subRepo.Subscribe(ctx, userID, authorID)
	if err != nil {
		return nil, nil, err
	}
	if !inserted {
		return nil, nil, models.NewConflictError("Already subscribed to this author")
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Successfully subscribed to %s.", author.DisplayName()),
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return nil, nil, err
	}
	s.notifier.PublishUser(ctx, userID, notification.Message)
	return sub, notification, nil
}

// Unsubscribe stops following an author. Unsubscribing when not
// subscribed reports NOT_FOUND.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) (*models.Notification, error) {
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	removed, err := s.subRepo.Unsubscribe(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundMessageError("Not subscribed to this author")
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Successfully unsubscribed from %s.", author.DisplayName()),
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	s.notifier.PublishUser(ctx, userID, notification.Message)
	return notification, nil
}

// SubscribeCategory follows a category, returning the created
// subscription and the confirmation notification.
func (s *SubscriptionService) SubscribeCategory(ctx context.Context, userID, categoryID uint) (*models.CategorySubscription, *models.Notification, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}

	sub, inserted, err := s.subRepo.SubscribeCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if !inserted {
		return nil, nil, models.NewConflictError("Already subscribed to this category")
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Successfully subscribed to the %s category.", category.Name),
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return nil, nil, err
	}
	s.notifier.PublishUser(ctx, userID, notification.Message)
	return sub, notification, nil
}

// UnsubscribeCategory stops following a category.
func (s *SubscriptionService) UnsubscribeCategory(ctx context.Context, userID, categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return err
	}

	removed, err := s.subRepo.UnsubscribeCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundMessageError("Not subscribed to this category")
	}
	return nil
}

// Subscribers returns how many users follow the author.
func (s *SubscriptionService) Subscribers(ctx context.Context, authorID uint) (int64, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return 0, err
	}
	return s.subRepo.SubscriberCount(ctx, authorID)
}

// ListSubscriptions returns the author follows of userID.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uint) ([]models.AuthorSubscription, error) {
	return s.subRepo.ListByUser(ctx, userID)
}

// ListCategorySubscriptions returns the category follows of userID.
func (s *SubscriptionService) ListCategorySubscriptions(ctx context.Context, userID uint) ([]models.CategorySubscription, error) {
	return s.subRepo.ListCategoriesByUser(ctx, userID)
}
