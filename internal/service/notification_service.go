package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// NotificationService handles a user's notification inbox.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns userID's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// UnreadCount returns how many unread notifications userID has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

// MarkRead flags one notification as read. Owner-only.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.NewForbiddenError("You can only read your own notifications")
	}
	return s.notifRepo.MarkRead(ctx, notificationID)
}

// MarkAllRead flags every unread notification of userID as read and
// returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

// Delete removes one notification. Owner-only.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return models.NewForbiddenError("You can only delete your own notifications")
	}
	return s.notifRepo.Delete(ctx, notificationID)
}
