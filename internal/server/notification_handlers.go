package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	unreadOnly := c.QueryBool("unread", false)

	notifs, err := s.notificationService.List(c.Context(), currentUserID(c), unreadOnly, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(notifs)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}
