package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscriptions/authors/:id
func (s *Server) Subscribe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	sub, notification, err := s.subscriptionService.Subscribe(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscribed",
		"subscription": sub,
		"notification": notification,
	})
}

// Unsubscribe handles DELETE /api/subscriptions/authors/:id
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notification, err := s.subscriptionService.Unsubscribe(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Unsubscribed",
		"notification": notification,
	})
}

// SubscribeCategory handles POST /api/subscriptions/categories/:id
func (s *Server) SubscribeCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	sub, notification, err := s.subscriptionService.SubscribeCategory(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscribed",
		"subscription": sub,
		"notification": notification,
	})
}

// UnsubscribeCategory handles DELETE /api/subscriptions/categories/:id
func (s *Server) UnsubscribeCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.subscriptionService.UnsubscribeCategory(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed"})
}

// GetMySubscriptions handles GET /api/subscriptions
func (s *Server) GetMySubscriptions(c *fiber.Ctx) error {
	subs, err := s.subscriptionService.ListSubscriptions(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(subs)
}

// GetMyCategorySubscriptions handles GET /api/subscriptions/categories
func (s *Server) GetMyCategorySubscriptions(c *fiber.Ctx) error {
	subs, err := s.subscriptionService.ListCategorySubscriptions(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(subs)
}

// GetSubscriberCount handles GET /api/authors/:id/subscribers
func (s *Server) GetSubscriberCount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.subscriptionService.Subscribers(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"author_id":   id,
		"subscribers": count,
	})
}
