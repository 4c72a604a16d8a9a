package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	like, err := s.interactionService.Like(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// RatePost handles POST /api/posts/:id/rate
func (s *Server) RatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.interactionService.Rate(c.Context(), currentUserID(c), id, req.Rating)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(rating)
}

// GetMostLiked handles GET /api/posts/most-liked
func (s *Server) GetMostLiked(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.interactionService.MostLiked(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetHighestRated handles GET /api/posts/highest-rated
func (s *Server) GetHighestRated(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.interactionService.HighestRated(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}
