package server

import (
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryPosts handles GET /api/categories/:id/posts
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.ListByCategory(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.categoryRepo.ListTags(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(tags)
}

// CreateCategory handles POST /api/categories (admin only)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name is required"))
	}
	if len(name) > 50 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category name too long (max 50 characters)"))
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id (admin only)
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryRepo.Delete(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
