package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CategoryID *uint    `json:"category_id"`
		Tags       []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:   currentUserID(c),
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListPosts(c.Context(), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// SearchPosts handles GET /api/posts/search
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.SearchPosts(c.Context(), c.Query("q"), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetAuthorPosts handles GET /api/authors/:id/posts
func (s *Server) GetAuthorPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.ListByAuthor(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		CategoryID *uint  `json:"category_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:     currentUserID(c),
		PostID:     id,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}

	if err := s.postService.DeletePost(c.Context(), user.ID, id, user.IsAdmin); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// PublishPost handles POST /api/posts/:id/publish
func (s *Server) PublishPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Publish(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// SharePost handles POST /api/posts/:id/share
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.SharePost(c.Context(), currentUserID(c), id, req.Email); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post shared"})
}
