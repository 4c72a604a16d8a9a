// Package service holds business logic between the HTTP handlers and
// the repositories.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// InteractionService handles likes, ratings, and the rankings derived
// from them.
type InteractionService struct {
	interactionRepo repository.InteractionRepository
	postRepo        repository.PostRepository
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(
	interactionRepo repository.InteractionRepository,
	postRepo repository.PostRepository,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
	}
}

// Like records that userID liked postID. Liking twice is a conflict,
// including when a concurrent request wins the insert race.
func (s *InteractionService) Like(ctx context.Context, userID, postID uint) (*models.PostLike, error) {
	if err := s.checkPostVisible(ctx, userID, postID); err != nil {
		return nil, err
	}

	inserted, err := s.interactionRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, models.NewConflictError("Already liked this post")
	}

	like, err := s.interactionRepo.GetLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if like == nil {
		return nil, models.NewInternalError(nil)
	}
	return like, nil
}

// Rate stores userID's 1-5 rating of postID, overwriting any previous
// value. Repeated identical calls are idempotent.
func (s *InteractionService) Rate(ctx context.Context, userID, postID uint, rating int) (*models.PostRating, error) {
	if rating < 1 || rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}
	if err := s.checkPostVisible(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.interactionRepo.Rate(ctx, userID, postID, rating)
}

// checkPostVisible reports NOT_FOUND for posts the user cannot see,
// so drafts of other authors behave exactly like missing posts.
func (s *InteractionService) checkPostVisible(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !post.Published() && post.AuthorID != userID {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

// MostLiked lists published posts ordered by like count.
func (s *InteractionService) MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.interactionRepo.MostLiked(ctx, limit, offset)
}

// HighestRated lists published posts with at least one rating, ordered
// by mean rating.
func (s *InteractionService) HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.interactionRepo.HighestRated(ctx, limit, offset)
}
