package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxCommentLen = 5000

// CommentService handles comments on published posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment adds a comment to a published post.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !post.Published() {
		return nil, models.NewValidationError("Cannot comment on a draft")
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a post's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID, limit, offset)
}

// DeleteComment removes a comment. Allowed for the comment's author
// and for the author of the post it sits on.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
