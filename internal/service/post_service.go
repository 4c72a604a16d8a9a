package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/mail"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000
	teaserLen     = 280
)

// PostService handles post lifecycle: draft creation, edits, the
// one-way publish transition, and sharing.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	fanout       *notifications.Fanout
	mailer       *mail.Mailer
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Content    string
	CategoryID *uint
	Tags       []string
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      string
	Content    string
	CategoryID *uint
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	fanout *notifications.Fanout,
	mailer *mail.Mailer,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		fanout:       fanout,
		mailer:       mailer,
	}
}

func validatePostFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

// CreatePost stores a new draft.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		AuthorID: in.AuthorID,
		Status:   models.PostStatusDraft,
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}

	if len(in.Tags) > 0 {
		tags, err := s.categoryRepo.FindOrCreateTags(ctx, normalizeTags(in.Tags))
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// GetPost returns a post with rendered HTML. Drafts are visible only
// to their author.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		return nil, err
	}
	if !post.Published() && post.AuthorID != currentUserID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	post.ContentHTML = markdown.Render(post.Content)
	return post, nil
}

// ListPosts returns published posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// ListByAuthor returns an author's published posts.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

// ListByCategory returns a category's published posts.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByCategoryID(ctx, categoryID, limit, offset, currentUserID)
}

// SearchPosts finds published posts matching query in title or body.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

// UpdatePost edits a post's fields. Owner-only. Editing never changes
// publication state, so republishing cannot happen through here.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The author may delete their own posts;
// admins may delete anyone's.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Publish flips a draft to published and hands the post to the
// notification fan-out. The repository's guarded update makes the
// transition fire exactly once; publishing an already-published post
// is a conflict and never re-notifies.
func (s *PostService) Publish(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only publish your own posts")
	}

	transitioned, err := s.postRepo.Publish(ctx, postID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, models.NewConflictError("Post is already published")
	}

	published, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	middleware.PostsPublished.Inc()
	s.fanout.Dispatch(published)
	return published, nil
}

// SharePost emails a published post to recipient. Draft posts cannot
// be shared, even by their author.
func (s *PostService) SharePost(ctx context.Context, userID, postID uint, recipient string) error {
	if err := validation.ValidateEmail(recipient); err != nil {
		return models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !post.Published() {
		return models.NewValidationError("Only published posts can be shared")
	}

	teaser := post.Content
	if utf8.RuneCountInString(teaser) > teaserLen {
		teaser = string([]rune(teaser)[:teaserLen]) + "..."
	}
	s.mailer.SharePost(recipient, post.Author.DisplayName(), post.Title, teaser)
	return nil
}
