package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByAuthorIDFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	getByCategoryIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn            func(context.Context, int, int, uint) ([]*models.Post, error)
	searchFn          func(context.Context, string, int, int, uint) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	publishFn         func(context.Context, uint, time.Time) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByCategoryID(ctx context.Context, categoryID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByCategoryIDFn(ctx, categoryID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Publish(ctx context.Context, id uint, at time.Time) (bool, error) {
	return s.publishFn(ctx, id, at)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, Status: models.PostStatusPublished}, nil
		},
		getByAuthorIDFn:   func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		getByCategoryIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:            func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		searchFn:          func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		publishFn:         func(_ context.Context, _ uint, _ time.Time) (bool, error) { return true, nil },
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	likeFn         func(context.Context, uint, uint) (bool, error)
	getLikeFn      func(context.Context, uint, uint) (*models.PostLike, error)
	likeCountFn    func(context.Context, uint) (int64, error)
	rateFn         func(context.Context, uint, uint, int) (*models.PostRating, error)
	getRatingFn    func(context.Context, uint, uint) (*models.PostRating, error)
	mostLikedFn    func(context.Context, int, int) ([]*models.Post, error)
	highestRatedFn func(context.Context, int, int) ([]*models.Post, error)
}

func (s *interactionRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) GetLike(ctx context.Context, userID, postID uint) (*models.PostLike, error) {
	return s.getLikeFn(ctx, userID, postID)
}
func (s *interactionRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}
func (s *interactionRepoStub) Rate(ctx context.Context, userID, postID uint, rating int) (*models.PostRating, error) {
	return s.rateFn(ctx, userID, postID, rating)
}
func (s *interactionRepoStub) GetRating(ctx context.Context, userID, postID uint) (*models.PostRating, error) {
	return s.getRatingFn(ctx, userID, postID)
}
func (s *interactionRepoStub) MostLiked(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.mostLikedFn(ctx, limit, offset)
}
func (s *interactionRepoStub) HighestRated(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.highestRatedFn(ctx, limit, offset)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		likeFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		getLikeFn:   func(_ context.Context, _, _ uint) (*models.PostLike, error) { return &models.PostLike{}, nil },
		likeCountFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		rateFn: func(_ context.Context, userID, postID uint, rating int) (*models.PostRating, error) {
			return &models.PostRating{UserID: userID, PostID: postID, Rating: rating}, nil
		},
		getRatingFn:    func(_ context.Context, _, _ uint) (*models.PostRating, error) { return nil, nil },
		mostLikedFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		highestRatedFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
	}
}

// subscriptionRepoStub is a stub for repository.SubscriptionRepository.
type subscriptionRepoStub struct {
	subscribeFn             func(context.Context, uint, uint) (*models.AuthorSubscription, bool, error)
	unsubscribeFn           func(context.Context, uint, uint) (bool, error)
	subscribeCategoryFn     func(context.Context, uint, uint) (*models.CategorySubscription, bool, error)
	unsubscribeCategoryFn   func(context.Context, uint, uint) (bool, error)
	subscriberIDsFn         func(context.Context, uint) ([]uint, error)
	categorySubscriberIDsFn func(context.Context, uint) ([]uint, error)
	subscriberCountFn       func(context.Context, uint) (int64, error)
	listByUserFn            func(context.Context, uint) ([]models.AuthorSubscription, error)
	listCategoriesByUserFn  func(context.Context, uint) ([]models.CategorySubscription, error)
}

func (s *subscriptionRepoStub) Subscribe(ctx context.Context, userID, authorID uint) (*models.AuthorSubscription, bool, error) {
	return s.subscribeFn(ctx, userID, authorID)
}
func (s *subscriptionRepoStub) Unsubscribe(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.unsubscribeFn(ctx, userID, authorID)
}
func (s *subscriptionRepoStub) SubscribeCategory(ctx context.Context, userID, categoryID uint) (*models.CategorySubscription, bool, error) {
	return s.subscribeCategoryFn(ctx, userID, categoryID)
}
func (s *subscriptionRepoStub) UnsubscribeCategory(ctx context.Context, userID, categoryID uint) (bool, error) {
	return s.unsubscribeCategoryFn(ctx, userID, categoryID)
}
func (s *subscriptionRepoStub) SubscriberIDs(ctx context.Context, authorID uint) ([]uint, error) {
	return s.subscriberIDsFn(ctx, authorID)
}
func (s *subscriptionRepoStub) CategorySubscriberIDs(ctx context.Context, categoryID uint) ([]uint, error) {
	return s.categorySubscriberIDsFn(ctx, categoryID)
}
func (s *subscriptionRepoStub) SubscriberCount(ctx context.Context, authorID uint) (int64, error) {
	return s.subscriberCountFn(ctx, authorID)
}
func (s *subscriptionRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.AuthorSubscription, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *subscriptionRepoStub) ListCategoriesByUser(ctx context.Context, userID uint) ([]models.CategorySubscription, error) {
	return s.listCategoriesByUserFn(ctx, userID)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		subscribeFn: func(_ context.Context, userID, authorID uint) (*models.AuthorSubscription, bool, error) {
			return &models.AuthorSubscription{UserID: userID, AuthorID: authorID}, true, nil
		},
		unsubscribeFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		subscribeCategoryFn: func(_ context.Context, userID, categoryID uint) (*models.CategorySubscription, bool, error) {
			return &models.CategorySubscription{UserID: userID, CategoryID: categoryID}, true, nil
		},
		unsubscribeCategoryFn:   func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		subscriberIDsFn:         func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		categorySubscriberIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		subscriberCountFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listByUserFn:            func(_ context.Context, _ uint) ([]models.AuthorSubscription, error) { return nil, nil },
		listCategoriesByUserFn:  func(_ context.Context, _ uint) ([]models.CategorySubscription, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "writer", Email: "writer@example.com"}, nil
		},
		getByIDWithPostsFn: func(_ context.Context, id uint, _ int) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn           func(context.Context, *models.Category) error
	getByIDFn          func(context.Context, uint) (*models.Category, error)
	getByNameFn        func(context.Context, string) (*models.Category, error)
	listFn             func(context.Context) ([]models.Category, error)
	deleteFn           func(context.Context, uint) error
	listTagsFn         func(context.Context) ([]models.Tag, error)
	findOrCreateTagsFn func(context.Context, []string) ([]models.Tag, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.listTagsFn(ctx)
}
func (s *categoryRepoStub) FindOrCreateTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.findOrCreateTagsFn(ctx, names)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn:    func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn:   func(_ context.Context, id uint) (*models.Category, error) { return &models.Category{ID: id, Name: "go"}, nil },
		getByNameFn: func(_ context.Context, _ string) (*models.Category, error) { return nil, nil },
		listFn:      func(_ context.Context) ([]models.Category, error) { return nil, nil },
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
		listTagsFn:  func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		findOrCreateTagsFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, len(names))
			for i, name := range names {
				tags[i] = models.Tag{ID: uint(i + 1), Name: name}
			}
			return tags, nil
		},
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	createBatchFn func(context.Context, []models.Notification) error
	getByIDFn     func(context.Context, uint) (*models.Notification, error)
	listByUserFn  func(context.Context, uint, bool, int, int) ([]models.Notification, error)
	unreadCountFn func(context.Context, uint) (int64, error)
	markReadFn    func(context.Context, uint) error
	markAllReadFn func(context.Context, uint) (int64, error)
	deleteFn      func(context.Context, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) CreateBatch(ctx context.Context, ns []models.Notification) error {
	return s.createBatchFn(ctx, ns)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	return s.listByUserFn(ctx, userID, unreadOnly, limit, offset)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.unreadCountFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id uint) error {
	return s.markReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.markAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:      func(_ context.Context, _ *models.Notification) error { return nil },
		createBatchFn: func(_ context.Context, _ []models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
			return &models.Notification{ID: id}, nil
		},
		listByUserFn:  func(_ context.Context, _ uint, _ bool, _, _ int) ([]models.Notification, error) { return nil, nil },
		unreadCountFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _ uint) error { return nil },
		markAllReadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
