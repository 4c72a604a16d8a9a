package server

import (
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"golang.org/x/crypto/bcrypt"
)

// newTestServer builds a Server backed by an in-memory SQLite database
// with the full repository and service graph wired. Redis and the
// Prometheus middleware are left nil so tests exercise the degraded
// paths the handlers must tolerate.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret-for-handlers"}
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:           cfg,
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		categoryRepo:     repository.NewCategoryRepository(db),
		interactionRepo:  repository.NewInteractionRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}

	s.notifier = notifications.NewNotifier(nil)
	s.fanout = notifications.NewFanout(s.subscriptionRepo, s.notificationRepo, s.userRepo, s.notifier)
	s.mailer = mail.NewMailer(cfg)

	s.postService = service.NewPostService(s.postRepo, s.categoryRepo, s.fanout, s.mailer)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.interactionService = service.NewInteractionService(s.interactionRepo, s.postRepo)
	s.subscriptionService = service.NewSubscriptionService(
		s.subscriptionRepo, s.userRepo, s.categoryRepo, s.notificationRepo, s.notifier)
	s.notificationService = service.NewNotificationService(s.notificationRepo)

	return s, db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecretPass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createPublishedPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()

	now := time.Now()
	post := &models.Post{
		AuthorID:    author.ID,
		Title:       title,
		Content:     "Some body text for " + title,
		Status:      models.PostStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createDraftPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()

	post := &models.Post{
		AuthorID: author.ID,
		Title:    title,
		Content:  "Draft body for " + title,
		Status:   models.PostStatusDraft,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
