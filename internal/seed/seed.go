// Package seed provides helpers to create demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures how much data the seeder generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var categoryNames = []string{
	"Technology", "Programming", "Writing", "Travel", "Food",
	"Science", "Music", "Books", "Fitness", "Photography",
}

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "Ink$eedPassw0rd"

// Seed populates the database with demo users, posts, and interactions.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("created %d categories", len(categories))

	posts, err := createPosts(db, r, users, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createInteractions(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}
	if err := createSubscriptions(db, r, users, categories); err != nil {
		return fmt.Errorf("failed to create subscriptions: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []string{
		"notifications", "post_likes", "post_ratings",
		"author_subscriptions", "category_subscriptions",
		"comments", "post_tags", "posts", "tags", "categories", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("seed%d-%s", i, gofakeit.Email()),
			Password: string(hash),
			Bio:      gofakeit.Sentence(12),
		})
	}
	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{Name: name})
	}
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []models.User, categories []models.Category, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post := models.Post{
			Title:    gofakeit.Sentence(6),
			Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
			AuthorID: author.ID,
			Status:   models.PostStatusDraft,
		}

		if r.Intn(10) < 7 {
			category := categories[r.Intn(len(categories))]
			post.CategoryID = &category.ID
		}

		// Most seeded posts are published with a realistic age spread.
		if r.Intn(10) < 8 {
			publishedAt := time.Now().
				Add(-time.Duration(r.Intn(90*24)) * time.Hour)
			post.Status = models.PostStatusPublished
			post.PublishedAt = &publishedAt
			post.CreatedAt = publishedAt.Add(-time.Duration(r.Intn(48)) * time.Hour)
		}
		posts = append(posts, post)
	}
	if err := db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func createInteractions(db *gorm.DB, r *rand.Rand, users []models.User, posts []models.Post) error {
	var likes []models.PostLike
	var ratings []models.PostRating

	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for _, user := range users {
			if user.ID == post.AuthorID {
				continue
			}
			if r.Intn(10) < 3 {
				likes = append(likes, models.PostLike{UserID: user.ID, PostID: post.ID})
			}
			if r.Intn(10) < 2 {
				ratings = append(ratings, models.PostRating{
					UserID: user.ID,
					PostID: post.ID,
					Rating: 1 + r.Intn(5),
				})
			}
		}
	}

	if len(likes) > 0 {
		if err := db.CreateInBatches(&likes, 200).Error; err != nil {
			return err
		}
	}
	if len(ratings) > 0 {
		if err := db.CreateInBatches(&ratings, 200).Error; err != nil {
			return err
		}
	}
	log.Printf("created %d likes and %d ratings", len(likes), len(ratings))
	return nil
}

func createSubscriptions(db *gorm.DB, r *rand.Rand, users []models.User, categories []models.Category) error {
	var authorSubs []models.AuthorSubscription
	var categorySubs []models.CategorySubscription

	for _, user := range users {
		for _, author := range users {
			if author.ID == user.ID {
				continue
			}
			if r.Intn(20) < 2 {
				authorSubs = append(authorSubs, models.AuthorSubscription{
					UserID:   user.ID,
					AuthorID: author.ID,
				})
			}
		}
		for _, category := range categories {
			if r.Intn(10) < 2 {
				categorySubs = append(categorySubs, models.CategorySubscription{
					UserID:     user.ID,
					CategoryID: category.ID,
				})
			}
		}
	}

	if len(authorSubs) > 0 {
		if err := db.CreateInBatches(&authorSubs, 200).Error; err != nil {
			return err
		}
	}
	if len(categorySubs) > 0 {
		if err := db.CreateInBatches(&categorySubs, 200).Error; err != nil {
			return err
		}
	}
	log.Printf("created %d author and %d category subscriptions", len(authorSubs), len(categorySubs))
	return nil
}
