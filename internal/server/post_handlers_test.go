package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	app.Post("/posts", s.CreatePost)
	app.Get("/posts", s.GetPosts)
	app.Get("/posts/:id", s.GetPost)
	app.Put("/posts/:id", s.UpdatePost)
	app.Delete("/posts/:id", s.DeletePost)
	app.Post("/posts/:id/publish", s.PublishPost)
	return app
}

func TestCreatePostHandler(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	app := newPostApp(s, author.ID)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name: "valid draft",
			body: map[string]interface{}{
				"title":   "My first post",
				"content": "Hello world",
				"tags":    []string{"Go", "go"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"content": "No title here",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown category",
			body: map[string]interface{}{
				"title":       "Categorised",
				"content":     "Body",
				"category_id": 9999,
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var post models.Post
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
				assert.Equal(t, models.PostStatusDraft, post.Status)
				assert.Nil(t, post.PublishedAt)
			}
		})
	}
}

func TestGetPostVisibility(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	draft := createDraftPost(t, db, author, "Hidden draft")

	t.Run("author sees own draft", func(t *testing.T) {
		app := newPostApp(s, author.ID)
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", draft.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("other users get not found", func(t *testing.T) {
		app := newPostApp(s, other.ID)
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", draft.ID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPublishPostHandler(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	sub1 := createTestUser(t, db, "sub1")
	sub2 := createTestUser(t, db, "sub2")

	require.NoError(t, db.Create(&models.AuthorSubscription{UserID: sub1.ID, AuthorID: author.ID}).Error)
	require.NoError(t, db.Create(&models.AuthorSubscription{UserID: sub2.ID, AuthorID: author.ID}).Error)

	draft := createDraftPost(t, db, author, "Launch post")
	app := newPostApp(s, author.ID)
	publishURL := fmt.Sprintf("/posts/%d/publish", draft.ID)

	t.Run("publish transitions and fans out", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, publishURL, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, models.PostStatusPublished, post.Status)
		require.NotNil(t, post.PublishedAt)

		// Fan-out runs in the background; wait for the rows to land.
		assert.Eventually(t, func() bool {
			var count int64
			if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
				return false
			}
			return count == 2
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("second publish conflicts without re-notifying", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, publishURL, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		time.Sleep(100 * time.Millisecond)
		var count int64
		require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("only the author can publish", func(t *testing.T) {
		second := createDraftPost(t, db, author, "Second draft")
		otherApp := newPostApp(s, sub1.ID)

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/publish", second.ID), nil)
		resp, err := otherApp.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		// Drafts are invisible to non-authors, so they cannot even
		// address the post.
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeletePostHandler(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	admin := createTestUser(t, db, "admin")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)

	deleteReq := func(app *fiber.App, postID uint) *http.Response {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("non-author is forbidden", func(t *testing.T) {
		post := createPublishedPost(t, db, author, "Keep me")
		resp := deleteReq(newPostApp(s, other.ID), post.ID)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("author deletes own post", func(t *testing.T) {
		post := createPublishedPost(t, db, author, "Mine to remove")
		resp := deleteReq(newPostApp(s, author.ID), post.ID)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("admin deletes another author's post", func(t *testing.T) {
		post := createPublishedPost(t, db, author, "Moderated away")
		resp := deleteReq(newPostApp(s, admin.ID), post.ID)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestUpdatePostOwnership(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	post := createPublishedPost(t, db, author, "Editable")

	body, _ := json.Marshal(map[string]string{"title": "Hijacked"})
	app := newPostApp(s, other.ID)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
