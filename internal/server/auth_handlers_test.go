package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/auth/signup", s.Signup)
	app.Post("/auth/login", s.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSignup(t *testing.T) {
	s, _ := newTestServer(t)
	app := newAuthApp(s)

	valid := map[string]string{
		"username": "newwriter",
		"email":    "writer@example.com",
		"password": "Sup3r$ecretPass",
	}

	t.Run("success returns token and user", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", valid)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
			User  struct {
				ID       uint   `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "newwriter", body.User.Username)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", valid)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", map[string]string{
			"username": "another",
			"email":    "another@example.com",
			"password": "short",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/signup", map[string]string{"username": "x"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, db, "writer")
	app := newAuthApp(s)

	t.Run("valid credentials", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", map[string]string{
			"email":    user.Email,
			"password": "Sup3r$ecretPass",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", map[string]string{
			"email":    user.Email,
			"password": "WrongPassword1!",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "Sup3r$ecretPass",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, db, "writer")

	app := fiber.New()
	app.Get("/users/me", middleware.AuthRequired, s.GetMyProfile)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes", func(t *testing.T) {
		token, err := s.generateToken(user.ID, user.Username)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
