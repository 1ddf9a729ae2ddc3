package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"echowall/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerScenario runs the whole API surface against a real server wired
// to an in-memory SQLite database and a miniredis instance. It is the only
// test that constructs a full Server, since metrics collectors register
// globally.
func TestServerScenario(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "scenario-secret",
		RedisURL:       mr.Addr(),
		AllowedOrigins: "*",
	}

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	app := srv.App()

	do := func(method, path, token string, body any) *http.Response {
		t.Helper()
		var rd io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			rd = bytes.NewReader(b)
		}
		req := httptest.NewRequest(method, path, rd)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]any {
		t.Helper()
		defer func() { _ = resp.Body.Close() }()
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	// Health
	resp := do(http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Signup user A via the plain users endpoint
	resp = do(http.MethodPost, "/api/users/", "", map[string]string{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userA := decode(resp)
	assert.Equal(t, "a@x.com", userA["email"])
	_, hasPassword := userA["password"]
	assert.False(t, hasPassword, "created user must not expose the password")
	userAID := uint(userA["id"].(float64))

	// Reading it back returns the same email and still no password
	resp = do(http.MethodGet, "/api/users/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	read := decode(resp)
	assert.Equal(t, "a@x.com", read["email"])
	_, hasPassword = read["password"]
	assert.False(t, hasPassword)

	// Duplicate email is a conflict
	resp = do(http.MethodPost, "/api/users/", "", map[string]string{"email": "a@x.com", "password": "q"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// Login succeeds with the right password only
	resp = do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokenA := decode(resp)["token"].(string)
	require.NotEmpty(t, tokenA)

	// Signup user B through the auth endpoint, which also issues a token
	resp = do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "b@x.com", "password": "p2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tokenB := decode(resp)["token"].(string)
	require.NotEmpty(t, tokenB)

	// Unauthenticated post creation is rejected
	resp = do(http.MethodPost, "/api/posts/", "", map[string]any{"title": "T", "content": "C"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	// User A creates a post
	resp = do(http.MethodPost, "/api/posts/", tokenA, map[string]any{"title": "T", "content": "C"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(resp)
	assert.Equal(t, float64(userAID), created["owner_id"])
	assert.Equal(t, true, created["published"])
	postID := int(created["id"].(float64))
	postPath := "/api/posts/" + strconv.Itoa(postID)

	// Fresh post reads with zero votes
	resp = do(http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), decode(resp)["votes"])

	// Latest is the new post
	resp = do(http.MethodGet, "/api/posts/latest", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T", decode(resp)["title"])

	// A second post by B, findable via title search
	resp = do(http.MethodPost, "/api/posts/", tokenB, map[string]any{"title": "golang tips", "content": "..."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodGet, "/api/posts/?search=golang", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	_ = resp.Body.Close()
	require.Len(t, list, 1)
	assert.Equal(t, "golang tips", list[0]["title"])
	assert.Equal(t, float64(0), list[0]["votes"])

	// B may not modify or delete A's post
	resp = do(http.MethodPut, postPath, tokenB, map[string]any{"title": "X", "content": "Y"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodDelete, postPath, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// Still there, unmodified
	resp = do(http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T", decode(resp)["title"])

	// B votes for A's post
	resp = do(http.MethodPost, postPath+"/vote", tokenB, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), decode(resp)["votes"])

	// Voting twice is rejected, the count stays exact
	resp = do(http.MethodPost, postPath+"/vote", tokenB, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode(resp)["votes"])

	// Retraction is idempotent
	resp = do(http.MethodDelete, postPath+"/vote", tokenB, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodDelete, postPath+"/vote", tokenB, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), decode(resp)["votes"])

	// Owner replaces the post fields
	resp = do(http.MethodPut, postPath, tokenA, map[string]any{"title": "T2", "content": "C2", "published": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode(resp)
	assert.Equal(t, "T2", updated["title"])
	assert.Equal(t, false, updated["published"])

	// Owner deletes; the second delete is NotFound, not a repeated success
	resp = do(http.MethodDelete, postPath, tokenA, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodGet, postPath, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = do(http.MethodDelete, postPath, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
