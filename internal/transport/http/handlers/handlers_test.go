package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vedran77/fitlog/internal/config"
	"github.com/vedran77/fitlog/internal/domain"
	"github.com/vedran77/fitlog/internal/repository/memory"
	"github.com/vedran77/fitlog/internal/service"
	"github.com/vedran77/fitlog/internal/token"
	"github.com/vedran77/fitlog/internal/transport/http/handlers"
	"github.com/vedran77/fitlog/internal/transport/http/middleware"
)

type env struct {
	server *httptest.Server
}

func newEnv(t *testing.T, denial config.OwnershipDenial) *env {
	t.Helper()

	tokens := token.NewService("test-secret", "fitlog", "fitlog-clients", time.Hour)
	authService := service.NewAuthService(memory.NewUserRepo(), tokens)
	workoutService := service.NewWorkoutService(memory.NewWorkoutRepo(), 100)

	policy := config.PasswordPolicy{MinLength: 6}
	authHandler := handlers.NewAuthHandler(authService, policy)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, denial)

	auth := middleware.Auth(tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.Handle("GET /userinfo", auth(http.HandlerFunc(authHandler.UserInfo)))
	mux.Handle("GET /workoutrecords", auth(http.HandlerFunc(workoutHandler.List)))
	mux.Handle("GET /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Get)))
	mux.Handle("POST /workoutrecords", auth(http.HandlerFunc(workoutHandler.Create)))
	mux.Handle("PUT /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Update)))
	mux.Handle("DELETE /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Delete)))

	server := httptest.NewServer(middleware.CORS(mux))
	t.Cleanup(server.Close)

	return &env{server: server}
}

func (e *env) request(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *env) registerAndLogin(t *testing.T, username, displayName, password string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/register", "", map[string]string{
		"username":     username,
		"display_name": displayName,
		"password":     password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	require.NotEmpty(t, tok)
	return tok
}

func decodeRecord(t *testing.T, resp *http.Response) domain.WorkoutRecord {
	t.Helper()
	var rec domain.WorkoutRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

// The register → login → create → foreign access → delete → gone scenario.
func TestWorkoutLifecycle(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)

	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")
	bobToken := e.registerAndLogin(t, "bob", "Bob B.", "secret2")

	// Create as alice; owner fields come from the token, not the payload.
	resp := e.request(t, http.MethodPost, "/workoutrecords", aliceToken, map[string]string{
		"description": "5k run",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decodeRecord(t, resp)
	require.Equal(t, "5k run", rec.Description)
	require.Equal(t, "Alice A.", rec.OwnerDisplayName)
	require.Nil(t, rec.UpdatedAt)
	require.Equal(t, fmt.Sprintf("/workoutrecords/%d", rec.ID), resp.Header.Get("Location"))

	// Bob cannot see or touch it.
	resp = e.request(t, http.MethodGet, fmt.Sprintf("/workoutrecords/%d", rec.ID), bobToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = e.request(t, http.MethodPut, fmt.Sprintf("/workoutrecords/%d", rec.ID), bobToken, map[string]string{"description": "hijack"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = e.request(t, http.MethodDelete, fmt.Sprintf("/workoutrecords/%d", rec.ID), bobToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Alice deletes it; it is then gone entirely.
	resp = e.request(t, http.MethodDelete, fmt.Sprintf("/workoutrecords/%d", rec.ID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = e.request(t, http.MethodGet, fmt.Sprintf("/workoutrecords/%d", rec.ID), aliceToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreate_IgnoresForgedOwnerFields(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	resp := e.request(t, http.MethodPost, "/workoutrecords", aliceToken, map[string]any{
		"description":        "deadlifts",
		"id":                 999,
		"owner_id":           "11111111-1111-1111-1111-111111111111",
		"owner_display_name": "Mallory",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decodeRecord(t, resp)
	require.NotEqual(t, int64(999), rec.ID)
	require.Equal(t, "Alice A.", rec.OwnerDisplayName)
	require.NotEqual(t, "11111111-1111-1111-1111-111111111111", rec.OwnerID.String())
}

func TestUpdate_SetsUpdatedAtKeepsSnapshot(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	resp := e.request(t, http.MethodPost, "/workoutrecords", aliceToken, map[string]string{"description": "before"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)

	resp = e.request(t, http.MethodPut, fmt.Sprintf("/workoutrecords/%d", created.ID), aliceToken, map[string]string{"description": "after"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.request(t, http.MethodGet, fmt.Sprintf("/workoutrecords/%d", created.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeRecord(t, resp)
	require.Equal(t, "after", got.Description)
	require.Equal(t, created.OwnerID, got.OwnerID)
	require.Equal(t, created.OwnerDisplayName, got.OwnerDisplayName)
	require.True(t, created.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.UpdatedAt)
}

func TestList_ScopedToCaller(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")
	bobToken := e.registerAndLogin(t, "bob", "Bob B.", "secret2")

	resp := e.request(t, http.MethodPost, "/workoutrecords", aliceToken, map[string]string{"description": "alice run"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.request(t, http.MethodGet, "/workoutrecords", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []domain.WorkoutRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Empty(t, records)

	resp = e.request(t, http.MethodGet, "/workoutrecords", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
}

func TestExpiredToken_Unauthorized(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	// Same secret and issuer, already-expired lifetime.
	expiredIssuer := token.NewService("test-secret", "fitlog", "fitlog-clients", -time.Minute)
	expired, err := expiredIssuer.Issue(&domain.User{Username: "alice", DisplayName: "Alice A."})
	require.NoError(t, err)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/workoutrecords"},
		{http.MethodGet, "/workoutrecords/1"},
		{http.MethodPost, "/workoutrecords"},
		{http.MethodPut, "/workoutrecords/1"},
		{http.MethodDelete, "/workoutrecords/1"},
		{http.MethodGet, "/userinfo"},
	} {
		resp := e.request(t, route.method, route.path, expired, map[string]string{"description": "x"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestMissingToken_Unauthorized(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)

	resp := e.request(t, http.MethodGet, "/workoutrecords", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserInfo_ReturnsClaims(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	resp := e.request(t, http.MethodGet, "/userinfo", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info struct {
		UserID      string   `json:"user_id"`
		Username    string   `json:"username"`
		DisplayName string   `json:"display_name"`
		Roles       []string `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	require.Equal(t, "alice", info.Username)
	require.Equal(t, "Alice A.", info.DisplayName)
	require.NotEmpty(t, info.UserID)
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)

	resp := e.request(t, http.MethodPost, "/register", "", map[string]string{
		"username":     "al",
		"display_name": "",
		"password":     "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Contains(t, body.Error.Fields, "username")
	require.Contains(t, body.Error.Fields, "display_name")
	require.Contains(t, body.Error.Fields, "password")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	resp := e.request(t, http.MethodPost, "/register", "", map[string]string{
		"username":     "alice",
		"display_name": "Other Alice",
		"password":     "secret2",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyForbidden)
	e.registerAndLogin(t, "alice", "Alice A.", "secret1")

	resp := e.request(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// With OWNERSHIP_DENIAL=not_found, foreign and absent records are
// indistinguishable: everything answers 404.
func TestOwnershipDenial_NotFoundPolicy(t *testing.T) {
	t.Parallel()

	e := newEnv(t, config.DenyNotFound)
	aliceToken := e.registerAndLogin(t, "alice", "Alice A.", "secret1")
	bobToken := e.registerAndLogin(t, "bob", "Bob B.", "secret2")

	resp := e.request(t, http.MethodPost, "/workoutrecords", aliceToken, map[string]string{"description": "5k run"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decodeRecord(t, resp)

	resp = e.request(t, http.MethodGet, fmt.Sprintf("/workoutrecords/%d", rec.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = e.request(t, http.MethodDelete, fmt.Sprintf("/workoutrecords/%d", rec.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = e.request(t, http.MethodGet, "/workoutrecords/99999", bobToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
