package pbimages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testToken signs a throwaway HS256 token. The client never verifies the
// signature, only the claims, so the secret is irrelevant.
func testToken(t *testing.T, username string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// authServer serves login and register with a canned success response.
func authServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLogin, pathRegister:
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": token,
				"token_type":   "bearer",
				"user":         map[string]string{"username": "alice", "email": "alice@example.com"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestInitializeWithoutToken(t *testing.T) {
	client := NewClient()
	client.Session.Initialize()

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())
	assert.Empty(t, client.Session.AuthHeader())
}

func TestInitializeRestoresValidToken(t *testing.T) {
	store := NewMemoryTokenStore()
	token := testToken(t, "alice", time.Hour)
	require.NoError(t, store.Save(token))

	client := NewClient(WithTokenStore(store))
	client.Session.Initialize()

	// The restore is optimistic: no network call, identity from the claims.
	assert.Equal(t, StatusAuthenticated, client.Session.Status())
	require.NotNil(t, client.Session.CurrentUser())
	assert.Equal(t, "alice", client.Session.CurrentUser().Username)
	assert.Equal(t, "Bearer "+token, client.Session.AuthHeader())
}

func TestInitializeDiscardsExpiredToken(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(testToken(t, "alice", -time.Minute)))

	client := NewClient(WithTokenStore(store))
	client.Session.Initialize()

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestInitializeDiscardsMalformedToken(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("not-a-jwt"))

	client := NewClient(WithTokenStore(store))
	client.Session.Initialize()

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())
}

func TestLoginSuccess(t *testing.T) {
	token := testToken(t, "alice", time.Hour)
	srv := authServer(t, token)
	defer srv.Close()

	store := NewMemoryTokenStore()
	client := NewClient(WithBaseURL(srv.URL), WithTokenStore(store))
	client.Session.Initialize()

	require.NoError(t, client.Session.Login(context.Background(), "alice", "password123"))

	assert.Equal(t, StatusAuthenticated, client.Session.Status())
	require.NotNil(t, client.Session.CurrentUser())
	assert.Equal(t, "alice", client.Session.CurrentUser().Username)
	assert.Equal(t, "alice@example.com", client.Session.CurrentUser().Email)

	// The token is persisted for the next start.
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()

	err := client.Session.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", UserMessage(err))

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())
	assert.Empty(t, client.Session.AuthHeader())
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening

	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()

	err := client.Session.Login(context.Background(), "alice", "password123")
	require.Error(t, err)

	typed, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, typed.Kind)
	assert.Equal(t, genericFailureMessage, UserMessage(err))
	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
}

func TestRegisterAuthenticates(t *testing.T) {
	srv := authServer(t, testToken(t, "alice", time.Hour))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()

	require.NoError(t, client.Session.Register(context.Background(), "alice", "alice@example.com", "password123"))
	assert.Equal(t, StatusAuthenticated, client.Session.Status())
	require.NotNil(t, client.Session.CurrentUser())
}

func TestRegisterConflictLeavesStateUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "conflict", "message": "Username or email already registered"},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.Session.Initialize()

	err := client.Session.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, "Username or email already registered", UserMessage(err))
	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
}

func TestLogout(t *testing.T) {
	srv := authServer(t, testToken(t, "alice", time.Hour))
	defer srv.Close()

	store := NewMemoryTokenStore()
	client := NewClient(WithBaseURL(srv.URL), WithTokenStore(store))
	client.Session.Initialize()
	require.NoError(t, client.Session.Login(context.Background(), "alice", "password123"))

	client.Session.Logout()

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())
	assert.Empty(t, client.Session.AuthHeader())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRejectedTokenInvalidatesSession(t *testing.T) {
	// A restored token the server no longer accepts drops the session on the
	// first authenticated call.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "unauthorized", "message": "Authentication required"},
		})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(testToken(t, "alice", time.Hour)))

	client := NewClient(WithBaseURL(srv.URL), WithTokenStore(store))
	client.Session.Initialize()
	require.Equal(t, StatusAuthenticated, client.Session.Status())

	err := client.Gallery.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusUnauthenticated, client.Session.Status())
	assert.Nil(t, client.Session.CurrentUser())

	stored, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, stored)
}

func TestRejectedLoginDoesNotInvalidateExistingSession(t *testing.T) {
	// A failed re-login attempt must not tear down the current session.
	token := testToken(t, "alice", time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(token))

	client := NewClient(WithBaseURL(srv.URL), WithTokenStore(store))
	client.Session.Initialize()
	require.Equal(t, StatusAuthenticated, client.Session.Status())

	err := client.Session.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, StatusAuthenticated, client.Session.Status())
}
