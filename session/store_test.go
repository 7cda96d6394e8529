package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	apperrors "github.com/postpilot/dashboard/internal/errors"
	"github.com/postpilot/dashboard/session"
	"github.com/postpilot/dashboard/session/storagefakes"
	"github.com/postpilot/dashboard/users"
)

const (
	testToken    = "opaque-token-1"
	testEmail    = "jane@example.com"
	testPassword = "password123"
)

var testUser = users.User{ID: 7, Name: "Jane", Role: users.RoleManager}

type fakeAuthenticator struct {
	creds       session.Credentials
	loginErr    error
	registerErr error

	loginCalls    int
	registerCalls int
}

func (f *fakeAuthenticator) Login(_ context.Context, email, password string) (session.Credentials, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return session.Credentials{}, f.loginErr
	}
	return f.creds, nil
}

func (f *fakeAuthenticator) Register(_ context.Context, name, email, password string) error {
	f.registerCalls++
	return f.registerErr
}

type testFixture struct {
	auth    *fakeAuthenticator
	storage *storagefakes.FakeStorage
	store   *session.Store
}

func setupTestFixture(t *testing.T, options ...session.StoreOption) *testFixture {
	t.Helper()

	auth := &fakeAuthenticator{
		creds: session.Credentials{Token: testToken, User: testUser},
	}
	storage := storagefakes.NewFakeStorage()

	store, err := session.NewStore(auth, storage, options...)
	require.NoError(t, err)

	return &testFixture{auth: auth, storage: storage, store: store}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestNewStore(t *testing.T) {
	t.Run("requires an authenticator", func(t *testing.T) {
		_, err := session.NewStore(nil, storagefakes.NewFakeStorage())
		require.Error(t, err)
	})

	t.Run("requires storage", func(t *testing.T) {
		_, err := session.NewStore(&fakeAuthenticator{}, nil)
		require.Error(t, err)
	})
}

func TestStore_Login(t *testing.T) {
	t.Run("success updates storage and memory with the same pair", func(t *testing.T) {
		f := setupTestFixture(t)

		got, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, testToken, got.Token)
		require.Equal(t, testUser, got.User)
		require.Equal(t, got, f.store.Current())

		storedToken, storedUser, ok := f.storage.Read()
		require.True(t, ok)
		require.Equal(t, testToken, storedToken)

		var persisted users.User
		require.NoError(t, json.Unmarshal(storedUser, &persisted))
		require.Equal(t, testUser, persisted)
	})

	t.Run("collaborator failure leaves everything untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.loginErr = errors.New("invalid credentials")

		_, err := f.store.Login(context.Background(), testEmail, "wrong")
		require.Error(t, err)
		require.False(t, f.store.Current().Populated())

		_, _, ok := f.storage.Read()
		require.False(t, ok)
	})

	t.Run("malformed collaborator response is rejected", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.creds = session.Credentials{Token: "", User: testUser}

		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.Error(t, err)
		require.False(t, f.store.Current().Populated())
	})

	t.Run("storage failure leaves memory untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		f.storage.WriteErr = errors.New("disk full")

		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.Error(t, err)
		require.False(t, f.store.Current().Populated())
	})

	t.Run("login over an existing session replaces it whole", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		replacement := users.User{ID: 9, Name: "Sam", Role: users.RoleUser}
		f.auth.creds = session.Credentials{Token: "opaque-token-2", User: replacement}

		got, err := f.store.Login(context.Background(), "sam@example.com", testPassword)
		require.NoError(t, err)
		require.Equal(t, "opaque-token-2", got.Token)
		require.Equal(t, replacement, got.User)

		storedToken, _, ok := f.storage.Read()
		require.True(t, ok)
		require.Equal(t, "opaque-token-2", storedToken)
	})

	t.Run("missing credentials never reach the collaborator", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.store.Login(context.Background(), "", testPassword)
		require.Error(t, err)
		_, err = f.store.Login(context.Background(), testEmail, "")
		require.Error(t, err)
		require.Zero(t, f.auth.loginCalls)
	})
}

func TestStore_Register(t *testing.T) {
	t.Run("forwards to the collaborator without creating a session", func(t *testing.T) {
		f := setupTestFixture(t)

		require.NoError(t, f.store.Register(context.Background(), "Jane", testEmail, testPassword))
		require.Equal(t, 1, f.auth.registerCalls)
		require.False(t, f.store.Current().Populated())

		_, _, ok := f.storage.Read()
		require.False(t, ok)
	})

	t.Run("collaborator failure is surfaced", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.registerErr = errors.New("email already registered")

		err := f.store.Register(context.Background(), "Jane", testEmail, testPassword)
		require.Error(t, err)
		require.Contains(t, err.Error(), "email already registered")
	})
}

func TestStore_Logout(t *testing.T) {
	t.Run("clears storage and memory", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		f.store.Logout()
		require.False(t, f.store.Current().Populated())

		_, _, ok := f.storage.Read()
		require.False(t, ok)
	})

	t.Run("storage failure still drops the in-memory session", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		f.storage.ClearErr = errors.New("storage unavailable")
		f.store.Logout()
		require.False(t, f.store.Current().Populated())
	})
}

func TestStore_Restore(t *testing.T) {
	t.Run("restores a stored session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.storage.Seed(testToken, mustMarshal(t, testUser))

		f.store.Restore()
		current := f.store.Current()
		require.True(t, current.Populated())
		require.Equal(t, testToken, current.Token)
		require.Equal(t, testUser, current.User)
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := setupTestFixture(t)
		f.storage.Seed(testToken, mustMarshal(t, testUser))

		f.store.Restore()
		f.store.Restore()
		require.Equal(t, testUser, f.store.Current().User)
	})

	t.Run("absent storage leaves the store logged out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.store.Restore()
		require.False(t, f.store.Current().Populated())
	})

	t.Run("malformed stored state degrades silently", func(t *testing.T) {
		corrupt := [][]byte{
			[]byte("not json at all"),
			[]byte(`"just a string"`),
			[]byte(`{}`),
			[]byte(`{"id":"seven"}`),
			[]byte(`[1,2,3]`),
			nil,
		}

		for _, user := range corrupt {
			f := setupTestFixture(t)
			f.storage.Seed(testToken, user)

			require.NotPanics(t, f.store.Restore)
			require.False(t, f.store.Current().Populated())
		}
	})

	t.Run("missing token is no session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.storage.Seed("", mustMarshal(t, testUser))

		f.store.Restore()
		require.False(t, f.store.Current().Populated())
	})

	t.Run("expired JWT is discarded", func(t *testing.T) {
		now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		f := setupTestFixture(t, session.WithNowTime(func() time.Time { return now }))

		expired := signedJWT(t, now.Add(-time.Hour))
		f.storage.Seed(expired, mustMarshal(t, testUser))

		f.store.Restore()
		require.False(t, f.store.Current().Populated())
	})

	t.Run("unexpired JWT is restored", func(t *testing.T) {
		now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		f := setupTestFixture(t, session.WithNowTime(func() time.Time { return now }))

		valid := signedJWT(t, now.Add(time.Hour))
		f.storage.Seed(valid, mustMarshal(t, testUser))

		f.store.Restore()
		require.True(t, f.store.Current().Populated())
	})

	t.Run("opaque non-JWT token is restored untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		f.storage.Seed("definitely-not-a-jwt", mustMarshal(t, testUser))

		f.store.Restore()
		require.True(t, f.store.Current().Populated())
	})
}

func TestStore_Token(t *testing.T) {
	t.Run("logged out yields ErrNoSession", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.store.Token()
		require.ErrorIs(t, err, apperrors.ErrNoSession)
	})

	t.Run("logged in yields the bearer token", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.store.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)

		token, err := f.store.Token()
		require.NoError(t, err)
		require.Equal(t, testToken, token.AccessToken)
	})
}

func signedJWT(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "7",
		"exp": expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}
