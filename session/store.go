package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	apperrors "github.com/postpilot/dashboard/internal/errors"
	"github.com/postpilot/dashboard/users"
)

// Store holds the live session and keeps it in lockstep with durable storage.
// At most one session exists per process; a successful login over an existing
// session replaces it in a single step.
type Store struct {
	auth    Authenticator
	storage Storage
	log     zerolog.Logger
	nowTime func() time.Time

	mu      sync.RWMutex
	session Session
}

// StoreOption modifies a Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore initializes a Store with its collaborator and storage dependencies.
func NewStore(auth Authenticator, storage Storage, options ...StoreOption) (*Store, error) {
	if auth == nil {
		return nil, errors.New("[NewStore] authenticator is required")
	}
	if storage == nil {
		return nil, errors.New("[NewStore] storage is required")
	}

	store := &Store{
		auth:    auth,
		storage: storage,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// Restore loads the durable session copy written by a previous process. It
// never fails: absent, malformed or expired stored state simply leaves the
// store logged out.
func (s *Store) Restore() {
	token, rawUser, ok := s.storage.Read()
	if !ok || token == "" {
		return
	}

	var user users.User
	if err := json.Unmarshal(rawUser, &user); err != nil || user.ID == 0 {
		s.log.Debug().Msg("discarding unreadable stored session")
		return
	}

	if tokenExpired(token, s.nowTime()) {
		s.log.Debug().Msg("discarding expired stored session")
		return
	}

	s.mu.Lock()
	s.session = Session{Token: token, User: user}
	s.mu.Unlock()

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session restored")
}

// Login authenticates with the collaborator and, on success, persists the new
// session durably before swapping it into memory. Both copies are updated
// under one lock so no reader observes a half-written session; on any failure
// they are left exactly as they were.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" {
		return Session{}, errors.New("[Store.Login] email is required")
	}
	if password == "" {
		return Session{}, errors.New("[Store.Login] password is required")
	}

	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return Session{}, errors.Wrap(err, "[Store.Login] authenticate")
	}
	if creds.Token == "" || creds.User.ID == 0 {
		return Session{}, errors.New("[Store.Login] malformed authentication response")
	}

	rawUser, err := json.Marshal(creds.User)
	if err != nil {
		return Session{}, errors.Wrap(err, "[Store.Login] marshal user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Write(creds.Token, rawUser); err != nil {
		return Session{}, errors.Wrap(err, "[Store.Login] persist session")
	}
	s.session = Session{Token: creds.Token, User: creds.User}

	s.log.Info().Int64("user_id", creds.User.ID).Str("role", string(creds.User.Role)).Msg("logged in")
	return s.session, nil
}

// Register forwards to the registration collaborator. It never establishes a
// session: the user authenticates separately afterwards.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("[Store.Register] name is required")
	}
	if strings.TrimSpace(email) == "" {
		return errors.New("[Store.Register] email is required")
	}
	if password == "" {
		return errors.New("[Store.Register] password is required")
	}
	return errors.Wrap(s.auth.Register(ctx, name, email, password), "[Store.Register] register")
}

// Logout clears both the durable and the in-memory copy unconditionally. It
// cannot fail: a storage error is logged and the in-memory session is dropped
// regardless.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("clearing stored session")
	}
	s.session = Session{}
	s.log.Info().Msg("logged out")
}

// Current returns a snapshot of the live session. An empty session means
// logged out.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token implements oauth2.TokenSource so the API transport attaches the
// current bearer token to every authenticated request.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Populated() {
		return nil, apperrors.ErrNoSession
	}
	return &oauth2.Token{AccessToken: s.session.Token}, nil
}

// tokenExpired peeks at a JWT's exp claim without verifying the signature;
// verification is the server's job. Opaque non-JWT tokens and tokens without
// an exp claim are kept.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
