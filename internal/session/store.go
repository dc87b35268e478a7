package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/credentials"
	"storefront/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Store holds the authentication slice. Transitions go through pure reducers;
// the persisted credentials file is kept in lockstep with the state.
type Store struct {
	gw    Gateway
	creds *credentials.Store

	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	nexts int
}

func NewStore(gw Gateway, creds *credentials.Store) *Store {
	return &Store{
		gw:    gw,
		creds: creds,
		state: State{Status: StatusUnknown},
		subs:  make(map[int]func(State)),
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every state change and returns an unsubscribe
// function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nexts
	s.nexts++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Reducers: pure (state, action payload) -> state.

func reduceLoginStart(st State) State {
	st.Status = StatusAuthenticating
	st.Loading = true
	st.Error = ""
	return st
}

func reduceLoginSuccess(st State, user User, token string) State {
	st.Status = StatusAuthenticated
	st.Loading = false
	st.IsAuthenticated = true
	st.User = &user
	st.Token = token
	st.Error = ""
	return st
}

func reduceLoginFailure(st State, message string) State {
	st.Status = StatusFailed
	st.Loading = false
	st.IsAuthenticated = false
	st.User = nil
	st.Token = ""
	st.Error = message
	return st
}

func reduceLogout(State) State {
	return State{Status: StatusAnonymous}
}

func reduceProfileUpdated(st State, user User) State {
	// Token untouched.
	st.User = &user
	st.Error = ""
	return st
}

// Login authenticates against the server, persisting token and user on
// success. Failure is ErrInvalidCredentials for rejected credentials, else
// the transport error.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	s.apply(reduceLoginStart)

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return nil, s.loginFailed(ctx, err)
	}

	s.persist(res.Token, res.User)
	s.apply(func(st State) State { return reduceLoginSuccess(st, res.User, res.Token) })

	logger.FromCtx(ctx).Info("logged in", zap.String("email", res.User.Email))
	return &res.User, nil
}

// Register creates an account; on success the session is authenticated
// exactly as after login.
func (s *Store) Register(ctx context.Context, name, email, password string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	s.apply(reduceLoginStart)

	res, err := s.gw.Register(ctx, name, email, password)
	if err != nil {
		return nil, s.loginFailed(ctx, err)
	}

	s.persist(res.Token, res.User)
	s.apply(func(st State) State { return reduceLoginSuccess(st, res.User, res.Token) })
	return &res.User, nil
}

func (s *Store) loginFailed(ctx context.Context, err error) error {
	out := err
	switch api.KindOf(err) {
	case api.KindUnauthenticated, api.KindValidation:
		out = ErrInvalidCredentials
	}

	s.apply(func(st State) State { return reduceLoginFailure(st, out.Error()) })
	logger.FromCtx(ctx).Warn("login failed", zap.Error(err))
	return out
}

// Logout is side-effect-only, never fails and is idempotent.
func (s *Store) Logout() {
	s.ForceLogout("user logout")
}

// ForceLogout is the single clear-and-reset sequence shared by user-initiated
// logout and the 401 interceptor: persisted credentials removed, state
// anonymous.
func (s *Store) ForceLogout(reason string) {
	_ = s.creds.Clear()
	s.apply(reduceLogout)
	logger.L().Info("session cleared", zap.String("reason", reason))
}

// Bootstrap settles the session from persisted credentials. It runs to
// completion before Status leaves StatusUnknown: a persisted token is checked
// for local expiry, then confirmed against /auth/me; any failure (network,
// 401, malformed payload) forces logout semantics. Without a persisted token
// the session is immediately anonymous.
func (s *Store) Bootstrap(ctx context.Context) {
	token, _, err := s.creds.Load()
	if err != nil {
		s.apply(reduceLogout)
		return
	}

	if tokenExpired(token) {
		logger.FromCtx(ctx).Info("persisted token expired, skipping /auth/me")
		s.ForceLogout("expired token")
		return
	}

	user, err := s.gw.Me(ctx)
	if err != nil {
		s.ForceLogout("bootstrap rejected")
		return
	}

	s.persist(token, *user)
	s.apply(func(st State) State { return reduceLoginSuccess(st, *user, token) })
}

// UpdateProfile replaces the user in place without touching the token.
func (s *Store) UpdateProfile(ctx context.Context, name, email string) (*User, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if !s.State().IsAuthenticated {
		return nil, ErrNotAuthenticated
	}

	user, err := s.gw.UpdateProfile(ctx, name, email)
	if err != nil {
		s.mu.Lock()
		s.state.Error = err.Error()
		s.notify()
		s.mu.Unlock()
		return nil, err
	}

	s.persist(s.State().Token, *user)
	s.apply(func(st State) State { return reduceProfileUpdated(st, *user) })
	return user, nil
}

func (s *Store) ChangePassword(ctx context.Context, current, next string) error {
	if next == "" {
		return ErrEmptyPassword
	}
	if !s.State().IsAuthenticated {
		return ErrNotAuthenticated
	}
	return s.gw.ChangePassword(ctx, current, next)
}

// DeleteAccount removes the account server-side and ends the session.
func (s *Store) DeleteAccount(ctx context.Context) error {
	if !s.State().IsAuthenticated {
		return ErrNotAuthenticated
	}
	if err := s.gw.DeleteAccount(ctx); err != nil {
		return err
	}
	s.ForceLogout("account deleted")
	return nil
}

func (s *Store) persist(token string, user User) {
	raw, err := json.Marshal(user)
	if err != nil {
		raw = nil
	}
	if err := s.creds.Save(token, raw); err != nil {
		logger.L().Warn("persisting credentials failed", zap.Error(err))
	}
}

func (s *Store) apply(reduce func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state)
	s.notify()
}

// notify must be called with the lock held.
func (s *Store) notify() {
	st := s.state
	for _, fn := range s.subs {
		fn(st)
	}
}

// tokenExpired peeks at the JWT exp claim without verifying the signature —
// the client has no signing secret; the server remains the authority. Tokens
// that cannot be parsed are left for /auth/me to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
