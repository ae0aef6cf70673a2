// Package session holds the console's authentication state: the bearer token
// issued by the RBSlot API and the admin identity it belongs to.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/devgjhbj-wq/admin-nexus/internal/storage"
)

// Durable keys, relative to the console namespace.
const (
	KeyToken = "admin_token"
	KeyUser  = "admin_user"
)

type User struct {
	UserID       string `json:"userId"`
	MobileNumber string `json:"mobileNumber"`
	Role         string `json:"role"`
}

func (u User) IsAdmin() bool { return strings.EqualFold(u.Role, "admin") }

// Store is safe for concurrent use. Reads never touch durable storage.
type Store struct {
	mu  sync.RWMutex
	wmu sync.Mutex // orders durable writes so storage matches memory

	kv     storage.KV
	log    *slog.Logger
	now    func() time.Time
	token  string
	user   *User
	expiry time.Time
}

// Load builds a Store from kv. Missing, corrupted or expired values resolve
// to the logged-out state; Load never fails.
func Load(ctx context.Context, kv storage.KV, l *slog.Logger) *Store {
	if l == nil {
		l = slog.Default()
	}
	s := &Store{kv: kv, log: l, now: time.Now}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	rawToken, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("session_restore_failed", slog.String("key", KeyToken), slog.Any("err", err))
		}
		return
	}
	token := strings.TrimSpace(string(rawToken))
	if !usable(token) {
		return
	}

	rawUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("session_restore_failed", slog.String("key", KeyUser), slog.Any("err", err))
		}
		return
	}
	u, ok := decodeUser(rawUser)
	if !ok {
		s.log.Warn("session_user_corrupted")
		return
	}

	exp, hasExp := TokenExpiry(token)
	if hasExp && !exp.After(s.now()) {
		s.log.Info("session_token_expired", slog.Time("exp", exp))
		return
	}

	s.token = token
	s.user = &u
	s.expiry = exp
}

func usable(v string) bool {
	return v != "" && v != "undefined" && v != "null"
}

func decodeUser(b []byte) (User, bool) {
	raw := strings.TrimSpace(string(b))
	if !usable(raw) {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false
	}
	return u, true
}

// Set replaces the current session in memory and in durable storage.
func (s *Store) Set(ctx context.Context, token string, u User) error {
	if !usable(token) {
		return errors.New("session: empty token")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	exp, _ := TokenExpiry(token)

	s.wmu.Lock()
	defer s.wmu.Unlock()

	err = s.kv.Put(ctx, KeyToken, []byte(token))
	if err == nil {
		err = s.kv.Put(ctx, KeyUser, b)
	}
	if err != nil {
		// A half-written session must not survive a reload.
		s.mu.Lock()
		s.reset()
		s.mu.Unlock()
		return errors.Join(err, s.deleteDurable(ctx))
	}

	s.mu.Lock()
	s.token = token
	s.user = &u
	s.expiry = exp
	s.mu.Unlock()
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Expiry reports the token's exp claim when the token is a JWT.
func (s *Store) Expiry() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry, !s.expiry.IsZero()
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Clear removes the session from memory and durable storage. Clearing an
// empty session is a no-op apart from the storage deletes.
func (s *Store) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	return s.deleteDurable(ctx)
}

// ClearIfToken clears the session only while token is still the current one.
// It reports whether this call invalidated the session.
func (s *Store) ClearIfToken(ctx context.Context, token string) (bool, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		return false, nil
	}
	s.reset()
	s.mu.Unlock()
	return true, s.deleteDurable(ctx)
}

func (s *Store) reset() {
	s.token = ""
	s.user = nil
	s.expiry = time.Time{}
}

func (s *Store) deleteDurable(ctx context.Context) error {
	return errors.Join(
		s.kv.Delete(ctx, KeyToken),
		s.kv.Delete(ctx, KeyUser),
	)
}
