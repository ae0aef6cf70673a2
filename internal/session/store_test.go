package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devgjhbj-wq/admin-nexus/internal/storage"
)

func TestSetAndReload(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	s := Load(ctx, kv, nil)
	if s.Token() != "" {
		t.Fatalf("expected empty session on fresh storage")
	}

	u := User{UserID: "u1", MobileNumber: "9999999999", Role: "admin"}
	if err := s.Set(ctx, "abc", u); err != nil {
		t.Fatalf("set: %v", err)
	}
	if s.Token() != "abc" {
		t.Fatalf("expected token abc, got %q", s.Token())
	}
	if got, ok := s.User(); !ok || got != u {
		t.Fatalf("expected %+v, got %+v (%v)", u, got, ok)
	}

	reloaded := Load(ctx, kv, nil)
	if reloaded.Token() != "abc" {
		t.Fatalf("expected token to survive reload, got %q", reloaded.Token())
	}
	if got, ok := reloaded.User(); !ok || got != u {
		t.Fatalf("expected user to survive reload, got %+v", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := Load(ctx, kv, nil)

	_ = s.Set(ctx, "first", User{UserID: "u1", Role: "admin"})
	_ = s.Set(ctx, "second", User{UserID: "u2", Role: "admin"})

	reloaded := Load(ctx, kv, nil)
	u, _ := reloaded.User()
	if reloaded.Token() != "second" || u.UserID != "u2" {
		t.Fatalf("expected second session, got %q %+v", reloaded.Token(), u)
	}
}

func TestClearRemovesDurableState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := Load(ctx, kv, nil)
	_ = s.Set(ctx, "abc", User{UserID: "u1", Role: "admin"})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Token() != "" {
		t.Fatalf("expected token cleared")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("expected user cleared")
	}
	if kv.Len() != 0 {
		t.Fatalf("expected durable keys removed, %d left", kv.Len())
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}

func TestCorruptedStorageMeansLoggedOut(t *testing.T) {
	cases := []struct {
		name  string
		token string
		user  string
	}{
		{"user not json", "abc", "{not json"},
		{"user undefined", "abc", "undefined"},
		{"user null", "abc", "null"},
		{"token undefined", "undefined", `{"userId":"u1"}`},
		{"token empty", "   ", `{"userId":"u1"}`},
		{"token without user", "abc", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			_ = kv.Put(ctx, KeyToken, []byte(tc.token))
			if tc.user != "" {
				_ = kv.Put(ctx, KeyUser, []byte(tc.user))
			}

			s := Load(ctx, kv, nil)
			if s.Token() != "" {
				t.Fatalf("expected logged out, got token %q", s.Token())
			}
			if _, ok := s.User(); ok {
				t.Fatalf("expected no user")
			}
		})
	}
}

func TestExpiredJWTIsNotRestored(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	expired := signToken(t, time.Now().Add(-time.Hour))
	s := Load(ctx, kv, nil)
	_ = s.Set(ctx, expired, User{UserID: "u1", Role: "admin"})

	if Load(ctx, kv, nil).Authenticated() {
		t.Fatalf("expected expired token to be dropped at load")
	}

	valid := signToken(t, time.Now().Add(time.Hour))
	_ = s.Set(ctx, valid, User{UserID: "u1", Role: "admin"})
	reloaded := Load(ctx, kv, nil)
	if reloaded.Token() != valid {
		t.Fatalf("expected valid JWT restored")
	}
	if exp, ok := reloaded.Expiry(); !ok || exp.Before(time.Now()) {
		t.Fatalf("expected future expiry, got %v %v", exp, ok)
	}
}

func TestOpaqueTokenHasNoExpiry(t *testing.T) {
	if _, ok := TokenExpiry("abc"); ok {
		t.Fatalf("opaque token should not report an expiry")
	}
}

func TestClearIfTokenInvalidatesOnce(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, storage.NewMemory(), nil)
	_ = s.Set(ctx, "abc", User{UserID: "u1", Role: "admin"})

	var cleared atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.ClearIfToken(ctx, "abc"); ok {
				cleared.Add(1)
			}
		}()
	}
	wg.Wait()

	if cleared.Load() != 1 {
		t.Fatalf("expected exactly one invalidation, got %d", cleared.Load())
	}
	if s.Token() != "" {
		t.Fatalf("expected session cleared")
	}
}

func TestClearIfTokenKeepsNewerSession(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, storage.NewMemory(), nil)
	_ = s.Set(ctx, "new", User{UserID: "u1", Role: "admin"})

	if ok, _ := s.ClearIfToken(ctx, "old"); ok {
		t.Fatalf("stale token must not clear a newer session")
	}
	if s.Token() != "new" {
		t.Fatalf("expected newer session kept")
	}
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// flakyKV fails every Put of one key.
type flakyKV struct {
	*storage.Memory
	failKey string
}

func (f flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Memory.Put(ctx, key, value)
}

func TestSetFailureLeavesNoSession(t *testing.T) {
	for _, key := range []string{KeyToken, KeyUser} {
		t.Run(key, func(t *testing.T) {
			ctx := context.Background()
			kv := flakyKV{Memory: storage.NewMemory(), failKey: key}
			s := Load(ctx, kv, nil)

			if err := s.Set(ctx, "abc", User{UserID: "u1", Role: "admin"}); err == nil {
				t.Fatal("expected the failed write to surface")
			}
			if s.Authenticated() || s.Token() != "" {
				t.Fatalf("memory reports a session storage never got: %q", s.Token())
			}
			if _, ok := s.User(); ok {
				t.Fatal("user kept after failed write")
			}
			if n := kv.Len(); n != 0 {
				t.Fatalf("expected no orphan keys, got %d", n)
			}
			if Load(ctx, kv, nil).Authenticated() {
				t.Fatal("reload found a session")
			}
		})
	}
}
