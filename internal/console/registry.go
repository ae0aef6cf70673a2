package console

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps live consoles by id. Consoles idle longer than TTL are
// evicted from memory; their durable session survives and is reloaded on
// the next request. Consoles nobody signed in to go after the shorter
// anonymous TTL.
type Registry struct {
	deps    Deps
	ttl     time.Duration
	anonTTL time.Duration
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	consoles map[string]*Console
}

// AnonymousTTL bounds how long a console without a session stays in memory.
const AnonymousTTL = 5 * time.Minute

func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	l := deps.Logger
	if l == nil {
		l = slog.Default()
	}
	anon := AnonymousTTL
	if ttl > 0 && ttl < anon {
		anon = ttl
	}
	return &Registry{
		deps:     deps,
		ttl:      ttl,
		anonTTL:  anon,
		log:      l,
		now:      time.Now,
		consoles: map[string]*Console{},
	}
}

// NewID returns a fresh console id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like one NewID issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the console for id, creating it on first use. The session
// is loaded from storage outside the registry lock; when two requests race
// to create the same console the first one registered wins.
func (r *Registry) Get(ctx context.Context, id string) *Console {
	r.mu.Lock()
	c, ok := r.consoles[id]
	r.mu.Unlock()

	if !ok {
		fresh := New(ctx, id, r.deps)
		r.mu.Lock()
		if c, ok = r.consoles[id]; !ok {
			c = fresh
			r.consoles[id] = c
		}
		r.mu.Unlock()
		if c != fresh {
			fresh.Close()
		}
	}

	c.Touch(r.now())
	return c
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}

// Sweep evicts consoles idle since before now-TTL (now-AnonymousTTL for
// consoles without a session) and reports how many.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-r.ttl)
	anonCutoff := now.Add(-r.anonTTL)

	r.mu.Lock()
	var idle []*Console
	for id, c := range r.consoles {
		limit := cutoff
		if !c.Session.Authenticated() {
			limit = anonCutoff
		}
		if c.LastSeen().Before(limit) {
			idle = append(idle, c)
			delete(r.consoles, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// StartJanitor sweeps every interval until ctx ends.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(r.now()); n > 0 {
					r.log.Info("consoles_evicted", slog.Int("count", n), slog.Int("live", r.Len()))
				}
			}
		}
	}()
}

// CloseAll stops every console; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.consoles
	r.consoles = map[string]*Console{}
	r.mu.Unlock()
	for _, c := range all {
		c.Close()
	}
}
