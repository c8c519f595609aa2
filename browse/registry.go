package browse

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moviefinder/errs"
	"moviefinder/pkg/logger"
)

var ErrSessionNotFound = errs.Errorf(errs.ENOTFOUND, "browse session not found")

const DefaultSessionTTL = 30 * time.Minute

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry owns the live browse sessions of the server. Sessions idle for
// longer than the TTL are closed by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	build    func() *Controller
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewRegistry(ttl time.Duration, build func() *Controller, l *zap.SugaredLogger) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if l == nil {
		l = logger.NOOPLogger
	}
	return &Registry{
		sessions: map[string]*session{},
		ttl:      ttl,
		build:    build,
		logger:   l,
		now:      time.Now,
	}
}

// Create starts an unmounted session and returns its id.
func (r *Registry) Create() (string, *Controller) {
	id := uuid.NewString()
	c := r.build()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &session{controller: c, lastSeen: r.now()}
	return id, c
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s.controller, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.controller.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes every session idle for longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Controller
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s.controller)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	if len(expired) > 0 {
		r.logger.Infow("expired browse sessions", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done, then closes all sessions.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*session{}
	r.mu.Unlock()

	for _, s := range sessions {
		s.controller.Close()
	}
}
