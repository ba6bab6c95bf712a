package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/session"
)

// quizSession is one client's quiz with its generator. mu guards every
// field except touched, which belongs to the registry lock.
type quizSession struct {
	mu sync.Mutex

	id      string
	sess    *session.Session
	gen     *quizgen.LLMGenerator
	topic   string
	count   int
	lastErr error
	repairs []quizgen.Repair

	// generating is set while a generation call is in flight; a second
	// request for the same session is refused until it resolves.
	generating bool
	touched    time.Time
}

// registry tracks live sessions.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*quizSession
	newGen   func(id string) *quizgen.LLMGenerator
	now      func() time.Time

	// evict runs, outside the lock, for every removed or expired session.
	evict func(*quizSession)
}

func newRegistry(newGen func(id string) *quizgen.LLMGenerator) *registry {
	return &registry{
		sessions: make(map[string]*quizSession),
		newGen:   newGen,
		now:      time.Now,
	}
}

// create registers a new idle session.
func (r *registry) create() *quizSession {
	id := uuid.New().String()
	qs := &quizSession{
		id:      id,
		sess:    session.New(),
		gen:     r.newGen(id),
		touched: r.now(),
	}

	r.mu.Lock()
	r.sessions[id] = qs
	r.mu.Unlock()
	return qs
}

// get returns the session with id and marks it used.
func (r *registry) get(id string) (*quizSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qs, ok := r.sessions[id]
	if ok {
		qs.touched = r.now()
	}
	return qs, ok
}

// remove drops id. It reports whether the session existed.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	qs, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.release(qs)
	}
	return ok
}

func (r *registry) release(gone ...*quizSession) {
	if r.evict == nil {
		return
	}
	for _, qs := range gone {
		r.evict(qs)
	}
}

// count returns the number of live sessions.
func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep drops sessions idle for longer than ttl and returns how many went.
func (r *registry) sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var gone []*quizSession
	for id, qs := range r.sessions {
		if qs.touched.Before(cutoff) {
			delete(r.sessions, id)
			gone = append(gone, qs)
		}
	}
	r.mu.Unlock()

	r.release(gone...)
	return len(gone)
}
