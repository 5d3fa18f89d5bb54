// Package store is the client state container: actions are reduced into
// State synchronously, then handed to registered effects which run in the
// background and may dispatch follow-up actions.
package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

// Effect reacts to an action. It returns the follow-up action and whether it
// should be dispatched. Effects ignore actions they do not handle by
// returning (nil, false, nil).
type Effect func(ctx context.Context, a Action) (next Action, dispatch bool, err error)

// ErrorHandler receives every effect failure.
type ErrorHandler func(ctx context.Context, a Action, err error)

// TokenSource reports the credential currently held.
type TokenSource interface {
	Get() (string, bool)
}

type Store struct {
	mu      sync.Mutex
	session TokenSource
	state   State
	subs    map[int]func(State)
	nextSub int
	effects []Effect
	onError ErrorHandler
	wg      sync.WaitGroup
}

type Option func(*Store)

// WithErrorHandler replaces the default handler, which drops errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Store) { s.onError = h }
}

// WithLogger reports effect failures to log.
func WithLogger(log logging.Logger) Option {
	return WithErrorHandler(func(ctx context.Context, a Action, err error) {
		log.Error(ctx, "effect failed", "action", a.Type(), "error", err)
	})
}

// WithSession drops AddUser actions whose Token is no longer the one held
// by ts. The check and the reduce happen under the same lock.
func WithSession(ts TokenSource) Option {
	return func(s *Store) { s.session = ts }
}

func New(opts ...Option) *Store {
	s := &Store{
		subs:    make(map[int]func(State)),
		onError: func(context.Context, Action, error) {},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) RegisterEffect(e Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, e)
}

// Subscribe calls fn with the new state after every dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User selects the current profile.
func (s *Store) User() *wordpress.User {
	return s.State().User
}

// Dispatch reduces a into the state, notifies subscribers and starts every
// registered effect for a. A stale AddUser is dropped without any of these.
func (s *Store) Dispatch(ctx context.Context, a Action) {
	s.mu.Lock()
	if s.stale(a) {
		s.mu.Unlock()
		return
	}
	s.state = Reduce(s.state, a)
	state := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	effects := append([]Effect(nil), s.effects...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}

	for _, e := range effects {
		s.wg.Add(1)
		go func(e Effect) {
			defer s.wg.Done()
			s.runEffect(ctx, e, a)
		}(e)
	}
}

func (s *Store) stale(a Action) bool {
	au, ok := a.(AddUser)
	if !ok || s.session == nil {
		return false
	}
	token, held := s.session.Get()
	return !held || token != au.Token
}

func (s *Store) runEffect(ctx context.Context, e Effect, a Action) {
	next, dispatch, err := e(ctx, a)
	if err != nil {
		s.onError(ctx, a, err)
		return
	}
	if dispatch && next != nil {
		s.Dispatch(ctx, next)
	}
}

// Wait blocks until every effect started so far, and every effect those
// started in turn, has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}
