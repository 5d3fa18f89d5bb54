// Package session hydrates the signed-in user's profile in the background.
package session

import (
	"context"

	"github.com/dmitrijs2005/artbook/internal/client/store"
	"github.com/dmitrijs2005/artbook/internal/client/tokens"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

type OutcomeKind int

const (
	// Skipped: no token was held when the load was requested.
	Skipped OutcomeKind = iota
	// Populated: the profile was fetched for the still-current token.
	Populated
	// Discarded: the token changed or was cleared while the fetch was in
	// flight, so the result belongs to a dead session.
	Discarded
)

func (k OutcomeKind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Populated:
		return "populated"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Outcome is the result of one LoadUser. Action is dispatched only when
// Dispatch is set.
type Outcome struct {
	Kind     OutcomeKind
	Action   store.Action
	Dispatch bool
}

type ProfileFetcher interface {
	CurrentUser(ctx context.Context) (*wordpress.User, error)
}

type UserEffects struct {
	client ProfileFetcher
	tokens tokens.Store
	log    logging.Logger
}

func NewUserEffects(client ProfileFetcher, tokens tokens.Store, log logging.Logger) *UserEffects {
	return &UserEffects{client: client, tokens: tokens, log: log}
}

// LoadUser fetches the profile when a token is held at invocation time.
// Fetch errors are returned unchanged; the interceptor chain has already
// reported them to the user.
func (e *UserEffects) LoadUser(ctx context.Context, a store.LoadUser) (Outcome, error) {
	token, ok := e.tokens.Get()
	if !ok {
		return Outcome{Kind: Skipped, Action: a, Dispatch: false}, nil
	}

	user, err := e.client.CurrentUser(ctx)
	if err != nil {
		return Outcome{}, err
	}

	// The store re-checks Token under its lock when AddUser is applied.
	if now, ok := e.tokens.Get(); !ok || now != token {
		return Outcome{Kind: Discarded}, nil
	}
	return Outcome{Kind: Populated, Action: store.AddUser{User: user, Token: token}, Dispatch: true}, nil
}

// Effect adapts LoadUser to the store's effect runner.
func (e *UserEffects) Effect() store.Effect {
	return func(ctx context.Context, a store.Action) (store.Action, bool, error) {
		la, ok := a.(store.LoadUser)
		if !ok {
			return nil, false, nil
		}
		out, err := e.LoadUser(ctx, la)
		if err != nil {
			return nil, false, err
		}
		e.log.Debug(ctx, "user load finished", "outcome", out.Kind.String())
		return out.Action, out.Dispatch, nil
	}
}

// Register wires the effect into s. Failures land in the store's error
// handler.
func (e *UserEffects) Register(s *store.Store) {
	s.RegisterEffect(e.Effect())
}
