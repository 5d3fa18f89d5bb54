// Package auth is the client authentication service: credential exchange,
// token persistence and logout.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/artbook/internal/client/router"
	"github.com/dmitrijs2005/artbook/internal/client/store"
	"github.com/dmitrijs2005/artbook/internal/client/tokens"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
)

var ErrNoCredential = errors.New("server returned no token")

// Identity exchanges credentials for a bearer token.
type Identity interface {
	Login(ctx context.Context, username, password string) (*wordpress.AuthResponse, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, a store.Action)
}

type Navigator interface {
	Navigate(commands ...string) (router.URLTree, error)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials, persist the token, return the response.
//     Never touches the user profile.
//   - Logout: clear the token, drop the profile, go to the root screen.
//   - Authenticated: whether a token is held right now.
//   - TokenInfo: unverified claims of the held token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*wordpress.AuthResponse, error)
	Logout(ctx context.Context) error
	Authenticated() bool
	TokenInfo() (Info, bool)
}

type authService struct {
	client   Identity
	tokens   tokens.Store
	dispatch Dispatcher
	nav      Navigator
}

func NewAuthService(client Identity, tokens tokens.Store, dispatch Dispatcher, nav Navigator) AuthService {
	return &authService{client: client, tokens: tokens, dispatch: dispatch, nav: nav}
}

// Login returns the identity error unchanged; nothing is stored on failure.
func (a *authService) Login(ctx context.Context, username, password string) (*wordpress.AuthResponse, error) {
	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data.Token == "" {
		return nil, ErrNoCredential
	}

	if err := a.tokens.Set(ctx, resp.Data.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return resp, nil
}

// Logout always runs all three steps; their failures are joined.
func (a *authService) Logout(ctx context.Context) error {
	var errs []error

	if err := a.tokens.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear token: %w", err))
	}

	a.dispatch.Dispatch(ctx, store.ClearUser{})

	if _, err := a.nav.Navigate("/"); err != nil {
		errs = append(errs, fmt.Errorf("navigate home: %w", err))
	}

	return errors.Join(errs...)
}

func (a *authService) Authenticated() bool {
	_, ok := a.tokens.Get()
	return ok
}

func (a *authService) TokenInfo() (Info, bool) {
	token, ok := a.tokens.Get()
	if !ok {
		return Info{}, false
	}
	info, err := ParseInfo(token)
	if err != nil {
		return Info{}, false
	}
	return info, true
}
