package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/artbook/internal/client/store"
)

const msgLoginFailed = "Login failed. Please try again."

// Login opens the login screen. A user who already holds a credential is
// sent back home by the route guard without being prompted. On success the
// profile is hydrated and the home screen opened.
func (a *App) Login(ctx context.Context) error {
	tree, err := a.router.Navigate(routeLogin)
	if err != nil {
		return err
	}
	if !tree.Equal(a.router.CreateURLTree(routeLogin)) {
		fmt.Fprintln(a.out, "Already signed in.")
		return nil
	}

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if _, err := a.auth.Login(ctx, username, string(password)); err != nil {
		a.log.Info(ctx, "login failed", "user", username, "error", err)
		fmt.Fprintln(a.out, msgLoginFailed)
		return err
	}

	a.store.Dispatch(ctx, store.LoadUser{})
	a.store.Wait()

	if _, err := a.router.Navigate(routeHome); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the hydrated profile and what the client knows about its
// token.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	if u := a.store.User(); u != nil {
		fmt.Fprintf(a.out, "%s (@%s, id %d)\n", u.Name, u.Slug, u.ID)
		if u.Email != "" {
			fmt.Fprintln(a.out, u.Email)
		}
	} else {
		fmt.Fprintln(a.out, "Profile not loaded.")
	}

	if info, ok := a.auth.TokenInfo(); ok && !info.ExpiresAt.IsZero() {
		state := "valid"
		if info.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Token %s until %s\n", state, info.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}
