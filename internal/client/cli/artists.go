package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/artbook/internal/client/htmltext"
)

func (a *App) Artists(ctx context.Context) error {
	if err := a.artists.Load(ctx); err != nil {
		return err
	}
	if _, err := a.router.Navigate(routeArtists); err != nil {
		return err
	}
	a.renderArtists(a.artists.Artists())
	return nil
}

// Filter shows only the artists from one country; no argument shows all.
func (a *App) Filter(ctx context.Context, args []string) error {
	a.renderArtists(a.artists.FilterArtists(strings.Join(args, " ")))
	return nil
}

// Like toggles the favourite flag of the artist numbered n in the listing.
func (a *App) Like(ctx context.Context, args []string) error {
	if a.locked() {
		fmt.Fprintln(a.out, "An update is still in progress.")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: like <n>")
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	list := a.artists.Artists()
	if err != nil || n < 1 || n > len(list) {
		fmt.Fprintf(a.out, "No artist #%s\n", args[0])
		return errUsage
	}

	idx := n - 1
	return a.artists.Toggle(ctx, list[idx].ID, idx)
}

// Country shows the details of one country, the terminal form of a dialog.
func (a *App) Country(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: country <name>")
		return errUsage
	}
	c, err := a.artists.ShowCountry(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintln(a.out, "Country not found.")
		return err
	}
	defer a.artists.CloseDialog()

	fmt.Fprintln(a.out, titleStyle.Render(htmltext.Text(c.Title.Rendered)))
	if body := htmltext.Text(c.Content.Rendered); body != "" {
		fmt.Fprintln(a.out, body)
	}
	return nil
}

func (a *App) Countries(ctx context.Context) error {
	list, err := a.artists.Countries(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Fprintln(a.out, " -", htmltext.Text(c.Title.Rendered))
	}
	return nil
}
