package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/artbook/internal/client/locale"
	"github.com/dmitrijs2005/artbook/internal/client/posts"
)

var errUsage = errors.New("usage")

// Posts opens the posts screen at the given page, or at the current one.
func (a *App) Posts(ctx context.Context, args []string) error {
	page := a.posts.Pagination().Page
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintln(a.out, "Usage: posts [page]")
			return errUsage
		}
		page = n
	}

	if _, err := a.router.Navigate(routePosts, strconv.Itoa(page)); err != nil {
		return err
	}
	if err := a.posts.FetchPage(ctx); err != nil {
		return err
	}
	a.renderPosts()
	return nil
}

func (a *App) Next(ctx context.Context) error {
	pg := a.posts.Pagination()
	if pg.TotalPages > 0 && pg.Page >= pg.TotalPages {
		fmt.Fprintln(a.out, "Already on the last page.")
		return nil
	}
	return a.pageEvent(ctx, posts.PageEvent{Page: pg.Page, Rows: pg.PerPage})
}

func (a *App) Prev(ctx context.Context) error {
	pg := a.posts.Pagination()
	if pg.Page <= 1 {
		fmt.Fprintln(a.out, "Already on the first page.")
		return nil
	}
	return a.pageEvent(ctx, posts.PageEvent{Page: pg.Page - 2, Rows: pg.PerPage})
}

// PageSize changes the number of posts per page and keeps the page.
func (a *App) PageSize(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: size <n>")
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > 100 {
		fmt.Fprintln(a.out, "Usage: size <1..100>")
		return errUsage
	}
	pg := a.posts.Pagination()
	return a.pageEvent(ctx, posts.PageEvent{Page: pg.Page - 1, Rows: n})
}

func (a *App) pageEvent(ctx context.Context, ev posts.PageEvent) error {
	if err := a.posts.HandlePageEvent(ctx, ev); err != nil {
		return err
	}
	if _, err := a.router.Navigate(routePosts, strconv.Itoa(ev.Page+1)); err != nil {
		return err
	}
	a.renderPosts()
	return nil
}

// Lang switches the content locale; the posts listing restarts at page 1.
func (a *App) Lang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Current language: %s (supported: %v)\n", a.posts.Pagination().Locale, locale.Supported())
		return nil
	}
	l, err := locale.Parse(args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Unsupported language %q\n", args[0])
		return err
	}

	a.artists.SetLocale(l)
	if err := a.posts.ChangeLocale(ctx, l); err != nil {
		return err
	}
	if _, err := a.router.Navigate(routePosts, "1"); err != nil {
		return err
	}
	a.renderPosts()
	return nil
}
