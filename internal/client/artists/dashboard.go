// Package artists is the artist dashboard: the category-filtered artist
// list, favourite toggling, country filter and country details.
package artists

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/text/cases"

	"github.com/dmitrijs2005/artbook/internal/client/htmltext"
	"github.com/dmitrijs2005/artbook/internal/client/locale"
	"github.com/dmitrijs2005/artbook/internal/client/messages"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

const (
	MsgUpdated      = "Artist is updated"
	MsgUpdateFailed = "Failed to update Artist"
)

// DefaultCategory is the CMS category holding artist posts.
const DefaultCategory = 43

var ErrNoArtist = errors.New("no such artist")

type Client interface {
	ListPosts(ctx context.Context, q wordpress.PostQuery) (*wordpress.PostPage, error)
	UpdateFields(ctx context.Context, id int, acf wordpress.ACF) (*wordpress.Post, error)
	Countries(ctx context.Context) ([]wordpress.Post, error)
	Country(ctx context.Context, slug string) (*wordpress.Post, error)
}

// InputSurface is the interactive part of the dashboard that must not accept
// input while an update is in flight.
type InputSurface interface {
	Disable()
	Enable()
}

type Artist struct {
	ID           int
	Name         string
	Country      string
	Productivity string
	Like         bool
	ACF          wordpress.ACF
}

func fromPost(p wordpress.Post) Artist {
	return Artist{
		ID:           p.ID,
		Name:         htmltext.Text(p.Title.Rendered),
		Country:      p.ACF.Country(),
		Productivity: p.ACF.Productivity(),
		Like:         p.ACF.Like(),
		ACF:          p.ACF,
	}
}

type Dashboard struct {
	client   Client
	sink     messages.Sink
	surface  InputSurface
	log      logging.Logger
	category int
	locale   locale.Locale

	mu      sync.Mutex
	artists []Artist
	dialog  *wordpress.Post
}

type Option func(*Dashboard)

func WithCategory(id int) Option {
	return func(d *Dashboard) { d.category = id }
}

func WithLocale(l locale.Locale) Option {
	return func(d *Dashboard) { d.locale = l }
}

func NewDashboard(client Client, sink messages.Sink, surface InputSurface, log logging.Logger, opts ...Option) *Dashboard {
	d := &Dashboard{
		client:   client,
		sink:     sink,
		surface:  surface,
		log:      log,
		category: DefaultCategory,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// SetLocale selects the language of subsequent loads.
func (d *Dashboard) SetLocale(l locale.Locale) {
	d.mu.Lock()
	d.locale = l
	d.mu.Unlock()
}

// Load replaces the artist list with the current CMS content.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	loc := d.locale
	d.mu.Unlock()

	page, err := d.client.ListPosts(ctx, wordpress.PostQuery{
		PerPage:    100,
		Locale:     loc,
		Categories: []int{d.category},
	})
	if err != nil {
		return fmt.Errorf("load artists: %w", err)
	}

	list := make([]Artist, 0, len(page.Posts))
	for _, p := range page.Posts {
		list = append(list, fromPost(p))
	}
	d.SetArtists(list)
	return nil
}

// SetArtists installs a pre-resolved list.
func (d *Dashboard) SetArtists(list []Artist) {
	d.mu.Lock()
	d.artists = append([]Artist(nil), list...)
	d.mu.Unlock()
}

func (d *Dashboard) Artists() []Artist {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Artist(nil), d.artists...)
}

// Toggle flips the favourite flag of artist itemID shown at index. The input
// surface is disabled for the duration of the request and re-enabled on
// every path. The in-memory flag only changes when the server accepted the
// update.
func (d *Dashboard) Toggle(ctx context.Context, itemID, index int) error {
	d.mu.Lock()
	if index < 0 || index >= len(d.artists) || d.artists[index].ID != itemID {
		d.mu.Unlock()
		return fmt.Errorf("%w: id=%d index=%d", ErrNoArtist, itemID, index)
	}
	want := !d.artists[index].Like
	acf := d.artists[index].ACF.WithLike(want)
	d.mu.Unlock()

	if err := d.update(ctx, itemID, acf); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		d.sink.AddMessage(messages.KindError, MsgUpdateFailed)
		return fmt.Errorf("update artist %d: %w", itemID, err)
	}

	d.mu.Lock()
	if index < len(d.artists) && d.artists[index].ID == itemID {
		d.artists[index].Like = want
		d.artists[index].ACF = acf
	}
	d.mu.Unlock()

	d.sink.AddMessage(messages.KindSuccess, MsgUpdated)
	d.log.Info(ctx, "artist updated", "id", itemID, "like", want)
	return nil
}

// update sends acf with input disabled. Input is enabled again before
// update returns, also when the client panics.
func (d *Dashboard) update(ctx context.Context, itemID int, acf wordpress.ACF) error {
	d.surface.Disable()
	defer d.surface.Enable()

	_, err := d.client.UpdateFields(ctx, itemID, acf)
	return err
}

// IsLiked reports the favourite flag of the artist at index. Out of range
// is not liked.
func (d *Dashboard) IsLiked(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.artists) {
		return false
	}
	return d.artists[index].Like
}

// FilterArtists returns the artists whose country equals query, ignoring
// case. An empty query returns everyone. The held list is not modified.
func (d *Dashboard) FilterArtists(query string) []Artist {
	all := d.Artists()
	if query == "" {
		return all
	}

	fold := cases.Fold()
	want := fold.String(query)
	out := make([]Artist, 0, len(all))
	for _, a := range all {
		if fold.String(a.Country) == want {
			out = append(out, a)
		}
	}
	return out
}

// ShowCountry fetches a country by its natural key and opens the details
// dialog for it.
func (d *Dashboard) ShowCountry(ctx context.Context, name string) (*wordpress.Post, error) {
	c, err := d.client.Country(ctx, countrySlug(name))
	if err != nil {
		return nil, fmt.Errorf("show country %q: %w", name, err)
	}
	d.mu.Lock()
	d.dialog = c
	d.mu.Unlock()
	return c, nil
}

// DialogCountry returns the country whose dialog is open.
func (d *Dashboard) DialogCountry() (*wordpress.Post, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialog, d.dialog != nil
}

func (d *Dashboard) CloseDialog() {
	d.mu.Lock()
	d.dialog = nil
	d.mu.Unlock()
}

func (d *Dashboard) Countries(ctx context.Context) ([]wordpress.Post, error) {
	list, err := d.client.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return list, nil
}
