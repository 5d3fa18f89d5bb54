// Package posts drives the paginated, locale-aware post listing.
//
// Every fetch snapshots the pagination state at issue time. Only the most
// recently issued fetch may apply its result; older responses are dropped.
// Abandon cancels everything in flight without surfacing a message.
package posts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/artbook/internal/client/htmltext"
	"github.com/dmitrijs2005/artbook/internal/client/locale"
	"github.com/dmitrijs2005/artbook/internal/client/messages"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

const MsgLoadFailed = "An error occurred while load posts"

const DefaultPerPage = 10

var ErrInvalidPage = errors.New("invalid page event")

type Lister interface {
	ListPosts(ctx context.Context, q wordpress.PostQuery) (*wordpress.PostPage, error)
}

// Pagination is the listing position. Page is 1-based.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Locale     locale.Locale
}

// PageEvent is what a paginator widget emits: a 0-based page index and the
// page size.
type PageEvent struct {
	Page int
	Rows int
}

// PostView is the listing subset of a post with HTML reduced to text.
type PostView struct {
	ID          int
	Title       string
	Excerpt     string
	MobileImage string
	Date        string
}

type Pipeline struct {
	client Lister
	sink   messages.Sink
	log    logging.Logger

	mu       sync.Mutex
	pg       Pagination
	posts    []PostView
	loading  bool
	ready    bool
	seq      uint64
	inflight map[uint64]context.CancelFunc
}

type Option func(*Pipeline)

func WithPerPage(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.pg.PerPage = n
		}
	}
}

func WithLocale(l locale.Locale) Option {
	return func(p *Pipeline) { p.pg.Locale = l }
}

func NewPipeline(client Lister, sink messages.Sink, log logging.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:   client,
		sink:     sink,
		log:      log,
		pg:       Pagination{Page: 1, PerPage: DefaultPerPage, Locale: locale.Default},
		inflight: make(map[uint64]context.CancelFunc),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// FetchPage loads the page described by the current pagination state.
// A canceled or superseded fetch returns nil and changes nothing.
func (p *Pipeline) FetchPage(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	q := wordpress.PostQuery{Page: p.pg.Page, PerPage: p.pg.PerPage, Locale: p.pg.Locale}
	ctx, cancel := context.WithCancel(ctx)
	p.inflight[seq] = cancel
	p.loading = true
	p.mu.Unlock()

	page, err := p.client.ListPosts(ctx, q)

	p.mu.Lock()
	delete(p.inflight, seq)
	cancel()

	if seq != p.seq {
		p.mu.Unlock()
		p.log.Debug(ctx, "stale posts response dropped", "page", q.Page, "locale", q.Locale)
		return nil
	}
	if err != nil && errors.Is(err, context.Canceled) {
		p.loading = false
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		p.loading = false
		p.mu.Unlock()
		p.sink.AddMessage(messages.KindError, MsgLoadFailed)
		return fmt.Errorf("load posts page %d: %w", q.Page, err)
	}

	views := make([]PostView, 0, len(page.Posts))
	for _, post := range page.Posts {
		views = append(views, ToView(post))
	}
	p.posts = views
	p.pg.Total = page.Total
	p.pg.TotalPages = page.TotalPages
	p.ready = true
	p.loading = false
	p.mu.Unlock()
	return nil
}

// ChangeLocale switches the listing language. The page goes back to 1
// before the fetch is issued.
func (p *Pipeline) ChangeLocale(ctx context.Context, l locale.Locale) error {
	p.mu.Lock()
	p.pg.Locale = l
	p.pg.Page = 1
	p.mu.Unlock()
	return p.FetchPage(ctx)
}

// HandlePageEvent applies a paginator event and issues exactly one fetch.
func (p *Pipeline) HandlePageEvent(ctx context.Context, ev PageEvent) error {
	if ev.Page < 0 || ev.Rows < 1 {
		return fmt.Errorf("%w: page=%d rows=%d", ErrInvalidPage, ev.Page, ev.Rows)
	}
	p.mu.Lock()
	p.pg.Page = ev.Page + 1
	p.pg.PerPage = ev.Rows
	p.mu.Unlock()
	return p.FetchPage(ctx)
}

// SetPageFromRoute seeds the page from a route parameter without fetching.
// Values below 1 select the first page.
func (p *Pipeline) SetPageFromRoute(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pg.Page = max(page, 1)
}

// Abandon cancels every in-flight fetch. Their results are never applied and
// no message is reported.
func (p *Pipeline) Abandon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for seq, cancel := range p.inflight {
		cancel()
		delete(p.inflight, seq)
	}
	p.seq++
	p.loading = false
}

// DetectPostsReady reports whether any page has loaded successfully. Once
// true it stays true.
func (p *Pipeline) DetectPostsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *Pipeline) Posts() []PostView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PostView(nil), p.posts...)
}

func (p *Pipeline) Pagination() Pagination {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pg
}

func (p *Pipeline) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// ToView maps a post to its listing form. The image falls back from the
// mobile rendition to the featured image to the first image in the content.
func ToView(post wordpress.Post) PostView {
	img := post.MobileImage
	if img == "" {
		img = post.FeaturedImageURL
	}
	if img == "" && post.Content.Rendered != "" {
		img, _ = htmltext.FirstImage(post.Content.Rendered)
	}
	return PostView{
		ID:          post.ID,
		Title:       htmltext.Text(post.Title.Rendered),
		Excerpt:     htmltext.Text(post.Excerpt.Rendered),
		MobileImage: img,
		Date:        post.Date,
	}
}
