package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/artbook/internal/client/artists"
	"github.com/dmitrijs2005/artbook/internal/client/auth"
	"github.com/dmitrijs2005/artbook/internal/client/config"
	"github.com/dmitrijs2005/artbook/internal/client/locale"
	"github.com/dmitrijs2005/artbook/internal/client/messages"
	"github.com/dmitrijs2005/artbook/internal/client/posts"
	"github.com/dmitrijs2005/artbook/internal/client/router"
	"github.com/dmitrijs2005/artbook/internal/client/session"
	"github.com/dmitrijs2005/artbook/internal/client/storage"
	"github.com/dmitrijs2005/artbook/internal/client/store"
	"github.com/dmitrijs2005/artbook/internal/client/tokens"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

// Screen routes.
const (
	routeHome    = ""
	routeLogin   = "login"
	routePosts   = "posts"
	routeArtists = "artists"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	tokens  tokens.Store
	msgs    *messages.Queue
	store   *store.Store
	router  *router.Router
	auth    auth.AuthService
	posts   *posts.Pipeline
	artists *artists.Dashboard

	reader *bufio.Reader
	out    io.Writer

	mu          sync.Mutex
	inputLocked bool
}

// NewApp opens the local database, restores the stored credential and wires
// every component against the CMS at c.APIURL.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ts, err := tokens.Open(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := newApp(c, log, ts, &http.Client{Timeout: c.RequestTimeout})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, ts tokens.Store, hc *http.Client) (*App, error) {
	loc, err := locale.Parse(c.Locale)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		tokens: ts,
		msgs:   messages.NewQueue(),
		store:  store.New(store.WithLogger(log), store.WithSession(ts)),
		router: router.New(),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	wp, err := wordpress.New(c.APIURL,
		wordpress.WithHTTPClient(hc),
		wordpress.WithInterceptors(
			wordpress.RequestID(),
			wordpress.Logging(log.With("component", "wordpress")),
			wordpress.BearerToken(ts),
			wordpress.ErrorInterceptor(a.msgs),
		),
	)
	if err != nil {
		return nil, err
	}

	a.router.Handle(routeHome)
	a.router.Handle(routeLogin, router.NewAuthDirGuard(ts, a.router))
	a.router.Handle(routePosts + "/:page")
	a.router.Handle(routeArtists)

	a.auth = auth.NewAuthService(wp, ts, a.store, a.router)
	session.NewUserEffects(wp, ts, log.With("component", "session")).Register(a.store)

	a.posts = posts.NewPipeline(wp, a.msgs, log.With("component", "posts"),
		posts.WithPerPage(c.PageSize), posts.WithLocale(loc))
	a.artists = artists.NewDashboard(wp, a.msgs, a, log.With("component", "artists"),
		artists.WithCategory(c.ArtistsCategory), artists.WithLocale(loc))

	a.router.OnNavigate(func(t router.URLTree, p router.Params) {
		if raw, ok := p["page"]; ok {
			n, _ := strconv.Atoi(raw)
			a.posts.SetPageFromRoute(n)
		}
	})
	return a, nil
}

// Disable and Enable make App the artists input surface: commands that
// change artists are refused while an update is in flight.
func (a *App) Disable() {
	a.mu.Lock()
	a.inputLocked = true
	a.mu.Unlock()
}

func (a *App) Enable() {
	a.mu.Lock()
	a.inputLocked = false
	a.mu.Unlock()
}

func (a *App) locked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inputLocked
}

func (a *App) isLoggedIn() bool {
	return a.auth.Authenticated()
}

// flushMessages prints everything queued since the last command.
func (a *App) flushMessages() {
	a.msgs.Flush(a.out)
}

// Run hydrates the session, then serves the REPL on stdin until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to artbook (type 'help' for commands)")
	a.store.Dispatch(ctx, store.LoadUser{})
	a.store.Wait()
	a.flushMessages()

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close abandons in-flight fetches and releases the database.
func (a *App) Close() error {
	a.posts.Abandon()
	a.store.Wait()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) status() string {
	s := a.router.Current().String()
	if u := a.store.User(); u != nil {
		s = u.Name + " " + s
	}
	return s
}
