package wordpress_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artbook/internal/client/locale"
	"github.com/dmitrijs2005/artbook/internal/client/messages"
	"github.com/dmitrijs2005/artbook/internal/client/tokens"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
	"github.com/dmitrijs2005/artbook/internal/client/wordpress/wptest"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

type fixture struct {
	srv    *wptest.Server
	client *wordpress.HTTPClient
	tokens *tokens.MemoryStore
	msgs   *messages.Queue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := wptest.New()
	t.Cleanup(srv.Close)

	f := &fixture{srv: srv, tokens: tokens.NewMemoryStore(), msgs: messages.NewQueue()}
	c, err := wordpress.New(srv.URL,
		wordpress.WithInterceptors(
			wordpress.RequestID(),
			wordpress.Logging(logging.Nop()),
			wordpress.BearerToken(f.tokens),
			wordpress.ErrorInterceptor(f.msgs),
		),
	)
	require.NoError(t, err)
	f.client = c
	return f
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := wordpress.New("/wp-json")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("ann", "secret", wordpress.User{ID: 7, Name: "Ann", Slug: "ann"})

	t.Run("ok", func(t *testing.T) {
		resp, err := f.client.Login(context.Background(), "ann", "secret")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, 7, resp.Data.ID)
		assert.Empty(t, f.msgs.Drain())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.client.Login(context.Background(), "ann", "nope")
		require.ErrorIs(t, err, wordpress.ErrUnauthorized)
		assert.Equal(t, 403, wordpress.StatusOf(err))
		assert.Equal(t, []messages.Message{{Kind: messages.KindError, Text: wordpress.MsgForbidden}}, f.msgs.Drain())
	})

	t.Run("stale token is not sent", func(t *testing.T) {
		require.NoError(t, f.tokens.Set(context.Background(), "stale"))
		_, err := f.client.Login(context.Background(), "ann", "secret")
		require.NoError(t, err)

		reqs := f.srv.Requests()
		assert.Empty(t, reqs[len(reqs)-1].Header.Get("Authorization"))
	})
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("ann", "secret", wordpress.User{
		ID: 7, Name: "Ann", Slug: "ann",
		Extra: map[string]any{"locale": "en_US"},
	})

	_, err := f.client.CurrentUser(context.Background())
	require.ErrorIs(t, err, wordpress.ErrUnauthorized)
	assert.Equal(t, wordpress.MsgUnauthorized, f.msgs.Drain()[0].Text)

	require.NoError(t, f.tokens.Set(context.Background(), f.srv.Token(7)))
	u, err := f.client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "en_US", u.Extra["locale"])

	reqs := f.srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "edit", last.Query.Get("context"))
	assert.NotEmpty(t, last.Header.Get(wordpress.RequestIDHeader))
}

func TestListPosts(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 7; i++ {
		f.srv.AddPost("en", wordpress.Post{ID: i, Title: wordpress.Rendered{Rendered: "post"}})
	}
	f.srv.AddPost("ru", wordpress.Post{ID: 100})

	page, err := f.client.ListPosts(context.Background(), wordpress.PostQuery{Page: 2, PerPage: 5, Locale: locale.English})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, 6, page.Posts[0].ID)

	reqs := f.srv.Requests()
	q := reqs[len(reqs)-1].Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("per_page"))
	assert.Equal(t, "en", q.Get("lang"))

	_, err = f.client.ListPosts(context.Background(), wordpress.PostQuery{Page: 9, PerPage: 5, Locale: locale.English})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, wordpress.StatusOf(err))
	assert.Equal(t, wordpress.MsgHTTPError, f.msgs.Drain()[0].Text)
}

func TestListPosts_Categories(t *testing.T) {
	f := newFixture(t)
	f.srv.AddPost("", wordpress.Post{ID: 1, Categories: []int{43}})
	f.srv.AddPost("", wordpress.Post{ID: 2, Categories: []int{1}})

	page, err := f.client.ListPosts(context.Background(), wordpress.PostQuery{PerPage: 100, Categories: []int{43}})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, 1, page.Posts[0].ID)
}

func TestListPosts_Canceled(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	f.srv.OnRequest(func(r *http.Request) {
		once.Do(cancel)
		<-r.Context().Done()
	})

	_, err := f.client.ListPosts(ctx, wordpress.PostQuery{Page: 1, PerPage: 5})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.msgs.Drain())
}

func TestCountries(t *testing.T) {
	f := newFixture(t)
	f.srv.AddCountry(wordpress.Post{ID: 1, Slug: "usa", Title: wordpress.Rendered{Rendered: "USA"}})
	f.srv.AddCountry(wordpress.Post{ID: 2, Slug: "france"})

	all, err := f.client.Countries(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	c, err := f.client.Country(context.Background(), "usa")
	require.NoError(t, err)
	assert.Equal(t, "USA", c.Title.Rendered)

	_, err = f.client.Country(context.Background(), "nowhere")
	require.ErrorIs(t, err, wordpress.ErrNotFound)
}

func TestUpdateFields(t *testing.T) {
	f := newFixture(t)
	f.srv.AddPost("", wordpress.Post{ID: 5, ACF: wordpress.ACF{"like": "false", "country": "USA"}})
	require.NoError(t, f.tokens.Set(context.Background(), f.srv.Token(1)))

	p, err := f.client.UpdateFields(context.Background(), 5, wordpress.ACF{"like": "false", "country": "USA"}.WithLike(true))
	require.NoError(t, err)
	assert.True(t, p.ACF.Like())
	assert.Equal(t, "USA", p.ACF.Country())

	stored, ok := f.srv.Post(5)
	require.True(t, ok)
	assert.True(t, stored.ACF.Like())
}

func TestACF_Like(t *testing.T) {
	assert.True(t, wordpress.ACF{"like": "true"}.Like())
	assert.True(t, wordpress.ACF{"like": true}.Like())
	assert.False(t, wordpress.ACF{"like": "false"}.Like())
	assert.False(t, wordpress.ACF{}.Like())

	orig := wordpress.ACF{"like": "false"}
	_ = orig.WithLike(true)
	assert.Equal(t, "false", orig["like"])
}
