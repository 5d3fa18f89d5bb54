package wordpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/artbook/internal/client/messages"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{401, "Unauthorized request 401. Please, login"},
		{403, "Forbidden 403. Please, login"},
		{404, "HTTP error"},
		{500, "HTTP error"},
		{0, "HTTP error"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestHTTPError_Is(t *testing.T) {
	assert.ErrorIs(t, &HTTPError{Status: 401}, ErrUnauthorized)
	assert.ErrorIs(t, &HTTPError{Status: 403}, ErrUnauthorized)
	assert.ErrorIs(t, &HTTPError{Status: 404}, ErrNotFound)
	assert.ErrorIs(t, &HTTPError{Status: 503}, ErrUnavailable)
	assert.NotErrorIs(t, &HTTPError{Status: 500}, ErrUnauthorized)

	wrapped := fmt.Errorf("load: %w", &HTTPError{Status: 403})
	assert.Equal(t, 403, StatusOf(wrapped))
	assert.Equal(t, 0, StatusOf(errors.New("dial tcp: refused")))
}

func newReq(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://cms.test/wp/v2/posts", nil)
	require.NoError(t, err)
	return req
}

func okInvoker(req *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("[]")), Request: req}, nil
}

func failInvoker(err error) Invoker {
	return func(*http.Request) (*http.Response, error) { return nil, err }
}

func TestErrorInterceptor(t *testing.T) {
	t.Run("reports and returns the original error", func(t *testing.T) {
		q := messages.NewQueue()
		orig := &HTTPError{Status: 401}

		_, err := ErrorInterceptor(q)(newReq(t, context.Background()), failInvoker(orig))

		require.Same(t, orig, err)
		assert.Equal(t, []messages.Message{{Kind: messages.KindError, Text: MsgUnauthorized}}, q.Drain())
	})

	t.Run("forbidden", func(t *testing.T) {
		q := messages.NewQueue()
		_, err := ErrorInterceptor(q)(newReq(t, context.Background()), failInvoker(&HTTPError{Status: 403}))
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, MsgForbidden, q.Drain()[0].Text)
	})

	t.Run("transport failure is a generic error", func(t *testing.T) {
		q := messages.NewQueue()
		_, err := ErrorInterceptor(q)(newReq(t, context.Background()), failInvoker(ErrUnavailable))
		require.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, []messages.Message{{Kind: messages.KindError, Text: MsgHTTPError}}, q.Drain())
	})

	t.Run("cancellation is silent", func(t *testing.T) {
		q := messages.NewQueue()
		_, err := ErrorInterceptor(q)(newReq(t, context.Background()), failInvoker(context.Canceled))
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, q.Drain())
	})

	t.Run("success is silent", func(t *testing.T) {
		q := messages.NewQueue()
		resp, err := ErrorInterceptor(q)(newReq(t, context.Background()), okInvoker)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Empty(t, q.Drain())
	})
}

type fakeTokens struct {
	token string
}

func (f *fakeTokens) Get() (string, bool) { return f.token, f.token != "" }

func TestBearerToken(t *testing.T) {
	var seen http.Header
	capture := func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Clone()
		return okInvoker(req)
	}

	t.Run("token present", func(t *testing.T) {
		_, err := BearerToken(&fakeTokens{token: "abc"})(newReq(t, context.Background()), capture)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", seen.Get("Authorization"))
	})

	t.Run("no token", func(t *testing.T) {
		_, err := BearerToken(&fakeTokens{})(newReq(t, context.Background()), capture)
		require.NoError(t, err)
		assert.Empty(t, seen.Get("Authorization"))
	})

	t.Run("anonymous request", func(t *testing.T) {
		_, err := BearerToken(&fakeTokens{token: "stale"})(newReq(t, Anonymous(context.Background())), capture)
		require.NoError(t, err)
		assert.Empty(t, seen.Get("Authorization"))
	})
}

func TestRequestID(t *testing.T) {
	var got string
	capture := func(req *http.Request) (*http.Response, error) {
		got = req.Header.Get(RequestIDHeader)
		return okInvoker(req)
	}

	_, err := RequestID()(newReq(t, context.Background()), capture)
	require.NoError(t, err)
	_, err = uuid.Parse(got)
	require.NoError(t, err)

	req := newReq(t, context.Background())
	req.Header.Set(RequestIDHeader, "fixed")
	_, err = RequestID()(req, capture)
	require.NoError(t, err)
	assert.Equal(t, "fixed", got)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Interceptor {
		return func(req *http.Request, next Invoker) (*http.Response, error) {
			order = append(order, name+">")
			resp, err := next(req)
			order = append(order, "<"+name)
			return resp, err
		}
	}

	inv := chain(okInvoker, mk("a"), mk("b"))
	_, err := inv(newReq(t, context.Background()))
	require.NoError(t, err)
	assert.Equal(t, []string{"a>", "b>", "<b", "<a"}, order)
}
