package wordpress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/artbook/internal/client/messages"
	"github.com/dmitrijs2005/artbook/internal/logging"
)

// Invoker performs one HTTP exchange. The request context carries
// cancellation and deadlines.
type Invoker func(req *http.Request) (*http.Response, error)

// Interceptor runs around every outbound request. It may modify req before
// calling next and may inspect or replace the result.
type Interceptor func(req *http.Request, next Invoker) (*http.Response, error)

// chain composes interceptors so that the first one is outermost.
func chain(base Invoker, interceptors ...Interceptor) Invoker {
	inv := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], inv
		inv = func(req *http.Request) (*http.Response, error) {
			return ic(req, next)
		}
	}
	return inv
}

const (
	MsgUnauthorized = "Unauthorized request 401. Please, login"
	MsgForbidden    = "Forbidden 403. Please, login"
	MsgHTTPError    = "HTTP error"
)

// Classify maps an HTTP status to the user-facing message reported for it.
// Status 0 stands for a transport failure with no response.
func Classify(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusForbidden:
		return MsgForbidden
	default:
		return MsgHTTPError
	}
}

// ClassifiedError is the reportable form of a failed request.
type ClassifiedError struct {
	Status  int
	Message string
}

// ClassifyError reports whether err is a reportable failure and how it
// classifies. Cancellation is not a failure.
func ClassifyError(err error) (ClassifiedError, bool) {
	if err == nil || errors.Is(err, context.Canceled) {
		return ClassifiedError{}, false
	}
	status := StatusOf(err)
	return ClassifiedError{Status: status, Message: Classify(status)}, true
}

// ErrorInterceptor forwards every failed request to sink as an error message
// and returns the failure unchanged, so the caller still sees it.
func ErrorInterceptor(sink messages.Sink) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		resp, err := next(req)
		if ce, ok := ClassifyError(err); ok {
			sink.AddMessage(messages.KindError, ce.Message)
		}
		return resp, err
	}
}

// TokenSource yields the current bearer credential.
type TokenSource interface {
	Get() (string, bool)
}

type anonymousKey struct{}

// Anonymous marks ctx so that BearerToken leaves the request unauthenticated.
// The JWT plugin rejects a credential exchange that carries a stale token.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// BearerToken attaches "Authorization: Bearer <token>" when src holds a
// credential. The token is read per request.
func BearerToken(src TokenSource) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if isAnonymous(req.Context()) {
			return next(req)
		}
		if token, ok := src.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return next(req)
	}
}

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with a fresh UUID unless one is already set.
func RequestID() Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next(req)
	}
}

// Logging records method, path, status and latency of every request.
func Logging(log logging.Logger) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		ctx := req.Context()
		start := time.Now()
		resp, err := next(req)

		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get(RequestIDHeader),
			"elapsed", time.Since(start),
		}
		switch {
		case err == nil:
			log.Debug(ctx, "request done", append(args, "status", resp.StatusCode)...)
		case errors.Is(err, context.Canceled):
			log.Debug(ctx, "request canceled", args...)
		default:
			log.Warn(ctx, "request failed", append(args, "status", StatusOf(err), "error", err)...)
		}
		return resp, err
	}
}
