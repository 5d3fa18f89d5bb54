package wptest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
)

func contextWithUser(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, id)
}

func userFromContext(ctx context.Context) int {
	id, _ := ctx.Value(ctxUserKey{}).(int)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": msg,
		"data":    map[string]int{"status": status},
	})
}

func intParam(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func nonNil(p []wordpress.Post) []wordpress.Post {
	if p == nil {
		return []wordpress.Post{}
	}
	return p
}
