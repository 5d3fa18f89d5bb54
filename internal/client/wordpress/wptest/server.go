// Package wptest runs an in-process fake of the WordPress REST API for
// tests: JWT credential exchange, users/me, paginated posts with
// X-WP-Total headers, countries and custom-field updates.
package wptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/artbook/internal/client/wordpress"
)

type account struct {
	password string
	user     wordpress.User
}

type storedPost struct {
	lang string
	post wordpress.Post
}

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// Server is a fake CMS. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	secret    []byte
	ttl       time.Duration
	accounts  map[string]account
	posts     []storedPost
	countries []wordpress.Post
	failures  map[string][]int
	requests  []Request
	hook      func(*http.Request)
}

// New starts a fake CMS. Close it when done.
func New() *Server {
	s := &Server{
		secret:   []byte("wptest-secret"),
		ttl:      time.Hour,
		accounts: make(map[string]account),
		failures: make(map[string][]int),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/jwt-auth/v1/token", s.handleToken)
	r.Route("/wp/v2", func(r chi.Router) {
		r.With(s.requireAuth).Get("/users/me", s.handleMe)
		r.Get("/posts", s.handleListPosts)
		r.With(s.requireAuth).Post("/posts/{id}", s.handleUpdatePost)
		r.Get("/countries", s.handleCountries)
	})
	return r
}

// AddUser registers credentials that the token endpoint will accept.
func (s *Server) AddUser(username, password string, u wordpress.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = account{password: password, user: u}
}

// AddPost stores p under lang. An empty lang is returned for every locale.
func (s *Server) AddPost(lang string, p wordpress.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, storedPost{lang: lang, post: p})
}

func (s *Server) AddCountry(p wordpress.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries = append(s.countries, p)
}

// Post returns the stored post with id.
func (s *Server) Post(id int) (wordpress.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.posts {
		if sp.post.ID == id {
			return sp.post, true
		}
	}
	return wordpress.Post{}, false
}

// Fail makes the next request matching method and path pattern (e.g.
// "GET /wp/v2/posts") answer with status. Calls queue up.
func (s *Server) Fail(method, pattern string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + pattern
	s.failures[key] = append(s.failures[key], status)
}

// OnRequest installs fn to run before every request is handled. Tests use
// it to hold a request in flight.
func (s *Server) OnRequest(fn func(*http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

// Requests returns the requests seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Token issues a valid credential for userID.
func (s *Server) Token(userID int) string {
	t, err := generateToken(userID, s.URL, s.secret, s.ttl)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		hook := s.hook
		s.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		if status, ok := s.takeFailure(r); ok {
			writeError(w, status, "wptest_forced", http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) takeFailure(r *http.Request) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path
	if strings.HasPrefix(path, "/wp/v2/posts/") {
		path = "/wp/v2/posts/{id}"
	}
	key := r.Method + " " + path
	queue := s.failures[key]
	if len(queue) == 0 {
		return 0, false
	}
	s.failures[key] = queue[1:]
	return queue[0], true
}

type ctxUserKey struct{}

// requireAuth mimics the JWT plugin: a missing header is 401, a bad token
// is 403.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			writeError(w, http.StatusUnauthorized, "rest_not_logged_in", "You are not currently logged in.")
			return
		}
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			writeError(w, http.StatusForbidden, "jwt_auth_bad_auth_header", "Authorization header malformed.")
			return
		}
		id, err := userIDFromToken(token, s.secret)
		if err != nil {
			writeError(w, http.StatusForbidden, "jwt_auth_invalid_token", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), id)))
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "jwt_auth_bad_request", err.Error())
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[in.Username]
	s.mu.Unlock()
	if !ok || acc.password != in.Password {
		writeJSON(w, http.StatusForbidden, wordpress.AuthResponse{
			Code:       "jwt_auth_failed",
			Message:    "Wrong user credentials.",
			StatusCode: http.StatusForbidden,
		})
		return
	}

	token, err := generateToken(acc.user.ID, s.URL, s.secret, s.ttl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "jwt_auth_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wordpress.AuthResponse{
		Code:       "jwt_auth_valid_credential",
		Message:    "Credential is valid",
		StatusCode: http.StatusOK,
		Success:    true,
		Data: wordpress.AuthData{
			Token:       token,
			DisplayName: acc.user.Name,
			Email:       acc.user.Email,
			ID:          acc.user.ID,
			Nicename:    acc.user.Slug,
		},
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			writeJSON(w, http.StatusOK, profileBody(acc.user))
			return
		}
	}
	writeError(w, http.StatusNotFound, "rest_user_invalid_id", "Invalid user ID.")
}

func profileBody(u wordpress.User) map[string]any {
	body := map[string]any{}
	for k, v := range u.Extra {
		body[k] = v
	}
	body["id"] = u.ID
	body["name"] = u.Name
	body["description"] = u.Description
	body["slug"] = u.Slug
	body["email"] = u.Email
	body["avatar_urls"] = u.AvatarURLs
	return body
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intParam(q, "page", 1)
	perPage := intParam(q, "per_page", 10)
	if page < 1 || perPage < 1 || perPage > 100 {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "Invalid parameter(s): page, per_page")
		return
	}
	lang := q.Get("lang")
	var cats []int
	for _, c := range strings.Split(q.Get("categories"), ",") {
		if id, err := strconv.Atoi(c); err == nil {
			cats = append(cats, id)
		}
	}

	s.mu.Lock()
	var matched []wordpress.Post
	for _, sp := range s.posts {
		if lang != "" && sp.lang != "" && sp.lang != lang {
			continue
		}
		if len(cats) > 0 && !slices.ContainsFunc(sp.post.Categories, func(c int) bool { return slices.Contains(cats, c) }) {
			continue
		}
		matched = append(matched, sp.post)
	}
	s.mu.Unlock()

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	if page > 1 && page > totalPages {
		writeError(w, http.StatusBadRequest, "rest_post_invalid_page_number",
			"The page number requested is larger than the number of pages available.")
		return
	}

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	w.Header().Set("X-WP-Total", strconv.Itoa(total))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))
	writeJSON(w, http.StatusOK, nonNil(matched[start:end]))
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
		return
	}
	var in struct {
		ACF wordpress.ACF `json:"acf"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		p := &s.posts[i].post
		if p.ID != id {
			continue
		}
		if p.ACF == nil {
			p.ACF = wordpress.ACF{}
		}
		for k, v := range in.ACF {
			p.ACF[k] = v
		}
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeError(w, http.StatusNotFound, "rest_post_invalid_id", "Invalid post ID.")
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []wordpress.Post{}
	for _, c := range s.countries {
		if slug == "" || c.Slug == slug {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
