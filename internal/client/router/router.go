// Package router tracks the active screen of the client and gates
// navigation with guards.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrNoRoute      = errors.New("no route")
	ErrRedirectLoop = errors.New("too many redirects")
)

const maxRedirects = 8

// URLTree is a parsed navigation target. The root is a single empty segment.
type URLTree struct {
	Segments []string
}

func (t URLTree) String() string {
	return "/" + strings.Join(t.Segments, "/")
}

// Equal reports whether t and o point at the same location.
func (t URLTree) Equal(o URLTree) bool {
	return t.String() == o.String()
}

// Params are the values bound to ":name" segments of a route.
type Params map[string]string

// Decision is a guard verdict. When Allow is false, Redirect names where to
// go instead.
type Decision struct {
	Allow    bool
	Redirect *URLTree
}

// Guard decides whether target may be activated.
type Guard interface {
	CanActivate(target string) Decision
}

type Route struct {
	Path   string
	Guards []Guard
}

type Router struct {
	mu      sync.Mutex
	routes  []Route
	current URLTree
	params  Params
	onNav   []func(URLTree, Params)
}

func New() *Router {
	return &Router{current: URLTree{Segments: []string{""}}}
}

// Handle registers path (e.g. "posts/:page") with optional guards.
func (r *Router) Handle(path string, guards ...Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, Route{Path: strings.Trim(path, "/"), Guards: guards})
}

// OnNavigate registers fn to run after every completed navigation.
func (r *Router) OnNavigate(fn func(URLTree, Params)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onNav = append(r.onNav, fn)
}

// CreateURLTree builds a tree from commands. Each command may itself contain
// slashes; "" and "/" denote the root.
func (r *Router) CreateURLTree(commands ...string) URLTree {
	var segs []string
	for _, c := range commands {
		for _, s := range strings.Split(strings.Trim(c, "/"), "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	if len(segs) == 0 {
		segs = []string{""}
	}
	return URLTree{Segments: segs}
}

// Navigate activates the route for commands, following guard redirects.
// It returns where navigation ended.
func (r *Router) Navigate(commands ...string) (URLTree, error) {
	target := r.CreateURLTree(commands...)

	for i := 0; i < maxRedirects; i++ {
		route, params, ok := r.match(target)
		if !ok {
			return r.Current(), fmt.Errorf("%w: %s", ErrNoRoute, target)
		}

		redirect := checkGuards(route.Guards, target.String())
		if redirect != nil {
			target = *redirect
			continue
		}

		r.mu.Lock()
		r.current, r.params = target, params
		listeners := append([]func(URLTree, Params){}, r.onNav...)
		r.mu.Unlock()

		for _, fn := range listeners {
			fn(target, params)
		}
		return target, nil
	}
	return r.Current(), ErrRedirectLoop
}

func checkGuards(guards []Guard, target string) *URLTree {
	for _, g := range guards {
		d := g.CanActivate(target)
		if d.Allow {
			continue
		}
		if d.Redirect != nil {
			return d.Redirect
		}
		root := URLTree{Segments: []string{""}}
		return &root
	}
	return nil
}

func (r *Router) match(t URLTree) (Route, Params, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	segs := t.Segments
	if len(segs) == 1 && segs[0] == "" {
		segs = nil
	}
	for _, rt := range r.routes {
		var pattern []string
		if rt.Path != "" {
			pattern = strings.Split(rt.Path, "/")
		}
		if len(pattern) != len(segs) {
			continue
		}
		params := Params{}
		ok := true
		for i, p := range pattern {
			if name, isParam := strings.CutPrefix(p, ":"); isParam {
				params[name] = segs[i]
				continue
			}
			if p != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

func (r *Router) Current() URLTree {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Param returns a parameter of the current route.
func (r *Router) Param(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.params[name]
	return v, ok
}
