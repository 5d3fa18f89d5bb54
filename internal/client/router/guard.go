package router

// TokenSource reports whether a credential is held.
type TokenSource interface {
	Get() (string, bool)
}

// URLTreeBuilder creates redirect targets.
type URLTreeBuilder interface {
	CreateURLTree(commands ...string) URLTree
}

// AuthDirGuard keeps signed-in users away from auth screens (login). A user
// who already holds a credential is sent to the root; anyone else passes.
type AuthDirGuard struct {
	tokens  TokenSource
	builder URLTreeBuilder
}

func NewAuthDirGuard(tokens TokenSource, builder URLTreeBuilder) *AuthDirGuard {
	return &AuthDirGuard{tokens: tokens, builder: builder}
}

// CanActivate ignores target: the redirect is always the root.
func (g *AuthDirGuard) CanActivate(target string) Decision {
	if _, ok := g.tokens.Get(); ok {
		tree := g.builder.CreateURLTree("")
		return Decision{Redirect: &tree}
	}
	return Decision{Allow: true}
}

var _ Guard = (*AuthDirGuard)(nil)
