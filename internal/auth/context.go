package auth

import (
	"context"
	"net/http"

	"github.com/ghaggin/eduarchive/internal/model"
)

type sessionContextKey struct{}

func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func SessionFromContext(ctx context.Context) *model.Session {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(sessionContextKey{}).(*model.Session)
	return s
}

// TokenFromRequest returns the raw auth-token cookie value, or "".
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// CurrentSession returns the verified session for r. A session already placed
// in the context by RequireSession wins; otherwise the token cookie is
// verified on the spot.
func CurrentSession(r *http.Request, v Verifier) *model.Session {
	if s := SessionFromContext(r.Context()); s != nil {
		return s
	}
	if v == nil {
		return nil
	}
	return v.Verify(TokenFromRequest(r))
}
