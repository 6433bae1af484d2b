package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/ghaggin/eduarchive/internal/model"
)

const (
	TokenCookie = "auth-token"
	// RoleCookie is a plaintext copy of the token's role. The route gate reads
	// it to avoid verifying a signature on every request. It is advisory only:
	// anything that grants access must verify TokenCookie instead.
	RoleCookie = "user-role"

	cookieMaxAge = int(TokenTTL / time.Second)
)

// Binder writes and clears the session cookies.
type Binder struct {
	secure bool
}

func NewBinder(secure bool) *Binder {
	return &Binder{secure: secure}
}

// Bind sets the token and role cookies. Both are always written together from
// the same session so they cannot drift apart.
func (b *Binder) Bind(w http.ResponseWriter, token string, s *model.Session) http.ResponseWriter {
	role := ""
	if s != nil {
		role = string(s.Role)
	}

	setCookie(w, b.cookie(TokenCookie, token, cookieMaxAge))
	setCookie(w, b.cookie(RoleCookie, role, cookieMaxAge))
	return w
}

// Unbind expires both cookies immediately.
func (b *Binder) Unbind(w http.ResponseWriter) http.ResponseWriter {
	setCookie(w, b.cookie(TokenCookie, "", -1))
	setCookie(w, b.cookie(RoleCookie, "", -1))
	return w
}

func (b *Binder) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// setCookie replaces any Set-Cookie already queued for the same name.
func setCookie(w http.ResponseWriter, c *http.Cookie) {
	h := w.Header()
	prefix := c.Name + "="

	existing := h.Values("Set-Cookie")
	kept := existing[:0:0]
	for _, v := range existing {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		h.Del("Set-Cookie")
	} else {
		h["Set-Cookie"] = kept
	}

	http.SetCookie(w, c)
}
