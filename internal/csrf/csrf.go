package csrf

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

const (
	cookieName = "csrf_token"
	headerName = "X-CSRF-Token"
)

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

var (
	errMissingToken = errors.New("missing CSRF token")
	errInvalidToken = errors.New("invalid CSRF token")
)

// Protect returns a middleware applying the double-submit cookie pattern.
// Safe methods get a csrf_token cookie (JS-readable); mutating methods
// must echo it back in the X-CSRF-Token header. Requests whose path starts
// with one of exemptPrefixes bypass the check, for endpoints driven by
// non-browser clients.
func Protect(exemptPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethods[r.Method] {
				if err := issueToken(w, r); err != nil {
					http.Error(w, "Internal error", http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			for _, prefix := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if err := verify(r); err != nil {
				http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// issueToken makes sure the browser holds a token cookie.
func issueToken(w http.ResponseWriter, r *http.Request) error {
	if _, err := r.Cookie(cookieName); err == nil {
		return nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    hex.EncodeToString(b),
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// verify checks the header echo against the cookie value.
func verify(r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return errMissingToken
	}
	if sent := r.Header.Get(headerName); sent == "" || sent != cookie.Value {
		return errInvalidToken
	}
	return nil
}
