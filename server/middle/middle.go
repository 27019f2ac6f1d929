// Package middle contains middleware for use with the diesel demo server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/scala-steward/diesel-core/server/result"
	"github.com/scala-steward/diesel-core/server/token"
)

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
)

// AuthHandler is middleware that extracts the bearer token from a request
// and validates it against secret, without consulting any store: the only
// identity this server recognizes is whoever holds a token signed with
// secret.
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool

	tok, err := token.Get(req)
	if err == nil {
		err = token.Validate(tok, ah.secret)
		if err == nil {
			loggedIn = true
		}
	}

	if !loggedIn && ah.required {
		res := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		res.WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth returns Middleware that rejects any request without a valid
// token signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: true, next: next}
	}
}

// OptionalAuth returns Middleware that annotates the request context with
// AuthLoggedIn but never rejects a request for lacking a valid token.
func OptionalAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: false, next: next}
	}
}
