// Package token issues and validates the bearer JWTs that gate the demo
// server's admin-only history endpoints. There is exactly one holder of a
// valid token: whoever knows the configured admin secret. Unlike a
// multi-user auth system, a token is not tied to any stored account, so
// validation never needs to reach the DB.
package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer  = "dieselserver"
	subject = "admin"
)

// Generate returns a signed JWT valid for one hour, good for the admin
// identity under signingSecret.
func Generate(signingSecret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signingSecret)
}

// Validate parses and verifies tokStr against signingSecret, returning an
// error if the token is malformed, unsigned, expired, or carries an
// unexpected issuer/subject.
func Validate(tokStr string, signingSecret []byte) error {
	_, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return signingSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer),
		jwt.WithSubject(subject), jwt.WithLeeway(time.Minute))
	return err
}

// Get extracts the bearer token from req's Authorization header.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return tok, nil
}
