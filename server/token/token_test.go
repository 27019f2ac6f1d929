package token

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_Generate_Validate_roundTrip(t *testing.T) {
	assert := assert.New(t)

	tok, err := Generate(testSecret)
	if !assert.NoError(err) {
		return
	}
	assert.NotEmpty(tok)
	assert.NoError(Validate(tok, testSecret))
}

func Test_Validate_wrongSecret(t *testing.T) {
	assert := assert.New(t)

	tok, err := Generate(testSecret)
	if !assert.NoError(err) {
		return
	}

	assert.Error(Validate(tok, []byte("some-other-secret-some-other-secret")))
}

func Test_Validate_expired(t *testing.T) {
	assert := assert.New(t)

	claims := &jwt.MapClaims{
		"iss": issuer,
		"sub": subject,
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(testSecret)
	if !assert.NoError(err) {
		return
	}

	assert.Error(Validate(signed, testSecret))
}

func Test_Validate_wrongSubject(t *testing.T) {
	assert := assert.New(t)

	claims := &jwt.MapClaims{
		"iss": issuer,
		"sub": "not-admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(testSecret)
	if !assert.NoError(err) {
		return
	}

	assert.Error(Validate(signed, testSecret))
}

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		expect    string
		expectErr bool
	}{
		{name: "valid bearer", header: "Bearer abc123", expect: "abc123"},
		{name: "case-insensitive scheme", header: "bearer abc123", expect: "abc123"},
		{name: "missing header", header: "", expectErr: true},
		{name: "wrong scheme", header: "Basic abc123", expectErr: true},
		{name: "no token", header: "Bearer", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			req, err := http.NewRequest(http.MethodGet, "/", nil)
			if !assert.NoError(err) {
				return
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			tok, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, tok)
		})
	}
}
