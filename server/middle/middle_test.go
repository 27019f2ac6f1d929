package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scala-steward/diesel-core/server/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func passthrough() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		loggedIn, _ := req.Context().Value(AuthLoggedIn).(bool)
		if loggedIn {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusTeapot)
		}
	})
}

func Test_RequireAuth_validToken(t *testing.T) {
	assert := assert.New(t)

	tok, err := token.Generate(testSecret)
	if !assert.NoError(err) {
		return
	}

	handler := RequireAuth(testSecret, 0)(passthrough())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(http.StatusOK, rec.Code)
}

func Test_RequireAuth_missingToken(t *testing.T) {
	assert := assert.New(t)

	handler := RequireAuth(testSecret, 0)(passthrough())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_wrongSecret(t *testing.T) {
	assert := assert.New(t)

	tok, err := token.Generate([]byte("some-other-secret-some-other-secret"))
	if !assert.NoError(err) {
		return
	}

	handler := RequireAuth(testSecret, 0)(passthrough())

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_OptionalAuth_neverRejects(t *testing.T) {
	assert := assert.New(t)

	handler := OptionalAuth(testSecret, 0)(passthrough())

	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(http.StatusTeapot, rec.Code)
}

func Test_OptionalAuth_marksLoggedInWithValidToken(t *testing.T) {
	assert := assert.New(t)

	tok, err := token.Generate(testSecret)
	if !assert.NoError(err) {
		return
	}

	handler := OptionalAuth(testSecret, 0)(passthrough())

	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(http.StatusOK, rec.Code)
}
