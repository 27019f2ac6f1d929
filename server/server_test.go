package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scala-steward/diesel-core/internal/diesel/demo"
	"github.com/scala-steward/diesel-core/server/dao/inmem"
)

const testAdminSecret = "hunter2"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := New(demo.NewEngine(), inmem.NewDatastore(), []byte("01234567890123456789012345678901"), testAdminSecret, 0)
	if err != nil {
		t.Fatalf("constructing server: %s", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %s", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)
	return rec
}

func Test_Server_HandleParse(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/parse", parseRequest{Text: "1 + 2", Axiom: "E"}, "")

	assert.Equal(http.StatusOK, rec.Code)

	var decoded map[string]interface{}
	if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &decoded)) {
		return
	}
	assert.Equal(true, decoded["success"])
	assert.Equal(3.0, decoded["value"])
}

func Test_Server_HandlePredict(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/predict", predictRequest{Text: "1 + ", Offset: 4, Axiom: "E"}, "")

	assert.Equal(http.StatusOK, rec.Code)
}

func Test_Server_HandleInfo(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/info", nil, "")

	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "version")
}

func Test_Server_TokenAndHistoryFlow(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)

	// history is gated without a token
	rec := doJSON(t, srv, http.MethodGet, "/history/", nil, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)

	// wrong admin secret can't get a token
	rec = doJSON(t, srv, http.MethodPost, "/tokens", createTokenRequest{AdminSecret: "wrong"}, "")
	assert.Equal(http.StatusUnauthorized, rec.Code)

	// correct admin secret gets a token
	rec = doJSON(t, srv, http.MethodPost, "/tokens", createTokenRequest{AdminSecret: testAdminSecret}, "")
	if !assert.Equal(http.StatusCreated, rec.Code) {
		return
	}
	var tokResp map[string]string
	if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &tokResp)) {
		return
	}
	tok := tokResp["token"]
	assert.NotEmpty(tok)

	// record a parse so there's something in history
	rec = doJSON(t, srv, http.MethodPost, "/parse", parseRequest{Text: "2 * 3", Axiom: "E"}, "")
	assert.Equal(http.StatusOK, rec.Code)

	// now the token unlocks /history
	rec = doJSON(t, srv, http.MethodGet, "/history/", nil, tok)
	assert.Equal(http.StatusOK, rec.Code)

	var entries []map[string]interface{}
	if !assert.NoError(json.Unmarshal(rec.Body.Bytes(), &entries)) {
		return
	}
	if !assert.Len(entries, 1) {
		return
	}

	id := entries[0]["id"].(string)
	rec = doJSON(t, srv, http.MethodGet, "/history/"+id, nil, tok)
	assert.Equal(http.StatusOK, rec.Code)
}

func Test_Server_HandleGetHistory_badUUID(t *testing.T) {
	assert := assert.New(t)

	srv := newTestServer(t)
	tok, err := newTestToken(t, srv)
	if !assert.NoError(err) {
		return
	}

	rec := doJSON(t, srv, http.MethodGet, "/history/not-a-uuid", nil, tok)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func newTestToken(t *testing.T, srv *Server) (string, error) {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/tokens", createTokenRequest{AdminSecret: testAdminSecret}, "")
	var tokResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &tokResp); err != nil {
		return "", err
	}
	return tokResp["token"], nil
}
