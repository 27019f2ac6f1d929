// Package server exposes a diesel Engine over HTTP: POST /parse and POST
// /predict are open to anyone, while GET /history and GET /history/{id}
// require a bearer token obtained from POST /tokens by presenting the
// configured admin secret.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scala-steward/diesel-core/internal/diesel"
	"github.com/scala-steward/diesel-core/internal/version"
	"github.com/scala-steward/diesel-core/server/dao"
	"github.com/scala-steward/diesel-core/server/middle"
	"github.com/scala-steward/diesel-core/server/result"
	"github.com/scala-steward/diesel-core/server/serr"
	"github.com/scala-steward/diesel-core/server/token"
)

// Server is an HTTP REST server that exposes one diesel Engine's Parse and
// Predict operations, along with a history of past parses. The zero-value
// of a Server should not be used directly; call New to get one ready for
// use.
type Server struct {
	mux           chi.Router
	eng           *diesel.Engine
	db            dao.Store
	jwtSecret     []byte
	adminHash     []byte
	unauthedDelay time.Duration
}

// New creates a new Server that drives eng and persists parse history to
// db. adminSecret is bcrypt-hashed immediately and never retained in the
// clear.
func New(eng *diesel.Engine, db dao.Store, jwtSecret []byte, adminSecret string, unauthedDelay time.Duration) (*Server, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminSecret), 12)
	if err != nil {
		return nil, fmt.Errorf("hash admin secret: %w", err)
	}

	s := &Server{
		eng:           eng,
		db:            db,
		jwtSecret:     jwtSecret,
		adminHash:     adminHash,
		unauthedDelay: unauthedDelay,
	}
	s.mux = s.newRouter()
	return s, nil
}

// ServeForever begins listening on the given address and port for HTTP
// requests. If address is "", it defaults to "localhost". If port is less
// than 1, it defaults to 8080.
func (s *Server) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, s.mux))
}

func (s *Server) newRouter() chi.Router {
	r := chi.NewRouter()

	reqAuth := middle.RequireAuth(s.jwtSecret, s.unauthedDelay)

	r.Post("/parse", s.handleParse())
	r.Post("/predict", s.handlePredict())
	r.Post("/tokens", s.handleCreateToken())
	r.Get("/info", s.handleInfo())

	r.Route("/history", func(r chi.Router) {
		r.Use(reqAuth)
		r.Get("/", s.handleListHistory())
		r.Get("/{id}", s.handleGetHistory())
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(s.unauthedDelay)
		result.MethodNotAllowed(req).WriteResponse(w)
	})

	return r
}

func decodeJSON(req *http.Request, v interface{}) error {
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		return serr.New(err.Error(), serr.ErrBodyUnmarshal)
	}
	return nil
}

type parseRequest struct {
	Text  string `json:"text"`
	Axiom string `json:"axiom"`
}

func (s *Server) handleParse() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body parseRequest
		if err := decodeJSON(req, &body); err != nil {
			result.BadRequest(err.Error(), "%v", err).WriteResponse(w)
			return
		}

		pr, err := s.eng.Parse(body.Text, body.Axiom)
		if err != nil {
			result.BadRequest(err.Error(), "parse: %v", err).WriteResponse(w)
			return
		}

		entry := dao.Entry{
			Axiom:       body.Axiom,
			Text:        body.Text,
			Success:     pr.Success,
			Ambiguous:   pr.Tree != nil && pr.Tree.Root != nil && pr.Tree.Root.Ambiguity.WasAmbiguous(),
			MarkerCount: len(pr.Markers),
			StyleCount:  len(pr.Styles),
		}
		if stored, err := s.db.History().Create(req.Context(), entry); err == nil {
			entry = stored
		} else {
			log.Printf("WARN  could not record parse history: %v", err)
		}

		result.OK(map[string]interface{}{
			"id":      entry.ID,
			"success": pr.Success,
			"markers": pr.Markers,
			"styles":  pr.Styles,
			"value":   pr.Value,
		}, "parsed axiom %q", body.Axiom).WriteResponse(w)
	}
}

type predictRequest struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Axiom  string `json:"axiom"`
}

func (s *Server) handlePredict() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body predictRequest
		if err := decodeJSON(req, &body); err != nil {
			result.BadRequest(err.Error(), "%v", err).WriteResponse(w)
			return
		}

		pr, err := s.eng.Predict(body.Text, body.Offset, body.Axiom)
		if err != nil {
			result.BadRequest(err.Error(), "predict: %v", err).WriteResponse(w)
			return
		}

		result.OK(map[string]interface{}{
			"success":   pr.Success,
			"proposals": pr.Proposals,
		}, "predicted completions at offset %d", body.Offset).WriteResponse(w)
	}
}

type createTokenRequest struct {
	AdminSecret string `json:"admin_secret"`
}

func (s *Server) handleCreateToken() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body createTokenRequest
		if err := decodeJSON(req, &body); err != nil {
			result.BadRequest(err.Error(), "%v", err).WriteResponse(w)
			return
		}

		if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(body.AdminSecret)); err != nil {
			time.Sleep(s.unauthedDelay)
			result.Unauthorized("", "token request: %v", serr.ErrUnauthorized).WriteResponse(w)
			return
		}

		tok, err := token.Generate(s.jwtSecret)
		if err != nil {
			result.InternalServerError("generate token: %v", err).WriteResponse(w)
			return
		}

		result.Created(map[string]string{"token": tok}, "issued admin token").WriteResponse(w)
	}
}

func (s *Server) handleListHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		limit := 50
		if raw := req.URL.Query().Get("limit"); raw != "" {
			var n int
			if _, err := fmt.Sscanf(raw, "%d", &n); err == nil && n > 0 {
				limit = n
			}
		}

		entries, err := s.db.History().GetRecent(req.Context(), limit)
		if err != nil {
			result.InternalServerError("list history: %v", err).WriteResponse(w)
			return
		}

		result.OK(entries, "retrieved %d history entries", len(entries)).WriteResponse(w)
	}
}

func (s *Server) handleGetHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		idStr := chi.URLParam(req, "id")
		id, err := uuid.Parse(idStr)
		if err != nil {
			result.BadRequest("ID is not a valid UUID", "%v", err).WriteResponse(w)
			return
		}

		entry, err := s.db.History().GetByID(req.Context(), id)
		if err != nil {
			if err == dao.ErrNotFound {
				result.NotFound().WriteResponse(w)
				return
			}
			result.InternalServerError("get history entry: %v", err).WriteResponse(w)
			return
		}

		result.OK(entry, "retrieved history entry %s", id).WriteResponse(w)
	}
}

func (s *Server) handleInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		result.OK(map[string]string{"version": version.ServerCurrent}, "server info").WriteResponse(w)
	}
}
