// Package rpc exposes the node's engine over HTTP. Every handler is a thin
// shim: decode, call into engine, encode. No engine state is ever touched
// on a malformed request.
package rpc

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/latticeledger/ledgerd/core/types"
	"github.com/latticeledger/ledgerd/engine"
	"github.com/latticeledger/ledgerd/feed"
)

const requestIDHeader = "X-Request-Id"

// Engine is the subset of engine.Engine the RPC layer drives.
type Engine interface {
	SubmitTransaction(t types.Transaction)
	IngestBlock(block types.Block) error
	StartGenesis() bool
	Dump() engine.DumpResult
	History(account string) []types.HistoryEntry
	Feed() *feed.Hub
}

// Server wires an Engine to the HTTP surface described by the external
// interface table: /transactions/new, /inform/block, /dump, /startexp/,
// /health and /history.
type Server struct {
	engine   Engine
	log      *zap.SugaredLogger
	router   chi.Router
	upgrader websocket.Upgrader
}

// New builds a Server ready to be handed to http.ListenAndServe.
func New(engine Engine, log *zap.SugaredLogger) *Server {
	s := &Server{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/transactions/new", s.handleNewTransaction)
	r.Post("/inform/block", s.handleInformBlock)
	r.Get("/dump", s.handleDump)
	r.Get("/startexp/", s.handleStartExperiment)
	r.Get("/health", s.handleHealth)
	r.Get("/history", s.handleHistory)
	r.Get("/ws/blocks", s.handleBlockFeed)

	return r
}

// requestID tags every inbound request with a fresh UUID, echoed back on
// the response and attached to log lines for that request's handler.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		s.log.Debugw("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
