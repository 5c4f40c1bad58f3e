package rpc

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/latticeledger/ledgerd/core/types"
)

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// transactionRequest uses pointers so a field that was omitted from the
// request body is distinguishable from one that was present with a zero
// value.
type transactionRequest struct {
	Sender    *string       `json:"sender"`
	Recipient *string       `json:"recipient"`
	Amount    *types.Amount `json:"amount"`
}

func (s *Server) handleNewTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Missing values")
		return
	}
	if req.Sender == nil || req.Recipient == nil || req.Amount == nil || *req.Sender == "" || *req.Recipient == "" {
		writeText(w, http.StatusBadRequest, "Missing values")
		return
	}

	s.engine.SubmitTransaction(types.Transaction{
		Sender:    *req.Sender,
		Recipient: *req.Recipient,
		Amount:    *req.Amount,
	})
	writeText(w, http.StatusCreated, "OK")
}

// blockRequest mirrors the encoded block wire shape, with every required
// field optional at the decode layer so a missing one is reported as 400
// rather than silently defaulting.
type blockRequest struct {
	Number       *uint64              `json:"number"`
	Transactions *[]types.Transaction `json:"transactions"`
	PreviousHash *string              `json:"previous_hash"`
	Miner        *types.NodeID        `json:"miner"`
	Hash         *string              `json:"hash"`
}

func (s *Server) handleInformBlock(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Missing values")
		return
	}
	if req.Number == nil || req.Transactions == nil || req.PreviousHash == nil || req.Miner == nil || req.Hash == nil {
		writeText(w, http.StatusBadRequest, "Missing values")
		return
	}

	block := types.Block{
		Number:       *req.Number,
		Transactions: *req.Transactions,
		PreviousHash: *req.PreviousHash,
		Miner:        *req.Miner,
		Hash:         *req.Hash,
	}

	if err := s.engine.IngestBlock(block); err != nil {
		s.log.Debugw("rejected inbound block", "number", block.Number, "err", err)
		writeText(w, http.StatusBadRequest, "Invalid block")
		return
	}
	writeText(w, http.StatusCreated, "OK")
}

func (s *Server) handleDump(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Dump())
}

func (s *Server) handleStartExperiment(w http.ResponseWriter, r *http.Request) {
	s.engine.StartGenesis()
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeText(w, http.StatusBadRequest, "Missing values")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.History(account))
}

// handleBlockFeed upgrades to a websocket connection and streams
// subsequently committed blocks as JSON text frames, until the client
// disconnects. A block published while this subscription's buffer is full
// is skipped. This is a convenience surface on top of the required
// interface table, not a replacement for /dump polling.
func (s *Server) handleBlockFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugw("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	blocks, unsubscribe := s.engine.Feed().Subscribe()
	defer unsubscribe()

	for block := range blocks {
		payload, err := json.Marshal(block)
		if err != nil {
			s.log.Warnw("failed to encode block for feed", "err", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
