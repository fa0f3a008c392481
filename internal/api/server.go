package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/mint"
	"MintGate/internal/token"
)

const (
	// maxTxSize is the maximum transaction size in bytes.
	maxTxSize = 128 << 10 // 128 KB
)

// Executor runs transactions and serves committed state.
type Executor interface {
	ledger.Reader
	ExecuteTx(tx *ledger.Transaction) (*ledger.Receipt, error)
	Receipt(hash ledger.Hash) (*ledger.Receipt, error)
}

// Snapshotter produces compressed state snapshots.
type Snapshotter interface {
	Snapshot() ([]byte, error)
}

// Server is the HTTP API server.
type Server struct {
	addr      string       // addr is the HTTP listen address
	exec      Executor     // exec executes transactions and reads state
	snapshots Snapshotter  // snapshots produces state exports, nil to disable
	started   time.Time    // started is when the server was created
	server    *http.Server // server is the underlying HTTP server
}

// New creates a new HTTP API server.
func New(addr string, exec Executor, snapshots Snapshotter) *Server {
	return &Server{
		addr:      addr,
		exec:      exec,
		snapshots: snapshots,
		started:   time.Now(),
	}
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tx", s.handleSubmitTx)
	mux.HandleFunc("GET /tx/{hash}", s.handleGetReceipt)
	mux.HandleFunc("GET /registry", s.handleRegistry)
	mux.HandleFunc("GET /asset", s.handleAsset)
	mux.HandleFunc("GET /holdings/{owner}", s.handleHolding)
	mux.HandleFunc("GET /locks/{hash}", s.handleLock)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)

	return mux
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("http api started", "addr", s.addr)

		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleSubmitTx handles POST /tx requests.
// The transaction executes synchronously; the response carries its receipt.
func (s *Server) handleSubmitTx(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTxSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty transaction")
		return
	}

	if len(body) > maxTxSize {
		writeError(w, http.StatusRequestEntityTooLarge, "transaction too large")
		return
	}

	tx, err := ledger.DecodeTransaction(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid transaction: %v", err))
		return
	}

	receipt, err := s.exec.ExecuteTx(tx)

	switch {
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		writeError(w, http.StatusConflict, err.Error())
	case receipt == nil:
		logger.Error("tx execution failed", "hash", tx.Hash.Short(), "error", err)
		writeError(w, http.StatusInternalServerError, "execution failed")
	case !receipt.OK:
		writeJSON(w, http.StatusUnprocessableEntity, newReceiptResponse(receipt))
	default:
		writeJSON(w, http.StatusOK, newReceiptResponse(receipt))
	}
}

// handleGetReceipt handles GET /tx/{hash} requests.
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	hash, ok := pathHash(w, r, "hash")
	if !ok {
		return
	}

	receipt, err := s.exec.Receipt(hash)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newReceiptResponse(receipt))
}

// handleRegistry handles GET /registry requests.
func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := mint.LoadRegistry(s.exec)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	validators := make([]string, len(reg.Validators))
	for i, v := range reg.Validators {
		validators[i] = v.String()
	}

	writeJSON(w, http.StatusOK, registryResponse{
		Address:    mint.RegistryAddress().String(),
		Authority:  reg.Authority.String(),
		Validators: validators,
	})
}

// handleAsset handles GET /asset requests.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	addr := mint.AssetAddress()

	asset, err := token.LoadAsset(s.exec, addr)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	meta, err := token.LoadMetadata(s.exec, addr)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, assetResponse{
		Address:   addr.String(),
		Authority: asset.Authority.String(),
		Decimals:  asset.Decimals,
		Supply:    asset.Supply,
		Name:      meta.Name,
		Symbol:    meta.Symbol,
		URI:       meta.URI,
	})
}

// handleHolding handles GET /holdings/{owner} requests.
func (s *Server) handleHolding(w http.ResponseWriter, r *http.Request) {
	owner, ok := pathHash(w, r, "owner")
	if !ok {
		return
	}

	asset := mint.AssetAddress()

	amount, err := token.Balance(s.exec, asset, owner)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, holdingResponse{
		Asset:  asset.String(),
		Owner:  owner.String(),
		Amount: amount,
	})
}

// handleLock handles GET /locks/{hash} requests.
// An unconsumed attestation is reported with consumed=false, not 404.
func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	sigHash, ok := pathHash(w, r, "hash")
	if !ok {
		return
	}

	resp := lockResponse{SignatureHash: sigHash.String()}

	lock, err := mint.LoadLock(s.exec, sigHash)
	switch {
	case ledger.IsNotFound(err):
	case err != nil:
		writeLoadError(w, err)
		return
	default:
		resp.Consumed = true
		resp.Minter = lock.Minter.String()
		resp.ConsumedAt = lock.ConsumedAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSnapshot handles GET /snapshot requests with a zstd-compressed snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshots not available")
		return
	}

	data, err := s.snapshots.Snapshot()
	if err != nil {
		logger.Error("snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot failed")
		return
	}

	w.Header().Set("Content-Type", "application/zstd")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleStatus handles GET /status requests.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Uptime: time.Since(s.started).Round(time.Second).String()}

	if reg, err := mint.LoadRegistry(s.exec); err == nil {
		resp.RegistryInitialized = true
		resp.Validators = len(reg.Validators)
	}

	if asset, err := token.LoadAsset(s.exec, mint.AssetAddress()); err == nil {
		resp.AssetInitialized = true
		resp.Supply = asset.Supply
	}

	writeJSON(w, http.StatusOK, resp)
}

// pathHash parses a hex hash path value, writing 400 on failure.
func pathHash(w http.ResponseWriter, r *http.Request, name string) (ledger.Hash, bool) {
	hash, err := ledger.ParseHash(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", name, err))
		return ledger.Hash{}, false
	}

	return hash, true
}

// writeLoadError maps state lookup errors to 404 or 500.
func writeLoadError(w http.ResponseWriter, err error) {
	if ledger.IsNotFound(err) || errors.Is(err, mint.ErrNotInitialized) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	logger.Error("state lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, "state lookup failed")
}
