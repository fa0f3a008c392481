package api

import (
	"encoding/json"
	"net/http"

	"MintGate/internal/ledger"
)

// receiptResponse is the JSON form of a transaction receipt.
type receiptResponse struct {
	Hash       string `json:"hash"`
	OK         bool   `json:"ok"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	ExecutedAt uint64 `json:"executedAt"`
}

// registryResponse is the JSON form of the validator registry.
type registryResponse struct {
	Address    string   `json:"address"`
	Authority  string   `json:"authority"`
	Validators []string `json:"validators"`
}

// assetResponse is the JSON form of the issued asset.
type assetResponse struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri"`
}

// holdingResponse is the JSON form of a balance query.
type holdingResponse struct {
	Asset  string `json:"asset"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

// lockResponse is the JSON form of a replay-lock query.
type lockResponse struct {
	SignatureHash string `json:"signatureHash"`
	Consumed      bool   `json:"consumed"`
	Minter        string `json:"minter,omitempty"`
	ConsumedAt    uint64 `json:"consumedAt,omitempty"`
}

// statusResponse is the JSON form of GET /status.
type statusResponse struct {
	RegistryInitialized bool   `json:"registryInitialized"`
	Validators          int    `json:"validators"`
	AssetInitialized    bool   `json:"assetInitialized"`
	Supply              uint64 `json:"supply"`
	Uptime              string `json:"uptime"`
}

func newReceiptResponse(r *ledger.Receipt) receiptResponse {
	return receiptResponse{
		Hash:       r.Hash.String(),
		OK:         r.OK,
		Code:       r.Code,
		Message:    r.Message,
		ExecutedAt: r.ExecutedAt,
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
