package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"MintGate/internal/ledger"
)

var (
	// ErrNotFound is returned when the queried state does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRejected is returned when a transaction executed but failed.
	ErrRejected = errors.New("transaction rejected")

	// ErrDuplicate is returned when a transaction was already executed.
	ErrDuplicate = errors.New("duplicate transaction")
)

// Client connects to a MintGate node via HTTP.
type Client struct {
	baseURL string       // baseURL is the node's API root (e.g. "http://127.0.0.1:8080")
	http    *http.Client // http performs the requests
}

// Receipt is a transaction outcome as reported by the node.
type Receipt struct {
	Hash       string `json:"hash"`
	OK         bool   `json:"ok"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	ExecutedAt uint64 `json:"executedAt"`
}

// Registry is the validator registry as reported by the node.
type Registry struct {
	Address    string   `json:"address"`
	Authority  string   `json:"authority"`
	Validators []string `json:"validators"`
}

// Asset is the issued asset as reported by the node.
type Asset struct {
	Address   string `json:"address"`
	Authority string `json:"authority"`
	Decimals  uint8  `json:"decimals"`
	Supply    uint64 `json:"supply"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri"`
}

// NewClient creates a client for the node at nodeAddr ("host:port" or a URL).
func NewClient(nodeAddr string) *Client {
	base := strings.TrimRight(nodeAddr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit posts an encoded transaction and waits for its receipt.
// A failed execution returns the receipt together with ErrRejected.
func (c *Client) Submit(txBytes []byte) (*Receipt, error) {
	var receipt Receipt

	status, err := c.postTx(txBytes, &receipt)
	if status == http.StatusConflict {
		return nil, fmt.Errorf("%w:\n%v", ErrDuplicate, err)
	}
	if err != nil {
		return nil, err
	}

	if !receipt.OK {
		return &receipt, fmt.Errorf("%w: %s: %s", ErrRejected, receipt.Code, receipt.Message)
	}

	return &receipt, nil
}

// Receipt returns the stored receipt of a transaction.
func (c *Client) Receipt(hash ledger.Hash) (*Receipt, error) {
	var receipt Receipt
	if err := c.get("/tx/"+hash.String(), &receipt); err != nil {
		return nil, err
	}

	return &receipt, nil
}

// Registry returns the validator registry.
func (c *Client) Registry() (*Registry, error) {
	var reg Registry
	if err := c.get("/registry", &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Asset returns the issued asset and its metadata.
func (c *Client) Asset() (*Asset, error) {
	var asset Asset
	if err := c.get("/asset", &asset); err != nil {
		return nil, err
	}

	return &asset, nil
}

// Balance returns owner's balance of the issued asset.
func (c *Client) Balance(owner ledger.Hash) (uint64, error) {
	var resp struct {
		Amount uint64 `json:"amount"`
	}

	if err := c.get("/holdings/"+owner.String(), &resp); err != nil {
		return 0, err
	}

	return resp.Amount, nil
}

// LockConsumed reports whether the attestation with sigHash was already used.
func (c *Client) LockConsumed(sigHash ledger.Hash) (bool, error) {
	var resp struct {
		Consumed bool `json:"consumed"`
	}

	if err := c.get("/locks/"+sigHash.String(), &resp); err != nil {
		return false, err
	}

	return resp.Consumed, nil
}

// Health reports whether the node answers.
func (c *Client) Health() error {
	var resp map[string]string
	return c.get("/health", &resp)
}
