package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"MintGate/internal/ledger"
)

// Config holds the node configuration.
type Config struct {
	// DataPath is the directory for persistent storage.
	DataPath string

	// HTTPAddress is the HTTP API listen address.
	HTTPAddress string

	// KeyPath is the path to the Ed25519 private key file.
	KeyPath string

	// PrivateKey is the node's Ed25519 signing key.
	PrivateKey ed25519.PrivateKey

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// Bootstrap initializes the registry and asset on start if missing.
	Bootstrap bool

	// Validators are the validator keys registered at bootstrap.
	Validators []ledger.Hash

	// TokenName, TokenSymbol and TokenURI describe the asset created at bootstrap.
	TokenName   string
	TokenSymbol string
	TokenURI    string

	// Decimals is the asset's display precision.
	Decimals uint8

	// MaxAttestationAge rejects attestations older than this. Zero disables.
	MaxAttestationAge time.Duration

	// CollateralCap caps each mint at the attested collateral.
	CollateralCap bool

	// SnapshotInterval is how often the served snapshot is refreshed.
	SnapshotInterval time.Duration

	// RestorePath is a compressed snapshot applied to an empty store on start.
	RestorePath string

	// PeerAddress is the QUIC address serving snapshots to other nodes. Empty disables.
	PeerAddress string

	// SyncFrom is a peer address to fetch a snapshot from into an empty store.
	SyncFrom string

	// SyncKey pins the public key SyncFrom must present. Nil accepts any key.
	SyncKey ed25519.PublicKey
}

// parseFlags parses command-line arguments into Config.
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("node", flag.ContinueOnError)

	var validators, syncKey string
	var decimals uint

	fs.StringVar(&cfg.DataPath, "data", "./data", "Data directory path")
	fs.StringVar(&cfg.HTTPAddress, "http", ":8080", "HTTP API address")
	fs.StringVar(&cfg.KeyPath, "key", "", "Ed25519 private key path (generates new if missing)")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Bootstrap, "bootstrap", false, "Initialize registry and asset if missing")
	fs.StringVar(&validators, "validators", "", "Comma-separated hex validator keys registered at bootstrap")
	fs.StringVar(&cfg.TokenName, "token-name", "Collateral Note", "Asset name")
	fs.StringVar(&cfg.TokenSymbol, "token-symbol", "CNOTE", "Asset symbol")
	fs.StringVar(&cfg.TokenURI, "token-uri", "", "Asset metadata URI")
	fs.UintVar(&decimals, "decimals", 9, "Asset decimals")
	fs.DurationVar(&cfg.MaxAttestationAge, "max-attestation-age", 0, "Reject attestations older than this (0 disables)")
	fs.BoolVar(&cfg.CollateralCap, "collateral-cap", false, "Reject mints above the attested collateral")
	fs.DurationVar(&cfg.SnapshotInterval, "snapshot-interval", 30*time.Second, "Snapshot refresh interval")
	fs.StringVar(&cfg.RestorePath, "restore", "", "Compressed snapshot to restore into an empty data directory")
	fs.StringVar(&cfg.PeerAddress, "peer", "", "QUIC address serving snapshots to peers (empty disables)")
	fs.StringVar(&cfg.SyncFrom, "sync-from", "", "Peer address to fetch a snapshot from into an empty data directory")
	fs.StringVar(&syncKey, "sync-key", "", "Hex public key the sync peer must present")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if decimals > 255 {
		return nil, fmt.Errorf("decimals out of range: %d", decimals)
	}
	cfg.Decimals = uint8(decimals)

	if cfg.MaxAttestationAge < 0 {
		return nil, fmt.Errorf("negative max-attestation-age: %s", cfg.MaxAttestationAge)
	}

	if cfg.RestorePath != "" && cfg.SyncFrom != "" {
		return nil, fmt.Errorf("-restore and -sync-from are mutually exclusive")
	}

	keys, err := parseValidators(validators)
	if err != nil {
		return nil, err
	}
	cfg.Validators = keys

	if syncKey != "" {
		key, err := ledger.ParseHash(syncKey)
		if err != nil {
			return nil, fmt.Errorf("sync key:\n%w", err)
		}
		cfg.SyncKey = ed25519.PublicKey(key[:])
	}

	return cfg, nil
}

// parseValidators decodes a comma-separated list of hex keys.
func parseValidators(list string) ([]ledger.Hash, error) {
	var keys []ledger.Hash

	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, err := ledger.ParseHash(item)
		if err != nil {
			return nil, fmt.Errorf("validator %q:\n%w", item, err)
		}

		keys = append(keys, key)
	}

	return keys, nil
}

// loadOrGenerateKey loads the private key from file or generates a new one.
func loadOrGenerateKey(keyPath string) (ed25519.PrivateKey, error) {
	if keyPath == "" {
		return generateNewKey()
	}

	data, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		return generateAndSaveKey(keyPath)
	}

	if err != nil {
		return nil, fmt.Errorf("read key file:\n%w", err)
	}

	if len(data) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid key size: got %d, want %d", len(data), ed25519.PrivateKeySize)
	}

	return ed25519.PrivateKey(data), nil
}

// generateNewKey creates a new Ed25519 private key.
func generateNewKey() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key:\n%w", err)
	}

	return priv, nil
}

// generateAndSaveKey creates a new key and saves it to the given path.
func generateAndSaveKey(path string) (ed25519.PrivateKey, error) {
	priv, err := generateNewKey()
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, priv, 0600); err != nil {
		return nil, fmt.Errorf("save key to %s:\n%w", path, err)
	}

	return priv, nil
}
