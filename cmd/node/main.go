package main

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"MintGate/internal/ledger"
	"MintGate/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point with error handling.
func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger.Init(logger.ParseLevel(cfg.LogLevel))

	cfg.PrivateKey, err = loadOrGenerateKey(cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("load key:\n%w", err)
	}

	node, err := NewNode(cfg)
	if err != nil {
		return fmt.Errorf("create node:\n%w", err)
	}

	printStartupInfo(cfg)

	return node.Run()
}

// printStartupInfo displays node configuration at startup.
func printStartupInfo(cfg *Config) {
	var pub ledger.Hash
	copy(pub[:], cfg.PrivateKey.Public().(ed25519.PublicKey))

	logger.Info("starting MintGate node",
		"pubkey", pub.String(),
		"http", cfg.HTTPAddress,
		"data", cfg.DataPath,
		"bootstrap", cfg.Bootstrap,
		"max_attestation_age", cfg.MaxAttestationAge,
		"collateral_cap", cfg.CollateralCap,
		"peer", cfg.PeerAddress,
		"sync_from", cfg.SyncFrom,
	)

	if cfg.Bootstrap {
		logger.Info("bootstrap configuration",
			"validators", len(cfg.Validators),
			"symbol", cfg.TokenSymbol,
			"decimals", cfg.Decimals,
		)
	}
}
