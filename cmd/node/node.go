package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MintGate/internal/api"
	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/network"
	"MintGate/internal/snapshot"
	"MintGate/internal/storage"
)

// Node represents a running MintGate node.
type Node struct {
	cfg       *Config
	storage   *storage.Storage
	ledger    *ledger.Ledger
	api       *api.Server
	snapshots *snapshot.Manager
	peer      *network.Node
}

// NewNode creates and initializes a new node.
func NewNode(cfg *Config) (*Node, error) {
	n := &Node{cfg: cfg}

	if err := n.initStorage(); err != nil {
		return nil, err
	}

	if err := n.restoreSnapshot(); err != nil {
		n.Close()
		return nil, err
	}

	n.initLedger()

	if cfg.Bootstrap {
		if err := n.bootstrap(); err != nil {
			n.Close()
			return nil, err
		}
	}

	return n, nil
}

// Run starts the node and blocks until shutdown signal.
func (n *Node) Run() error {
	n.snapshots = snapshot.NewManager(n.storage, n.ledger, n.cfg.SnapshotInterval)
	n.snapshots.Start()

	if err := n.initPeer(); err != nil {
		n.Close()
		return err
	}

	n.api = api.New(n.cfg.HTTPAddress, n.ledger, n.snapshots)
	if err := n.api.Start(); err != nil {
		n.Close()
		return fmt.Errorf("start api:\n%w", err)
	}

	return n.waitForShutdown()
}

// waitForShutdown blocks until SIGINT or SIGTERM is received.
func (n *Node) waitForShutdown() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	return n.Close()
}

// Close shuts down all node components gracefully.
func (n *Node) Close() error {
	if n.api != nil {
		n.api.Stop()
	}

	if n.peer != nil {
		n.peer.Close()
	}

	if n.snapshots != nil {
		n.snapshots.Stop()
	}

	if n.storage != nil {
		return n.storage.Close()
	}

	return nil
}

// nonce returns a bootstrap nonce unlikely to repeat across restarts.
func nonce() uint64 {
	return uint64(time.Now().UnixNano())
}
