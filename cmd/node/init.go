package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"MintGate/internal/genesis"
	"MintGate/internal/ledger"
	"MintGate/internal/logger"
	"MintGate/internal/mint"
	"MintGate/internal/network"
	"MintGate/internal/sigverify"
	"MintGate/internal/snapshot"
	"MintGate/internal/storage"
	"MintGate/internal/token"
)

// syncTimeout bounds connecting to and downloading from the sync peer.
const syncTimeout = 2 * time.Minute

// initStorage initializes the Pebble storage.
func (n *Node) initStorage() error {
	dbPath := filepath.Join(n.cfg.DataPath, "db")

	if err := os.MkdirAll(n.cfg.DataPath, 0755); err != nil {
		return fmt.Errorf("create data directory:\n%w", err)
	}

	db, err := storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("init storage:\n%w", err)
	}

	n.storage = db

	return nil
}

// initLedger registers the built-in programs.
func (n *Node) initLedger() {
	n.ledger = ledger.New(n.storage,
		ledger.WithProgram(sigverify.ProgramID, sigverify.Program{}),
		ledger.WithProgram(mint.ProgramID, mint.NewProgram(n.mintOptions()...)),
		ledger.WithErrorCodes(mint.Code),
	)
}

// mintOptions maps configuration to mint program options.
func (n *Node) mintOptions() []mint.Option {
	var opts []mint.Option

	if n.cfg.MaxAttestationAge > 0 {
		opts = append(opts, mint.WithMaxAttestationAge(n.cfg.MaxAttestationAge))
	}

	if n.cfg.CollateralCap {
		opts = append(opts, mint.WithCollateralCap())
	}

	return opts
}

// restoreSnapshot fills an empty store from a snapshot file or a peer.
func (n *Node) restoreSnapshot() error {
	if n.cfg.RestorePath == "" && n.cfg.SyncFrom == "" {
		return nil
	}

	empty, err := n.storage.IsEmpty()
	if err != nil {
		return fmt.Errorf("inspect storage:\n%w", err)
	}

	if !empty {
		logger.Warn("data directory not empty, skipping restore",
			"file", n.cfg.RestorePath,
			"peer", n.cfg.SyncFrom,
		)
		return nil
	}

	var data []byte
	if n.cfg.SyncFrom != "" {
		data, err = n.fetchSnapshot()
	} else {
		data, err = readSnapshotFile(n.cfg.RestorePath)
	}
	if err != nil {
		return err
	}

	info, err := snapshot.Apply(n.storage, data)
	if err != nil {
		return fmt.Errorf("apply snapshot:\n%w", err)
	}

	logger.Info("snapshot restored",
		"records", info.Records,
		"checksum", fmt.Sprintf("%x", info.Checksum[:8]),
	)

	return nil
}

// readSnapshotFile reads and decompresses a snapshot file.
func readSnapshotFile(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot:\n%w", err)
	}

	data, err := snapshot.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot:\n%w", err)
	}

	return data, nil
}

// fetchSnapshot requests the latest snapshot from the sync peer.
func (n *Node) fetchSnapshot() ([]byte, error) {
	client, err := network.NewNode(network.Config{PrivateKey: n.cfg.PrivateKey})
	if err != nil {
		return nil, fmt.Errorf("create peer client:\n%w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	peer, err := client.Connect(ctx, n.cfg.SyncFrom, n.cfg.SyncKey)
	if err != nil {
		return nil, fmt.Errorf("connect to sync peer:\n%w", err)
	}
	defer peer.Close()

	fetched, err := snapshot.RequestSnapshot(ctx, peer)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot from %s:\n%w", n.cfg.SyncFrom, err)
	}

	logger.Info("snapshot fetched",
		"peer", n.cfg.SyncFrom,
		"peer_committed", fetched.Committed,
		"size", len(fetched.Data),
	)

	return fetched.Data, nil
}

// initPeer starts the QUIC listener serving snapshots to other nodes.
func (n *Node) initPeer() error {
	if n.cfg.PeerAddress == "" {
		return nil
	}

	peerNode, err := network.NewNode(network.Config{
		PrivateKey: n.cfg.PrivateKey,
		ListenAddr: n.cfg.PeerAddress,
	})
	if err != nil {
		return fmt.Errorf("create peer node:\n%w", err)
	}

	peerNode.OnRequest(func(p *network.Peer, req []byte) ([]byte, error) {
		logger.Debug("snapshot requested", "peer", p.Address())
		return snapshot.HandleRequest(req, n.snapshots)
	})

	if err := peerNode.Start(); err != nil {
		return fmt.Errorf("start peer node:\n%w", err)
	}

	n.peer = peerNode

	return nil
}

// bootstrap creates the registry, validators and asset that are missing.
func (n *Node) bootstrap() error {
	cfg := genesis.Config{
		PrivateKey: n.cfg.PrivateKey,
		Validators: n.cfg.Validators,
		Token: token.Metadata{
			Name:   n.cfg.TokenName,
			Symbol: n.cfg.TokenSymbol,
			URI:    n.cfg.TokenURI,
		},
		Decimals: n.cfg.Decimals,
	}

	if _, err := genesis.Run(n.ledger, cfg, nonce()); err != nil {
		return fmt.Errorf("bootstrap:\n%w", err)
	}

	return nil
}
