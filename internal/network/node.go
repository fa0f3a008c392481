// Package network carries node-to-node requests over QUIC. Each side
// authenticates with a self-signed certificate for its ed25519 node key;
// one bidirectional stream carries exactly one request and its response.
package network

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"MintGate/internal/logger"
)

const (
	// alpnProtocol is the ALPN protocol identifier.
	alpnProtocol = "mintgate/1"

	// defaultRequestTimeout bounds a request whose context has no deadline.
	defaultRequestTimeout = 60 * time.Second
)

// Handler answers one request from a connected peer.
type Handler func(p *Peer, req []byte) ([]byte, error)

// Config holds the configuration for a Node.
type Config struct {
	PrivateKey ed25519.PrivateKey // PrivateKey is the node's ed25519 private key
	ListenAddr string             // ListenAddr is the address to serve on; empty for dial-only nodes
}

// Node accepts peer connections and dials remote nodes.
type Node struct {
	publicKey  ed25519.PublicKey // publicKey is the node's ed25519 public key
	listenAddr string            // listenAddr is the address to listen on
	tlsConfig  *tls.Config       // tlsConfig is the mutual-TLS configuration
	quicConfig *quic.Config      // quicConfig is the QUIC configuration

	listener *quic.Listener // listener is the QUIC listener, nil until Start

	onRequest  Handler      // onRequest answers incoming requests
	handlersMu sync.RWMutex // handlersMu protects onRequest

	ctx    context.Context    // ctx is cancelled on Close
	cancel context.CancelFunc // cancel cancels ctx
	wg     sync.WaitGroup     // wg waits for accept and serve goroutines
}

// NewNode creates a new network node.
func NewNode(cfg Config) (*Node, error) {
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	tlsConfig, err := newTLSConfig(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("tls config:\n%w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Node{
		publicKey:  cfg.PrivateKey.Public().(ed25519.PublicKey),
		listenAddr: cfg.ListenAddr,
		tlsConfig:  tlsConfig,
		quicConfig: &quic.Config{
			MaxIdleTimeout:  30 * time.Second,
			KeepAlivePeriod: 10 * time.Second,
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// PublicKey returns the node's public key.
func (n *Node) PublicKey() ed25519.PublicKey {
	return n.publicKey
}

// Addr returns the listener's address. Returns empty string if not started.
func (n *Node) Addr() string {
	if n.listener == nil {
		return ""
	}

	return n.listener.Addr().String()
}

// OnRequest sets the handler for incoming requests.
func (n *Node) OnRequest(fn Handler) {
	n.handlersMu.Lock()
	n.onRequest = fn
	n.handlersMu.Unlock()
}

// Start listens on the configured address and serves incoming connections.
func (n *Node) Start() error {
	if n.listenAddr == "" {
		return fmt.Errorf("listen address is required")
	}

	listener, err := quic.ListenAddr(n.listenAddr, n.tlsConfig, n.quicConfig)
	if err != nil {
		return fmt.Errorf("listen:\n%w", err)
	}

	n.listener = listener

	n.wg.Add(1)
	go n.acceptLoop()

	logger.Info("peer listener started", "addr", n.Addr())

	return nil
}

// Connect dials addr. If expected is non-nil, the remote node must present it.
func (n *Node) Connect(ctx context.Context, addr string, expected ed25519.PublicKey) (*Peer, error) {
	conn, err := quic.DialAddr(ctx, addr, n.tlsConfig, n.quicConfig)
	if err != nil {
		return nil, fmt.Errorf("dial %s:\n%w", addr, err)
	}

	peer, err := newPeer(conn, addr)
	if err != nil {
		conn.CloseWithError(1, "setup failed")
		return nil, err
	}

	if err := checkPeerKey(peer.publicKey, expected); err != nil {
		conn.CloseWithError(1, "unexpected key")
		return nil, err
	}

	return peer, nil
}

// Close stops the listener and waits for in-flight requests.
func (n *Node) Close() error {
	n.cancel()

	if n.listener != nil {
		n.listener.Close()
	}

	n.wg.Wait()

	return nil
}

// acceptLoop accepts incoming connections until the listener closes.
func (n *Node) acceptLoop() {
	defer n.wg.Done()

	for {
		conn, err := n.listener.Accept(n.ctx)
		if err != nil {
			return
		}

		peer, err := newPeer(conn, conn.RemoteAddr().String())
		if err != nil {
			logger.Debug("rejected peer", "addr", conn.RemoteAddr(), "error", err)
			conn.CloseWithError(1, "setup failed")
			continue
		}

		n.wg.Add(1)
		go n.serve(peer)
	}
}

// serve answers each stream the peer opens until the connection ends.
func (n *Node) serve(p *Peer) {
	defer n.wg.Done()
	defer p.Close()

	for {
		stream, err := p.conn.AcceptStream(n.ctx)
		if err != nil {
			return
		}

		go n.handleStream(p, stream)
	}
}

// handleStream reads one request, calls the handler and writes its response.
// A handler error closes the stream without a response.
func (n *Node) handleStream(p *Peer, stream *quic.Stream) {
	defer stream.Close()

	stream.SetDeadline(time.Now().Add(defaultRequestTimeout))

	req, err := readMessage(stream)
	if err != nil {
		logger.Debug("request read failed", "peer", p.address, "error", err)
		return
	}

	n.handlersMu.RLock()
	fn := n.onRequest
	n.handlersMu.RUnlock()

	if fn == nil {
		logger.Debug("no request handler registered", "peer", p.address)
		return
	}

	resp, err := fn(p, req)
	if err != nil {
		logger.Warn("request failed", "peer", p.address, "error", err)
		return
	}

	if err := writeMessage(stream, resp); err != nil {
		logger.Debug("response write failed", "peer", p.address, "error", err)
	}
}
