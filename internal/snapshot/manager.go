package snapshot

import (
	"sync"
	"time"

	"MintGate/internal/logger"
	"MintGate/internal/storage"
)

const (
	// defaultInterval is the default interval between snapshots.
	defaultInterval = 30 * time.Second
)

// Source reports how many transactions have been committed, so the manager
// skips snapshots of unchanged state.
type Source interface {
	Committed() uint64
}

// Manager creates periodic compressed snapshots of the record state.
type Manager struct {
	db       *storage.Storage
	source   Source
	interval time.Duration

	mu        sync.RWMutex
	latest    []byte // compressed snapshot data
	committed uint64 // committed count when latest was taken

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a snapshot manager. A zero interval uses the default.
func NewManager(db *storage.Storage, source Source, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = defaultInterval
	}

	return &Manager{
		db:       db,
		source:   source,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic snapshot loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.loop()
}

// Stop stops the manager and waits for it to finish.
func (m *Manager) Stop() {
	close(m.stop)
	m.wg.Wait()
}

// Latest returns the most recent compressed snapshot and the committed
// count it reflects. Returns nil if no snapshot has been created yet.
func (m *Manager) Latest() (data []byte, committed uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latest, m.committed
}

// Snapshot returns the latest compressed snapshot, creating one first if
// none exists yet.
func (m *Manager) Snapshot() ([]byte, error) {
	data, _, err := m.current()

	return data, err
}

// current returns the latest snapshot and its committed count, creating
// the snapshot on demand.
func (m *Manager) current() ([]byte, uint64, error) {
	if data, committed := m.Latest(); data != nil {
		return data, committed, nil
	}

	if err := m.refresh(); err != nil {
		return nil, 0, err
	}

	data, committed := m.Latest()

	return data, committed, nil
}

// loop runs the periodic snapshot creation.
func (m *Manager) loop() {
	defer m.wg.Done()

	m.tick()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick refreshes the snapshot if state changed since the last one.
func (m *Manager) tick() {
	m.mu.RLock()
	unchanged := m.latest != nil && m.committed == m.source.Committed()
	m.mu.RUnlock()

	if unchanged {
		return
	}

	if err := m.refresh(); err != nil {
		logger.Error("snapshot failed", "error", err)
	}
}

// refresh creates and stores a new compressed snapshot.
func (m *Manager) refresh() error {
	committed := m.source.Committed()

	data, err := Create(m.db)
	if err != nil {
		return err
	}

	compressed, err := Compress(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.latest = compressed
	m.committed = committed
	m.mu.Unlock()

	logger.Debug("snapshot created",
		"committed", committed,
		"size", len(data),
		"compressed", len(compressed),
	)

	return nil
}
