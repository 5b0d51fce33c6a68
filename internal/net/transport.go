package net

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WriteTimeout bounds a single message write to a peer.
const WriteTimeout = 10 * time.Second

// Peer is one studio connected to the gallery host.
type Peer struct {
	ID    string
	Owner string

	conn *websocket.Conn
	mu   sync.Mutex // serializes writes; gorilla allows one concurrent writer
}

// NewPeer wraps an upgraded connection for owner.
func NewPeer(conn *websocket.Conn, owner string) *Peer {
	return &Peer{ID: uuid.NewString(), Owner: owner, conn: conn}
}

// Send writes v to the peer as a JSON text frame.
func (p *Peer) Send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return p.conn.WriteJSON(v)
}

// Addr returns the remote address of the peer.
func (p *Peer) Addr() string {
	return p.conn.RemoteAddr().String()
}

// PeerManager is used by the HOST to track every connected studio.
type PeerManager struct {
	peers  map[string]*Peer
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewPeerManager creates a new manager. A nil logger discards output.
func NewPeerManager(logger *slog.Logger) *PeerManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PeerManager{
		peers:  make(map[string]*Peer),
		logger: logger,
	}
}

// Add registers a peer that just connected.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.ID] = peer
	pm.logger.Info("[HOST] studio connected", "peer", peer.ID, "owner", peer.Owner, "addr", peer.Addr())
}

// Remove forgets a peer.
func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if _, ok := pm.peers[peer.ID]; !ok {
		return
	}
	delete(pm.peers, peer.ID)
	pm.logger.Info("[HOST] studio disconnected", "peer", peer.ID, "owner", peer.Owner)
}

// Len reports the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends v to every peer except exclude and returns how many
// writes succeeded. Failed writes are logged, the peer stays registered
// until its read loop ends.
func (pm *PeerManager) Broadcast(v any, exclude *Peer) int {
	pm.mu.RLock()
	targets := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		if p != exclude {
			targets = append(targets, p)
		}
	}
	pm.mu.RUnlock()

	sent := 0
	for _, p := range targets {
		if err := p.Send(v); err != nil {
			pm.logger.Warn("[HOST] broadcast failed", "peer", p.ID, "err", err)
			continue
		}
		sent++
	}
	return sent
}
