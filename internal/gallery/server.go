package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	lnet "ColoringStudio/internal/net"
)

const (
	// MaxMessageBytes caps one inbound socket message.
	MaxMessageBytes = 64 << 20
	// ThumbnailSize is the bounding box of /artworks/{id}/thumb.png.
	ThumbnailSize = 256
)

// Server exposes a Store over a websocket at /ws and serves the stored
// images over plain HTTP.
type Server struct {
	store    *Store
	peers    *lnet.PeerManager
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer wraps store. A nil logger discards output.
func NewServer(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		store:  store,
		peers:  lnet.NewPeerManager(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 32 << 10,
			// Studios on the LAN connect from any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Peers reports the number of connected studios.
func (s *Server) Peers() int { return s.peers.Len() }

// Handler returns the HTTP routes of the gallery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /artworks/{file}", s.serveImage)
	mux.HandleFunc("GET /artworks/{id}/thumb.png", s.serveThumb)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("[HOST] gallery listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("gallery server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id, ok := strings.CutSuffix(file, ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	a, err := s.store.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writePNG(w, a.Image)
}

func (s *Server) serveThumb(w http.ResponseWriter, r *http.Request) {
	thumb, err := s.store.Thumbnail(r.PathValue("id"), ThumbnailSize)
	switch {
	case errors.Is(err, ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		s.logger.Error("[HOST] thumbnail failed", "id", r.PathValue("id"), "err", err)
		http.Error(w, "thumbnail failed", http.StatusInternalServerError)
	default:
		writePNG(w, thumb)
	}
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("[HOST] upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxMessageBytes)

	peer := lnet.NewPeer(conn, owner)
	s.peers.Add(peer)
	defer s.peers.Remove(peer)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("[HOST] read ended", "peer", peer.ID, "err", err)
			}
			return
		}
		s.logger.Debug("[HOST] received", "type", msg.Type, "peer", peer.ID)
		reply := s.handle(peer, msg)
		if err := peer.Send(reply); err != nil {
			s.logger.Warn("[HOST] reply failed", "peer", peer.ID, "err", err)
			return
		}
	}
}

func (s *Server) handle(peer *lnet.Peer, msg Message) Message {
	switch msg.Type {
	case TypeCreate:
		if msg.Artwork == nil {
			return errorMessage(msg.RequestID, fmt.Errorf("%w: create without artwork", errBadRequest))
		}
		in := msg.Artwork
		a, err := s.store.Create(peer.Owner, in.Name, in.HeroID, in.Image, in.Original)
		if err != nil {
			return errorMessage(msg.RequestID, err)
		}
		s.logger.Info("[HOST] artwork created", "id", a.ID, "name", a.Name, "owner", a.Owner)
		sum := a.Summary()
		s.peers.Broadcast(Message{Type: TypeCreated, Artwork: &sum}, peer)
		return Message{Type: TypeArtwork, RequestID: msg.RequestID, Artwork: &sum}

	case TypeGet:
		a, err := s.store.Get(msg.ID)
		if err != nil {
			return errorMessage(msg.RequestID, err)
		}
		return Message{Type: TypeArtwork, RequestID: msg.RequestID, Artwork: &a}

	case TypeList:
		return Message{Type: TypeArtworks, RequestID: msg.RequestID, Artworks: s.store.List()}

	case TypeOwned:
		owner := msg.Owner
		if owner == "" {
			owner = peer.Owner
		}
		return Message{Type: TypeArtworks, RequestID: msg.RequestID, Owner: owner, Artworks: s.store.Owned(owner)}

	case TypeDelete:
		if err := s.store.Delete(peer.Owner, msg.ID); err != nil {
			return errorMessage(msg.RequestID, err)
		}
		s.logger.Info("[HOST] artwork deleted", "id", msg.ID, "owner", peer.Owner)
		return Message{Type: TypeDeleted, RequestID: msg.RequestID, ID: msg.ID}
	}
	return errorMessage(msg.RequestID, fmt.Errorf("%w: unknown type %q", errBadRequest, msg.Type))
}
