package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is a studio's connection to a gallery host. Requests may be issued
// from any goroutine; replies are matched by request id.
type Client struct {
	conn   *websocket.Conn
	owner  string
	logger *slog.Logger

	// runs on the read goroutine
	onCreated func(Artwork)

	writeMu sync.Mutex
	mu      sync.Mutex
	pending map[string]chan Message
	done    chan struct{}
}

// DialOptions configures Dial.
type DialOptions struct {
	Logger *slog.Logger
	// OnCreated receives artworks that other studios add.
	OnCreated func(Artwork)
}

// Dial connects to the gallery at addr (host:port or a ws:// URL) as owner.
func Dial(ctx context.Context, addr, owner string, opts DialOptions) (*Client, error) {
	u, err := socketURL(addr, owner)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial gallery %s: %w", addr, err)
	}
	conn.SetReadLimit(MaxMessageBytes)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		conn:      conn,
		owner:     owner,
		logger:    logger,
		onCreated: opts.OnCreated,
		pending:   map[string]chan Message{},
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func socketURL(addr, owner string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("gallery address %q: %w", addr, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	q := u.Query()
	q.Set("owner", owner)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Owner returns the id this client acts as.
func (c *Client) Owner() string { return c.owner }

// Create uploads a finished artwork. The reply carries no image payloads.
func (c *Client) Create(ctx context.Context, name string, hero int, colored, original []byte) (Artwork, error) {
	reply, err := c.roundTrip(ctx, Message{
		Type:    TypeCreate,
		Artwork: &Artwork{Name: name, HeroID: hero, Image: colored, Original: original},
	})
	if err != nil {
		return Artwork{}, err
	}
	return artworkReply(reply)
}

// Get fetches one artwork with its images.
func (c *Client) Get(ctx context.Context, id string) (Artwork, error) {
	reply, err := c.roundTrip(ctx, Message{Type: TypeGet, ID: id})
	if err != nil {
		return Artwork{}, err
	}
	return artworkReply(reply)
}

// List returns summaries of every artwork in the gallery.
func (c *Client) List(ctx context.Context) ([]Artwork, error) {
	reply, err := c.roundTrip(ctx, Message{Type: TypeList})
	if err != nil {
		return nil, err
	}
	return reply.Artworks, nil
}

// Owned returns summaries of this client's artworks.
func (c *Client) Owned(ctx context.Context) ([]Artwork, error) {
	reply, err := c.roundTrip(ctx, Message{Type: TypeOwned, Owner: c.owner})
	if err != nil {
		return nil, err
	}
	return reply.Artworks, nil
}

// Delete removes one of this client's artworks.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.roundTrip(ctx, Message{Type: TypeDelete, ID: id})
	return err
}

// Close ends the connection. Pending requests fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

// Done is closed once the connection has ended.
func (c *Client) Done() <-chan struct{} { return c.done }

func artworkReply(m Message) (Artwork, error) {
	if m.Artwork == nil {
		return Artwork{}, fmt.Errorf("gallery reply %q without artwork", m.Type)
	}
	return *m.Artwork, nil
}

func (c *Client) roundTrip(ctx context.Context, req Message) (Message, error) {
	req.RequestID = uuid.NewString()
	ch := make(chan Message, 1)

	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return Message{}, ErrClosed
	}
	c.pending[req.RequestID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, req.RequestID)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrClosed, err)
	}

	select {
	case reply := <-ch:
		if reply.Type == TypeError {
			return Message{}, replyError(reply)
		}
		return reply, nil
	case <-c.done:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		close(c.done)
	}()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.logger.Debug("[STUDIO] gallery connection ended", "err", err)
			return
		}
		if msg.Type == TypeCreated {
			if msg.Artwork != nil && c.onCreated != nil {
				c.onCreated(*msg.Artwork)
			}
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		c.mu.Unlock()
		if !ok {
			c.logger.Warn("[STUDIO] unmatched gallery reply", "type", msg.Type, "request", msg.RequestID)
			continue
		}
		ch <- msg
	}
}
