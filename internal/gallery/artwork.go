// Package gallery stores finished artworks and serves them to studios over
// a websocket protocol.
package gallery

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned for an unknown artwork id.
	ErrNotFound = errors.New("artwork not found")
	// ErrNotOwner is returned when someone other than the artist deletes.
	ErrNotOwner = errors.New("artwork belongs to another owner")
	// ErrInvalidImage is returned when the colored image is not a PNG.
	ErrInvalidImage = errors.New("artwork image is not a valid PNG")
	// ErrClosed is returned by a client whose connection has ended.
	ErrClosed = errors.New("gallery connection closed")
)

// Artwork is one exported raster with its provenance.
type Artwork struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	HeroID    int       `json:"hero"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	// Image is the flattened PNG; Original is the template the artist
	// colored. Both are omitted from listings.
	Image    []byte `json:"image,omitempty"`
	Original []byte `json:"original,omitempty"`
}

// Summary returns a copy without the image payloads.
func (a Artwork) Summary() Artwork {
	a.Image = nil
	a.Original = nil
	return a
}
