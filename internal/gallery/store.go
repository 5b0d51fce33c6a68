package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// Store keeps artworks in memory and, when dir is set, mirrors them on disk
// as <id>.json metadata plus <id>.png and <id>.original.png payloads.
type Store struct {
	mu     sync.RWMutex
	dir    string
	items  map[string]Artwork
	now    func() time.Time
	logger *slog.Logger
}

// NewStore opens a store. An empty dir keeps everything in memory. Entries
// on disk that cannot be read back are logged and skipped. A nil logger
// discards output.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{dir: dir, items: map[string]Artwork{}, now: time.Now, logger: logger}
	if dir == "" {
		return s, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create gallery storage: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create stores a new artwork owned by owner and assigns its id. When
// original is empty the colored image doubles as the original.
func (s *Store) Create(owner, name string, hero int, colored, original []byte) (Artwork, error) {
	if _, err := png.DecodeConfig(bytes.NewReader(colored)); err != nil {
		return Artwork{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(original) == 0 {
		original = colored
	}
	a := Artwork{
		ID:        uuid.NewString(),
		Name:      name,
		HeroID:    hero,
		Owner:     owner,
		CreatedAt: s.now().UTC(),
		Image:     colored,
		Original:  original,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(a); err != nil {
		return Artwork{}, err
	}
	s.items[a.ID] = a
	return a, nil
}

// Get returns the artwork with its payloads.
func (s *Store) Get(id string) (Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return Artwork{}, ErrNotFound
	}
	return a, nil
}

// List returns summaries of every artwork, oldest first.
func (s *Store) List() []Artwork {
	return s.filter(func(Artwork) bool { return true })
}

// Owned returns summaries of the artworks of owner, oldest first.
func (s *Store) Owned(owner string) []Artwork {
	return s.filter(func(a Artwork) bool { return a.Owner == owner })
}

func (s *Store) filter(keep func(Artwork) bool) []Artwork {
	s.mu.RLock()
	out := make([]Artwork, 0, len(s.items))
	for _, a := range s.items {
		if keep(a) {
			out = append(out, a.Summary())
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes an artwork. Only its owner may delete it.
func (s *Store) Delete(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if a.Owner != owner {
		return ErrNotOwner
	}
	delete(s.items, id)
	if s.dir != "" {
		meta, colored, original := s.paths(id)
		for _, p := range []string{meta, colored, original} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("delete artwork %s: %w", id, err)
			}
		}
	}
	return nil
}

// Thumbnail returns the colored image scaled to fit side×side as PNG.
func (s *Store) Thumbnail(id string, side uint) ([]byte, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(a.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	var thumb image.Image = resize.Thumbnail(side, side, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) paths(id string) (meta, colored, original string) {
	return filepath.Join(s.dir, id+".json"),
		filepath.Join(s.dir, id+".png"),
		filepath.Join(s.dir, id+".original.png")
}

func (s *Store) persist(a Artwork) error {
	if s.dir == "" {
		return nil
	}
	meta, colored, original := s.paths(a.ID)
	data, err := json.MarshalIndent(a.Summary(), "", "  ")
	if err != nil {
		return err
	}
	// metadata goes last: a listed artwork always has its payloads
	var written []string
	for _, f := range []struct {
		path    string
		payload []byte
	}{{colored, a.Image}, {original, a.Original}, {meta, data}} {
		if err := os.WriteFile(f.path, f.payload, 0o644); err != nil {
			for _, p := range append(written, f.path) {
				os.Remove(p)
			}
			return fmt.Errorf("save artwork %s: %w", a.ID, err)
		}
		written = append(written, f.path)
	}
	return nil
}

func (s *Store) load() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, meta := range matches {
		a, err := s.loadOne(meta)
		if err != nil {
			s.logger.Warn("[HOST] skipping stored artwork", "file", filepath.Base(meta), "err", err)
			continue
		}
		s.items[a.ID] = a
	}
	return nil
}

func (s *Store) loadOne(meta string) (Artwork, error) {
	data, err := os.ReadFile(meta)
	if err != nil {
		return Artwork{}, err
	}
	var a Artwork
	if err := json.Unmarshal(data, &a); err != nil {
		return Artwork{}, err
	}
	if want := strings.TrimSuffix(filepath.Base(meta), ".json"); a.ID == "" || a.ID != want {
		return Artwork{}, fmt.Errorf("metadata id %q does not match file name", a.ID)
	}
	_, colored, original := s.paths(a.ID)
	if a.Image, err = os.ReadFile(colored); err != nil {
		return Artwork{}, err
	}
	if _, err := png.DecodeConfig(bytes.NewReader(a.Image)); err != nil {
		return Artwork{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if a.Original, err = os.ReadFile(original); err != nil {
		a.Original = a.Image
	}
	return a, nil
}
