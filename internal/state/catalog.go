package state

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var templateName = regexp.MustCompile(`^hero-(\d+)-template\.(?i:png|jpe?g|gif|bmp|webp)$`)

// Catalog is the list of heroes shown in the gallery.
type Catalog struct {
	mu     sync.RWMutex
	heroes []Hero
}

// NewCatalog returns a catalog of heroes ordered by id. DefaultHeroes is
// used when heroes is empty.
func NewCatalog(heroes []Hero) *Catalog {
	if len(heroes) == 0 {
		heroes = DefaultHeroes()
	}
	c := &Catalog{heroes: append([]Hero(nil), heroes...)}
	c.sortLocked()
	return c
}

// Heroes returns a copy of the catalog.
func (c *Catalog) Heroes() []Hero {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Hero(nil), c.heroes...)
}

// Hero looks a hero up by id.
func (c *Catalog) Hero(id int) (Hero, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.heroes {
		if h.ID == id {
			return h, true
		}
	}
	return Hero{}, false
}

// Playable reports whether hero id can be opened given the unlocked set.
func (c *Catalog) Playable(id int, unlocks *Unlocks) bool {
	h, ok := c.Hero(id)
	if !ok {
		return false
	}
	return !h.Premium || unlocks.IsUnlocked(id)
}

// Refresh marks heroes whose template file is absent from dir and adds a
// free hero for every conventionally named template file not yet listed.
// It returns the number of heroes added.
func (c *Catalog) Refresh(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	found := map[int]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := templateName.FindStringSubmatch(e.Name()); m != nil {
			id, _ := strconv.Atoi(m[1])
			found[id] = e.Name()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	known := make(map[int]bool, len(c.heroes))
	for i := range c.heroes {
		h := &c.heroes[i]
		known[h.ID] = true
		h.Missing = templateMissing(dir, h.TemplatePath)
	}
	added := 0
	for id, name := range found {
		if known[id] {
			continue
		}
		c.heroes = append(c.heroes, Hero{ID: id, Name: "HERO " + strconv.Itoa(id), TemplatePath: name})
		added++
	}
	c.sortLocked()
	return added, nil
}

// templateMissing reports whether a local template is absent. Remote
// templates are never missing; relative and slash-rooted paths resolve
// under dir.
func templateMissing(dir, path string) bool {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return false
	}
	local, ok := strings.CutPrefix(path, "file://")
	if !ok {
		local = filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	}
	_, err := os.Stat(local)
	return err != nil
}

func (c *Catalog) sortLocked() {
	sort.Slice(c.heroes, func(i, j int) bool { return c.heroes[i].ID < c.heroes[j].ID })
}
