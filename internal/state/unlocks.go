package state

import (
	"encoding/json"
	"sort"
	"sync"
)

// Unlocks is the set of premium heroes unlocked on this install. The zero
// value and a nil pointer are empty sets.
type Unlocks struct {
	mu  sync.RWMutex
	ids map[int]bool
}

// Unlock adds id to the set.
func (u *Unlocks) Unlock(id int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.ids == nil {
		u.ids = map[int]bool{}
	}
	u.ids[id] = true
}

// IsUnlocked reports whether id is in the set.
func (u *Unlocks) IsUnlocked(id int) bool {
	if u == nil {
		return false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.ids[id]
}

// Reset empties the set, as on sign-out.
func (u *Unlocks) Reset() {
	u.mu.Lock()
	u.ids = nil
	u.mu.Unlock()
}

// IDs returns the unlocked ids in ascending order.
func (u *Unlocks) IDs() []int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	ids := make([]int, 0, len(u.ids))
	for id := range u.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (u *Unlocks) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.IDs())
}

func (u *Unlocks) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ids = make(map[int]bool, len(ids))
	for _, id := range ids {
		u.ids[id] = true
	}
	return nil
}
