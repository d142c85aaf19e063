package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// MaxRenderers is the number of renderers kept in the state file.
const MaxRenderers = 16

// RendererState contains the renderers a control point has selected.
type RendererState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// LastUDN is the UDN of the most recently selected renderer.
	LastUDN string `json:"last_udn,omitempty"`

	// Renderers holds the known renderers, most recently selected first.
	Renderers []KnownRenderer `json:"renderers,omitempty"`
}

// KnownRenderer contains information about a previously selected renderer.
type KnownRenderer struct {
	// UDN is the unique device name.
	UDN string `json:"udn"`

	// FriendlyName is the name the renderer reported.
	FriendlyName string `json:"friendly_name,omitempty"`

	// Location is the description URL the renderer was loaded from.
	Location string `json:"location"`

	// SelectedAt is when the renderer was last selected.
	SelectedAt time.Time `json:"selected_at"`
}

// Remember records r as the most recent selection. An existing entry with
// the same UDN is replaced. The list is capped at MaxRenderers.
func (s *RendererState) Remember(r KnownRenderer) {
	if r.SelectedAt.IsZero() {
		r.SelectedAt = time.Now()
	}

	kept := s.Renderers[:0]
	for _, existing := range s.Renderers {
		if existing.UDN != r.UDN {
			kept = append(kept, existing)
		}
	}
	s.Renderers = append([]KnownRenderer{r}, kept...)
	sort.SliceStable(s.Renderers, func(i, j int) bool {
		return s.Renderers[i].SelectedAt.After(s.Renderers[j].SelectedAt)
	})
	if len(s.Renderers) > MaxRenderers {
		s.Renderers = s.Renderers[:MaxRenderers]
	}
	s.LastUDN = r.UDN
}

// Last returns the most recently selected renderer.
func (s *RendererState) Last() (KnownRenderer, bool) {
	if s == nil {
		return KnownRenderer{}, false
	}
	for _, r := range s.Renderers {
		if r.UDN == s.LastUDN {
			return r, true
		}
	}
	return KnownRenderer{}, false
}

// Find returns the renderer with the given UDN or friendly name.
func (s *RendererState) Find(name string) (KnownRenderer, bool) {
	if s == nil {
		return KnownRenderer{}, false
	}
	for _, r := range s.Renderers {
		if r.UDN == name || r.FriendlyName == name {
			return r, true
		}
	}
	return KnownRenderer{}, false
}

// RendererStateStore manages persistence of renderer state to a JSON file.
type RendererStateStore struct {
	mu   sync.Mutex
	path string
}

// NewRendererStateStore creates a new renderer state store.
func NewRendererStateStore(path string) *RendererStateStore {
	return &RendererStateStore{path: path}
}

// Path returns the state file path.
func (s *RendererStateStore) Path() string {
	return s.path
}

// Save persists the renderer state to disk.
func (s *RendererStateStore) Save(state *RendererState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(state)
}

func (s *RendererStateStore) saveLocked(state *RendererState) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the renderer state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *RendererStateStore) Load() (*RendererState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *RendererStateStore) loadLocked() (*RendererState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &RendererState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Remember loads the state, records r and saves it again.
func (s *RendererStateStore) Remember(r KnownRenderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked()
	if err != nil {
		return err
	}
	if state == nil {
		state = &RendererState{}
	}
	state.Remember(r)
	return s.saveLocked(state)
}

// Clear removes the state file.
func (s *RendererStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
