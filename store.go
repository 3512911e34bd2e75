package textfx

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

const (
	// presetObject is the gdata object that holds one property per preset.
	presetObject = "textfx_presets"
	// presetIndexProp lists the saved preset names, one per line.
	presetIndexProp = "_index"
)

// PresetStore saves registries as named YAML presets through gdata, so that
// tuned animations survive restarts on every platform Ebitengine runs on.
// A store without a manager keeps presets in memory only.
type PresetStore struct {
	manager *gdata.Manager
	memory  map[string][]byte
}

// NewPresetStore returns a store backed by manager. manager may be nil.
func NewPresetStore(manager *gdata.Manager) *PresetStore {
	return &PresetStore{manager: manager, memory: make(map[string][]byte)}
}

// OpenPresetStore opens the gdata storage of appName. When the storage is
// unavailable it logs a warning and returns a memory-only store.
func OpenPresetStore(appName string) *PresetStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("textfx: preset storage unavailable: %v (presets kept in memory)", err)
		return NewPresetStore(nil)
	}
	return NewPresetStore(m)
}

// Persistent reports whether presets are written to disk.
func (s *PresetStore) Persistent() bool { return s.manager != nil }

// Save writes the templates of reg under name.
func (s *PresetStore) Save(name string, reg *Registry) error {
	if err := checkPresetName(name); err != nil {
		return err
	}
	data, err := MarshalRegistry(reg)
	if err != nil {
		return err
	}
	if s.manager == nil {
		s.memory[name] = data
		return nil
	}
	if err := s.manager.SaveObjectProp(presetObject, name, data); err != nil {
		return fmt.Errorf("textfx: save preset %q: %w", name, err)
	}
	names, err := s.index()
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return s.saveIndex(append(names, name))
	}
	return nil
}

// Load reads the preset name into a new Registry.
func (s *PresetStore) Load(name string) (*Registry, error) {
	if !s.Exists(name) {
		return nil, fmt.Errorf("textfx: preset %q not found", name)
	}
	var data []byte
	if s.manager == nil {
		data = s.memory[name]
	} else {
		d, err := s.manager.LoadObjectProp(presetObject, name)
		if err != nil {
			return nil, fmt.Errorf("textfx: load preset %q: %w", name, err)
		}
		data = d
	}
	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("textfx: preset %q: %w", name, err)
	}
	return reg, nil
}

// LoadOrDefault loads the preset name, falling back to def when it is
// missing or broken. Failures other than a missing preset are logged.
func (s *PresetStore) LoadOrDefault(name string, def *Registry) *Registry {
	if !s.Exists(name) {
		return def
	}
	reg, err := s.Load(name)
	if err != nil {
		log.Printf("textfx: %v (using defaults)", err)
		return def
	}
	return reg
}

// Exists reports whether a preset called name was saved.
func (s *PresetStore) Exists(name string) bool {
	if s.manager == nil {
		_, ok := s.memory[name]
		return ok
	}
	names, err := s.index()
	if err != nil {
		log.Printf("textfx: %v", err)
		return false
	}
	return slices.Contains(names, name)
}

// Delete removes the preset name. Deleting a missing preset is not an error.
func (s *PresetStore) Delete(name string) error {
	if s.manager == nil {
		delete(s.memory, name)
		return nil
	}
	names, err := s.index()
	if err != nil {
		return err
	}
	i := slices.Index(names, name)
	if i < 0 {
		return nil
	}
	// The property stays on disk, emptied; the index is what Exists reads.
	if err := s.manager.SaveObjectProp(presetObject, name, nil); err != nil {
		return fmt.Errorf("textfx: delete preset %q: %w", name, err)
	}
	return s.saveIndex(slices.Delete(names, i, i+1))
}

// Names lists the saved presets in sorted order.
func (s *PresetStore) Names() ([]string, error) {
	var names []string
	if s.manager == nil {
		for n := range s.memory {
			names = append(names, n)
		}
	} else {
		idx, err := s.index()
		if err != nil {
			return nil, err
		}
		names = idx
	}
	slices.Sort(names)
	return names, nil
}

func (s *PresetStore) index() ([]string, error) {
	if !s.manager.ObjectPropExists(presetObject, presetIndexProp) {
		return nil, nil
	}
	data, err := s.manager.LoadObjectProp(presetObject, presetIndexProp)
	if err != nil {
		return nil, fmt.Errorf("textfx: load preset index: %w", err)
	}
	return strings.Fields(string(data)), nil
}

func (s *PresetStore) saveIndex(names []string) error {
	data := []byte(strings.Join(names, "\n"))
	if err := s.manager.SaveObjectProp(presetObject, presetIndexProp, data); err != nil {
		return fmt.Errorf("textfx: save preset index: %w", err)
	}
	return nil
}

// checkPresetName rejects names that cannot be stored as a gdata property
// or listed in the index.
func checkPresetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("textfx: preset name is empty")
	case name == presetIndexProp:
		return fmt.Errorf("textfx: preset name %q is reserved", name)
	case strings.ContainsAny(name, " \t\r\n/\\"):
		return fmt.Errorf("textfx: preset name %q contains spaces or slashes", name)
	}
	return nil
}
