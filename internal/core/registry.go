package core

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]ScreenDefinition)
	registryMu sync.RWMutex
)

// Register adds a screen definition to the registry.
// Panics if a screen with the same key is already registered.
func Register(def ScreenDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("screen already registered: %s", def.Info.Key))
	}
	if def.Info.Table == "" {
		def.Info.Table = def.Info.Key
	}
	def.Fields = slices.Clone(def.Fields)
	for i := range def.Fields {
		if def.Fields[i].Label == "" {
			def.Fields[i].Label = EnumLabel(def.Fields[i].Name)
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a screen definition by key.
// Returns false if not found.
func Get(key string) (ScreenDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Lookup is Get with an error wrapping ErrUnknownScreen.
func Lookup(key string) (ScreenDefinition, error) {
	def, ok := Get(key)
	if !ok {
		return ScreenDefinition{}, fmt.Errorf("%w: %s", ErrUnknownScreen, key)
	}
	return def, nil
}

// All returns all registered screen definitions.
// Sorted by group then by key for consistent ordering.
func All() []ScreenDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ScreenDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// ByGroup returns all screen definitions for a specific group.
// Sorted by key for consistent ordering.
func ByGroup(group string) []ScreenDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []ScreenDefinition
	for _, def := range registry {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Screens returns display information for every registered screen.
func Screens() []ScreenInfo {
	defs := All()
	infos := make([]ScreenInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Clear removes all registered screens.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ScreenDefinition)
}
