package game

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Rules)
)

// Register adds a rules engine under its metadata name, replacing any previous one
func Register(rules Rules) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[rules.Metadata().Name] = rules
}

// Lookup retrieves a rules engine by name
func Lookup(name string) (Rules, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	rules, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}
	return rules, nil
}

// Names returns all registered game names, sorted
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
