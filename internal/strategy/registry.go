package strategy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a strategy instance for one account.
type Constructor func() Strategy

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register binds a strategy key to its constructor. Later registrations
// under the same key win, which lets tests install fakes.
func Register(key string, ctor Constructor) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || ctor == nil {
		return
	}
	registryMu.Lock()
	registry[key] = ctor
	registryMu.Unlock()
}

// New instantiates the strategy registered under key.
func New(key string) (Strategy, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	registryMu.RLock()
	ctor, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (registered: %s)", key, strings.Join(Keys(), ", "))
	}
	return ctor(), nil
}

// Keys lists registered strategy keys, sorted.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
