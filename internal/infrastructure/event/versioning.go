package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/winroom/backend/internal/domain/shared"
)

// Upgrader rewrites an event payload from one schema version to the next.
// Upgraders are single-step: an event that moved from v1 to v3 registers two
// of them, and the serializer applies them in order.
type Upgrader interface {
	// FromVersion is the schema version this upgrader reads
	FromVersion() int
	// Upgrade rewrites the raw JSON payload to version FromVersion()+1
	Upgrade(payload []byte) ([]byte, error)
}

// MapUpgrader implements Upgrader by round-tripping the payload through a
// map, applying a transform, and stamping the new schema version.
type MapUpgrader struct {
	from  int
	apply func(data map[string]any) (map[string]any, error)
}

// NewMapUpgrader creates an upgrader from a map transform
func NewMapUpgrader(from int, apply func(data map[string]any) (map[string]any, error)) *MapUpgrader {
	return &MapUpgrader{from: from, apply: apply}
}

// FromVersion returns the schema version this upgrader reads
func (u *MapUpgrader) FromVersion() int {
	return u.from
}

// Upgrade rewrites the payload to the next schema version
func (u *MapUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	out, err := u.apply(data)
	if err != nil {
		return nil, err
	}
	out["schema_version"] = u.from + 1

	return json.Marshal(out)
}

var _ Upgrader = (*MapUpgrader)(nil)

// versionEntry holds one event type's current version, the instance used to
// allocate on deserialize, and its upgrader chain keyed by source version.
type versionEntry struct {
	current   int
	instance  shared.DomainEvent
	upgraders map[int]Upgrader
}

// upgrade applies the chain from the payload's version up to current
func (e *versionEntry) upgrade(payload []byte, from int) ([]byte, error) {
	var err error
	for v := from; v < e.current; v++ {
		u, ok := e.upgraders[v]
		if !ok {
			return nil, fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
		payload, err = u.Upgrade(payload)
		if err != nil {
			return nil, fmt.Errorf("upgrade v%d -> v%d: %w", v, v+1, err)
		}
	}
	return payload, nil
}

// versionRegistry maps event type names to their version entries
type versionRegistry struct {
	mu      sync.RWMutex
	entries map[string]*versionEntry
}

func newVersionRegistry() *versionRegistry {
	return &versionRegistry{entries: make(map[string]*versionEntry)}
}

func (r *versionRegistry) registerSimple(eventType string, instance shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[eventType] = &versionEntry{
		current:   1,
		instance:  instance,
		upgraders: make(map[int]Upgrader),
	}
}

func (r *versionRegistry) registerVersioned(eventType string, currentVersion int, instance shared.DomainEvent, upgraders ...Upgrader) error {
	chain := make(map[int]Upgrader, len(upgraders))
	for _, u := range upgraders {
		chain[u.FromVersion()] = u
	}
	for v := 1; v < currentVersion; v++ {
		if _, ok := chain[v]; !ok {
			return fmt.Errorf("event type %s: missing upgrader for version %d -> %d", eventType, v, v+1)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[eventType] = &versionEntry{
		current:   currentVersion,
		instance:  instance,
		upgraders: chain,
	}
	return nil
}

func (r *versionRegistry) lookup(eventType string) (*versionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[eventType]
	return entry, ok
}

func (r *versionRegistry) types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	return out
}

// extractSchemaVersion reads schema_version from a raw payload. Payloads
// written before versioning carry no field and count as version 1.
func extractSchemaVersion(payload []byte) int {
	var header struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(payload, &header); err != nil || header.SchemaVersion == 0 {
		return 1
	}
	return header.SchemaVersion
}
