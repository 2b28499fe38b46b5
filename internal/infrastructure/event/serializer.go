package event

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/shared"
)

// EventSerializer converts domain events to and from their outbox JSON
// payloads. Event types register with a schema version; payloads written at
// an older version are upgraded on read before unmarshaling, so handlers
// only ever see the current shape.
type EventSerializer struct {
	registry *versionRegistry
	log      *zap.Logger
}

// NewEventSerializer creates an event serializer
func NewEventSerializer(log *zap.Logger) *EventSerializer {
	return &EventSerializer{
		registry: newVersionRegistry(),
		log:      log,
	}
}

// Register registers an event type whose payload has never changed shape
// (schema version 1, no upgraders).
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	s.registry.registerSimple(eventType, instance)
}

// RegisterVersioned registers an event type at its current schema version
// together with the upgrader chain that rewrites older payloads. The chain
// must cover every step from version 1 to currentVersion.
func (s *EventSerializer) RegisterVersioned(eventType string, currentVersion int, instance shared.DomainEvent, upgraders ...Upgrader) error {
	return s.registry.registerVersioned(eventType, currentVersion, instance, upgraders...)
}

// Serialize marshals a domain event to its outbox payload
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize unmarshals an outbox payload into the registered event type,
// first upgrading the payload if it was written at an older schema version.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	entry, ok := s.registry.lookup(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	payload := data
	if from := extractSchemaVersion(data); from < entry.current {
		upgraded, err := entry.upgrade(payload, from)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade %s payload: %w", eventType, err)
		}
		if s.log != nil {
			s.log.Debug("upgraded event payload",
				zap.String("event_type", eventType),
				zap.Int("from_version", from),
				zap.Int("to_version", entry.current),
			)
		}
		payload = upgraded
	}

	t := reflect.TypeOf(entry.instance)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	ptr := reflect.New(t).Interface()

	if err := json.Unmarshal(payload, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	_, ok := s.registry.lookup(eventType)
	return ok
}

// RegisteredTypes returns all registered event types
func (s *EventSerializer) RegisteredTypes() []string {
	return s.registry.types()
}

// CurrentVersion returns the current schema version for an event type
func (s *EventSerializer) CurrentVersion(eventType string) (int, bool) {
	entry, ok := s.registry.lookup(eventType)
	if !ok {
		return 0, false
	}
	return entry.current, true
}
