package event

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/livesale/backend/internal/domain/shared"
)

// eventFactory returns an empty event ready to be decoded into
type eventFactory struct {
	newEvent      func() shared.DomainEvent
	schemaVersion int
}

// EventSerializer encodes domain events as JSON and decodes them back by event type.
// Decoding refuses payloads written with a newer schema version than the one registered.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]eventFactory
}

// NewEventSerializer creates an empty serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]eventFactory)}
}

// Register makes eventType decodable. newEvent must return a pointer.
func (s *EventSerializer) Register(eventType string, schemaVersion int, newEvent func() shared.DomainEvent) {
	if schemaVersion <= 0 {
		schemaVersion = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[eventType] = eventFactory{newEvent: newEvent, schemaVersion: schemaVersion}
}

// Serialize encodes the event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes data into the type registered for eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	f, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	var header struct {
		Type    string `json:"type"`
		Version int    `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", eventType, err)
	}
	if header.Type != "" && header.Type != eventType {
		return nil, fmt.Errorf("payload is %s, expected %s", header.Type, eventType)
	}
	if header.Version > f.schemaVersion {
		return nil, fmt.Errorf("%s schema version %d is newer than supported %d", eventType, header.Version, f.schemaVersion)
	}

	event := f.newEvent()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return event, nil
}

// SchemaVersion returns the registered version of eventType, 0 if unknown
func (s *EventSerializer) SchemaVersion(eventType string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factories[eventType].schemaVersion
}

// IsRegistered reports whether eventType can be decoded
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes returns the decodable event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
