package shared

import (
	"time"

	"github.com/google/uuid"
)

// Now is the clock for entity timestamps. Values are UTC with microsecond
// precision so they survive a round trip through timestamptz unchanged.
var Now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Entity is anything identified by a UUID
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch moves UpdatedAt forward; it never goes back past CreatedAt
func (e *BaseEntity) Touch() {
	now := Now()
	if now.Before(e.CreatedAt) {
		now = e.CreatedAt
	}
	e.UpdatedAt = now
}

// NewBaseEntity allocates an ID stamped with the current time
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}
