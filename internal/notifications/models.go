package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ParticipationEventType string

const (
	ParticipationEventSignedUp     ParticipationEventType = "SIGNED_UP"
	ParticipationEventUnregistered ParticipationEventType = "UNREGISTERED"
)

// ParticipationEvent records one change to an activity roster
type ParticipationEvent struct {
	ID         uuid.UUID              `json:"id"`
	Type       ParticipationEventType `json:"type"`
	Activity   string                 `json:"activity"`
	Email      string                 `json:"email"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewParticipationEvent(eventType ParticipationEventType, activity, email string) *ParticipationEvent {
	return &ParticipationEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// GetPartitionKey keeps every event of one activity on the same partition
func (e *ParticipationEvent) GetPartitionKey() string {
	return e.Activity
}

func (e *ParticipationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ParticipationEventFromJSON(data []byte) (*ParticipationEvent, error) {
	var event ParticipationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
