package eventbus

import (
	"context"
	"encoding/json"
)

// Source tags every outbound event so downstream consumers can filter
// on the emitting backend.
const Source = "eks.backend"

const (
	DetailTypeEmployeeCreated = "employeeCreated"
	DetailTypeEmployeeDeleted = "employeeDeleted"
)

// Event is the outbound envelope. Ownership of the payload transfers to
// the bus on publish; nothing is persisted locally.
type Event struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detailType"`
	Detail     json.RawMessage `json:"detail"`
}

type EmployeeCreatedDetail struct {
	EmployeeID string `json:"employeeId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type EmployeeDeletedDetail struct {
	EmployeeID  string `json:"employeeId"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	WorkspaceID string `json:"workspaceId"`
	Action      string `json:"action"`
}

func NewEvent(detailType string, detail interface{}) (Event, error) {
	data, err := json.Marshal(detail)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Source:     Source,
		DetailType: detailType,
		Detail:     data,
	}, nil
}

// Publisher delivers one fire-and-forget message to the external bus.
// No retry or durability guarantee is provided on this side; transport
// failures are surfaced to the caller.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
}
