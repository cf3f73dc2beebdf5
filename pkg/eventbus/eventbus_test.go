package eventbus

import (
	"encoding/json"
	"testing"
)

func TestNewEventEnvelope(t *testing.T) {
	event, err := NewEvent(DetailTypeEmployeeCreated, EmployeeCreatedDetail{
		EmployeeID: "e1",
		Email:      "ana@x.com",
		Name:       "Ana",
		Department: "Eng",
	})
	if err != nil {
		t.Fatalf("NewEvent() error: %v", err)
	}

	if event.Source != "eks.backend" {
		t.Fatalf("expected source eks.backend, got %q", event.Source)
	}
	if event.DetailType != "employeeCreated" {
		t.Fatalf("expected detail type employeeCreated, got %q", event.DetailType)
	}

	var detail map[string]interface{}
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		t.Fatalf("failed to decode detail: %v", err)
	}
	if detail["employeeId"] != "e1" || detail["email"] != "ana@x.com" {
		t.Fatalf("unexpected detail: %v", detail)
	}
}

func TestDeletedDetailCarriesAction(t *testing.T) {
	event, err := NewEvent(DetailTypeEmployeeDeleted, EmployeeDeletedDetail{
		EmployeeID: "e1",
		Action:     "delete",
	})
	if err != nil {
		t.Fatalf("NewEvent() error: %v", err)
	}

	var detail map[string]interface{}
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		t.Fatalf("failed to decode detail: %v", err)
	}
	if detail["action"] != "delete" {
		t.Fatalf("expected action delete, got %v", detail["action"])
	}
	if _, ok := detail["workspaceId"]; !ok {
		t.Fatal("expected workspaceId key present in deleted detail")
	}
}
