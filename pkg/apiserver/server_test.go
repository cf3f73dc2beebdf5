package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/innovatech/employee-portal/pkg/config"
	"github.com/innovatech/employee-portal/pkg/eventbus"
	"github.com/innovatech/employee-portal/pkg/model"
	"github.com/innovatech/employee-portal/pkg/store"
	"github.com/innovatech/employee-portal/pkg/store/memory"
)

type capturePublisher struct {
	keys   []string
	events []eventbus.Event
}

func (p *capturePublisher) Publish(ctx context.Context, key string, event eventbus.Event) error {
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

type failPublisher struct{}

func (failPublisher) Publish(ctx context.Context, key string, event eventbus.Event) error {
	return errors.New("broker unreachable")
}

func newTestServer(cfg *config.Config, publisher eventbus.Publisher) (*Server, *memory.Store) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	mem := memory.NewStore(store.ConflictFirst)
	return NewServer(mem, mem, publisher, cfg, zap.NewNop()), mem
}

func performJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(nil, &capturePublisher{})

	recorder := performJSON(t, server, http.MethodGet, "/health", nil)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var response struct {
		Status string `json:"status"`
	}
	decodeBody(t, recorder, &response)
	if response.Status != "ok" {
		t.Fatalf("expected status ok, got %q", response.Status)
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	publisher := &capturePublisher{}
	server, _ := newTestServer(nil, publisher)

	// Create.
	recorder := performJSON(t, server, http.MethodPost, "/employees", map[string]string{
		"name":       "Ana",
		"email":      "ana@x.com",
		"department": "Eng",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("create: expected status %d, got %d (%s)", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var created struct {
		EmployeeID string `json:"employeeId"`
		Status     string `json:"status"`
	}
	decodeBody(t, recorder, &created)
	if created.EmployeeID == "" {
		t.Fatal("create: expected non-empty employeeId")
	}
	if created.Status != "CREATED" {
		t.Fatalf("create: expected status CREATED, got %q", created.Status)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("create: expected 1 published event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.Source != "eks.backend" {
		t.Fatalf("create: expected source eks.backend, got %q", event.Source)
	}
	if event.DetailType != eventbus.DetailTypeEmployeeCreated {
		t.Fatalf("create: expected detail type employeeCreated, got %q", event.DetailType)
	}
	var createdDetail eventbus.EmployeeCreatedDetail
	if err := json.Unmarshal(event.Detail, &createdDetail); err != nil {
		t.Fatalf("create: failed to decode event detail: %v", err)
	}
	if createdDetail.EmployeeID != created.EmployeeID || createdDetail.Email != "ana@x.com" ||
		createdDetail.Name != "Ana" || createdDetail.Department != "Eng" {
		t.Fatalf("create: unexpected event detail: %+v", createdDetail)
	}
	if publisher.keys[0] != created.EmployeeID {
		t.Fatalf("create: expected message key %q, got %q", created.EmployeeID, publisher.keys[0])
	}

	// Get.
	recorder = performJSON(t, server, http.MethodGet, "/employees/"+created.EmployeeID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	var fetched model.Employee
	decodeBody(t, recorder, &fetched)
	if fetched.EmployeeID != created.EmployeeID || fetched.Name != "Ana" ||
		fetched.Email != "ana@x.com" || fetched.Department != "Eng" {
		t.Fatalf("get: unexpected record: %+v", fetched)
	}
	if fetched.Status != model.EmployeeActive {
		t.Fatalf("get: expected status ACTIVE, got %q", fetched.Status)
	}

	// List.
	recorder = performJSON(t, server, http.MethodGet, "/employees", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	var listed []model.Employee
	decodeBody(t, recorder, &listed)
	if len(listed) != 1 {
		t.Fatalf("list: expected 1 record, got %d", len(listed))
	}

	// Update.
	recorder = performJSON(t, server, http.MethodPut, "/employees/"+created.EmployeeID, map[string]string{
		"name":       "Ana",
		"email":      "ana@x.com",
		"department": "Platform",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("update: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	var updated model.Employee
	decodeBody(t, recorder, &updated)
	if updated.Department != "Platform" {
		t.Fatalf("update: expected department Platform, got %q", updated.Department)
	}

	// Updating with the same fields again yields the same record.
	recorder = performJSON(t, server, http.MethodPut, "/employees/"+created.EmployeeID, map[string]string{
		"name":       "Ana",
		"email":      "ana@x.com",
		"department": "Platform",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("update twice: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	var updatedAgain model.Employee
	decodeBody(t, recorder, &updatedAgain)
	if updatedAgain.Name != updated.Name || updatedAgain.Email != updated.Email ||
		updatedAgain.Department != updated.Department || updatedAgain.Status != updated.Status {
		t.Fatalf("update twice: expected identical record, got %+v then %+v", updated, updatedAgain)
	}

	// Delete marks the record, it never removes it.
	recorder = performJSON(t, server, http.MethodDelete, "/employees/"+created.EmployeeID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("delete: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	var deleted struct {
		Deleted    bool   `json:"deleted"`
		EmployeeID string `json:"employeeId"`
		Status     string `json:"status"`
	}
	decodeBody(t, recorder, &deleted)
	if !deleted.Deleted || deleted.EmployeeID != created.EmployeeID || deleted.Status != "DELETING" {
		t.Fatalf("delete: unexpected response: %+v", deleted)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("delete: expected 2 published events, got %d", len(publisher.events))
	}
	event = publisher.events[1]
	if event.DetailType != eventbus.DetailTypeEmployeeDeleted {
		t.Fatalf("delete: expected detail type employeeDeleted, got %q", event.DetailType)
	}
	var deletedDetail eventbus.EmployeeDeletedDetail
	if err := json.Unmarshal(event.Detail, &deletedDetail); err != nil {
		t.Fatalf("delete: failed to decode event detail: %v", err)
	}
	if deletedDetail.Action != "delete" || deletedDetail.EmployeeID != created.EmployeeID {
		t.Fatalf("delete: unexpected event detail: %+v", deletedDetail)
	}

	recorder = performJSON(t, server, http.MethodGet, "/employees/"+created.EmployeeID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get after delete: expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	decodeBody(t, recorder, &fetched)
	if fetched.Status != model.EmployeeDeleting {
		t.Fatalf("get after delete: expected status DELETING, got %q", fetched.Status)
	}
}

func TestUnknownEmployeeReturnsNotFound(t *testing.T) {
	server, _ := newTestServer(nil, &capturePublisher{})

	body := map[string]string{"name": "x", "email": "x@x.com", "department": "y"}
	cases := []struct {
		method string
		body   interface{}
	}{
		{http.MethodGet, nil},
		{http.MethodPut, body},
		{http.MethodDelete, nil},
	}
	for _, tc := range cases {
		recorder := performJSON(t, server, tc.method, "/employees/no-such-id", tc.body)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status %d, got %d", tc.method, http.StatusNotFound, recorder.Code)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	publisher := &capturePublisher{}
	server, _ := newTestServer(nil, publisher)

	cases := []map[string]string{
		{"email": "a@x.com", "department": "Eng"},                     // missing name
		{"name": "Ana", "department": "Eng"},                          // missing email
		{"name": "Ana", "email": "not-an-email", "department": "Eng"}, // malformed email
	}
	for i, body := range cases {
		recorder := performJSON(t, server, http.MethodPost, "/employees", body)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected status %d, got %d", i, http.StatusBadRequest, recorder.Code)
		}
	}

	// Validation failures must not produce side effects.
	if len(publisher.events) != 0 {
		t.Fatalf("expected no published events, got %d", len(publisher.events))
	}
	recorder := performJSON(t, server, http.MethodGet, "/employees", nil)
	var listed []model.Employee
	decodeBody(t, recorder, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected no records, got %d", len(listed))
	}
}

func TestCreatePublishFailureSurfaced(t *testing.T) {
	server, _ := newTestServer(nil, failPublisher{})

	recorder := performJSON(t, server, http.MethodPost, "/employees", map[string]string{
		"name":       "Ana",
		"email":      "ana@x.com",
		"department": "Eng",
	})
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}

	var response struct {
		Error      string `json:"error"`
		EmployeeID string `json:"employeeId"`
	}
	decodeBody(t, recorder, &response)
	if response.EmployeeID == "" {
		t.Fatal("expected employeeId in publish failure response")
	}

	// The record exists even though the publish failed.
	recorder = performJSON(t, server, http.MethodGet, "/employees/"+response.EmployeeID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected persisted record, got status %d", recorder.Code)
	}
}

func TestDeletePublishFailureSurfaced(t *testing.T) {
	mem := memory.NewStore(store.ConflictFirst)

	id, err := mem.Create(context.Background(), model.EmployeeInput{
		Name: "Ana", Email: "ana@x.com", Department: "Eng",
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}

	failing := NewServer(mem, mem, failPublisher{}, &config.Config{}, zap.NewNop())
	recorder := performJSON(t, failing, http.MethodDelete, "/employees/"+id, nil)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}

	// The status flip happens before the publish; the record stays DELETING.
	employee, err := mem.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get after failed delete: %v", err)
	}
	if employee.Status != model.EmployeeDeleting {
		t.Fatalf("expected status DELETING, got %q", employee.Status)
	}
}

func TestCORSAllowAllByDefault(t *testing.T) {
	server, _ := newTestServer(nil, &capturePublisher{})

	req := httptest.NewRequest(http.MethodOptions, "/employees", nil)
	req.Header.Set("Origin", "https://portal.innovatech.com")
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected allow-origin *, got %q", got)
	}
}

func TestCORSConfiguredOrigins(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = "https://portal.innovatech.com"
	server, _ := newTestServer(cfg, &capturePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://portal.innovatech.com")
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.innovatech.com" {
		t.Fatalf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin for unlisted origin, got %q", got)
	}
}
