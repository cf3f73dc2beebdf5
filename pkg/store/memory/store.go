package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/innovatech/employee-portal/pkg/model"
	"github.com/innovatech/employee-portal/pkg/store"
)

// Store is an in-process implementation of both store interfaces, used
// by the memory driver and as the test substitute for the real backends.
type Store struct {
	mu          sync.RWMutex
	employees   map[string]model.Employee
	credentials map[string]model.Credential
	policy      store.ConflictPolicy
}

func NewStore(policy store.ConflictPolicy) *Store {
	return &Store{
		employees:   make(map[string]model.Employee),
		credentials: make(map[string]model.Credential),
		policy:      policy,
	}
}

func (s *Store) Create(ctx context.Context, input model.EmployeeInput) (string, error) {
	now := time.Now().UTC()
	employee := model.Employee{
		EmployeeID:  uuid.NewString(),
		Name:        input.Name,
		Email:       input.Email,
		Department:  input.Department,
		WorkspaceID: input.WorkspaceID,
		Status:      model.EmployeeActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.employees[employee.EmployeeID] = employee
	s.mu.Unlock()

	return employee.EmployeeID, nil
}

func (s *Store) Get(ctx context.Context, employeeID string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &employee, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, 1)
	for id, employee := range s.employees {
		if strings.EqualFold(employee.Email, email) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, store.ErrNotFound
	}
	if len(ids) > 1 && s.policy == store.ConflictError {
		return nil, store.ErrEmailConflict
	}

	sort.Strings(ids)
	employee := s.employees[ids[0]]
	return &employee, nil
}

func (s *Store) List(ctx context.Context) ([]model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]model.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, employee)
	}
	return employees, nil
}

func (s *Store) Update(ctx context.Context, employeeID string, update model.EmployeeUpdate) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, store.ErrNotFound
	}

	employee.Apply(update)
	employee.UpdatedAt = time.Now().UTC()
	s.employees[employeeID] = employee

	return &employee, nil
}

func (s *Store) ByEmployeeID(ctx context.Context, employeeID string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credential, ok := s.credentials[employeeID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &credential, nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, 1)
	for id, credential := range s.credentials {
		if strings.EqualFold(credential.Email, email) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, store.ErrNotFound
	}

	sort.Strings(ids)
	credential := s.credentials[ids[0]]
	return &credential, nil
}

// PutCredential seeds a credential. Stands in for the external
// provisioner that owns the credential write path.
func (s *Store) PutCredential(credential model.Credential) {
	s.mu.Lock()
	s.credentials[credential.EmployeeID] = credential
	s.mu.Unlock()
}

// PutEmployee stores a record verbatim, bypassing id generation.
func (s *Store) PutEmployee(employee model.Employee) {
	s.mu.Lock()
	s.employees[employee.EmployeeID] = employee
	s.mu.Unlock()
}
