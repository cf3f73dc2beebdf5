package store

import (
	"context"
	"errors"

	"github.com/innovatech/employee-portal/pkg/model"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrEmailConflict is returned by FindByEmail when multiple records
	// share an email and the conflict policy is ConflictError.
	ErrEmailConflict = errors.New("multiple records share email")
)

// ConflictPolicy controls FindByEmail behavior when an email is stored
// on more than one record.
type ConflictPolicy string

const (
	// ConflictFirst resolves to the record with the lowest employee id.
	ConflictFirst ConflictPolicy = "first"
	// ConflictError surfaces ErrEmailConflict instead of picking one.
	ConflictError ConflictPolicy = "error"
)

// EmployeeStore defines the interface for employee record backends
// (Redis, PostgreSQL, in-memory).
type EmployeeStore interface {
	// Create generates a new employee id and persists the record with
	// status ACTIVE, returning the id.
	Create(ctx context.Context, input model.EmployeeInput) (string, error)

	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, employeeID string) (*model.Employee, error)

	// FindByEmail resolves a record by its secondary key, applying the
	// configured ConflictPolicy. Matching is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)

	// List returns all records, unordered. Full scan semantics: there is
	// no pagination, callers accept unbounded result size.
	List(ctx context.Context) ([]model.Employee, error)

	// Update merges the given fields into the stored record and returns
	// the result, or ErrNotFound if the id does not exist.
	Update(ctx context.Context, employeeID string, update model.EmployeeUpdate) (*model.Employee, error)
}

// CredentialStore resolves stored login secrets. This system never
// writes credentials; both lookups return ErrNotFound when absent.
type CredentialStore interface {
	ByEmployeeID(ctx context.Context, employeeID string) (*model.Credential, error)
	ByEmail(ctx context.Context, email string) (*model.Credential, error)
}
