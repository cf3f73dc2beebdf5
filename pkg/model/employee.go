package model

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeDeleting EmployeeStatus = "DELETING"
)

// Employee is the primary managed record. Records are never hard-deleted
// here: a delete request only flips Status to DELETING, and an external
// worker performs the physical removal after consuming the deleted event.
type Employee struct {
	EmployeeID  string         `json:"employeeId" gorm:"column:employee_id;primaryKey"`
	Name        string         `json:"name"`
	Email       string         `json:"email" gorm:"index"`
	Department  string         `json:"department"`
	WorkspaceID string         `json:"workspaceId,omitempty" gorm:"column:workspace_id"`
	Status      EmployeeStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// EmployeeInput carries the caller-supplied fields for a new record.
type EmployeeInput struct {
	Name        string
	Email       string
	Department  string
	WorkspaceID string
}

// EmployeeUpdate is a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	Name       *string
	Email      *string
	Department *string
	Status     *EmployeeStatus
}

// Apply merges the non-nil fields of update into the record.
func (e *Employee) Apply(update EmployeeUpdate) {
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.Email != nil {
		e.Email = *update.Email
	}
	if update.Department != nil {
		e.Department = *update.Department
	}
	if update.Status != nil {
		e.Status = *update.Status
	}
}

// Credential associates an employee with the secret used for login.
// Credentials are provisioned outside this system and are read-only here.
type Credential struct {
	EmployeeID string `json:"employeeId" gorm:"column:employee_id;primaryKey"`
	Email      string `json:"email" gorm:"index"`
	Password   string `json:"password"`
}
