package model

import "testing"

func TestApplyMergesOnlyGivenFields(t *testing.T) {
	employee := Employee{
		EmployeeID: "e1",
		Name:       "Ana",
		Email:      "ana@x.com",
		Department: "Eng",
		Status:     EmployeeActive,
	}

	department := "Platform"
	employee.Apply(EmployeeUpdate{Department: &department})

	if employee.Department != "Platform" {
		t.Fatalf("expected department Platform, got %q", employee.Department)
	}
	if employee.Name != "Ana" || employee.Email != "ana@x.com" || employee.Status != EmployeeActive {
		t.Fatalf("untouched fields changed: %+v", employee)
	}
}

func TestApplyStatusTransition(t *testing.T) {
	employee := Employee{EmployeeID: "e1", Status: EmployeeActive}

	deleting := EmployeeDeleting
	employee.Apply(EmployeeUpdate{Status: &deleting})

	if employee.Status != EmployeeDeleting {
		t.Fatalf("expected status DELETING, got %q", employee.Status)
	}
}

func TestApplyEmptyUpdateIsNoop(t *testing.T) {
	employee := Employee{EmployeeID: "e1", Name: "Ana", Status: EmployeeActive}
	before := employee

	employee.Apply(EmployeeUpdate{})

	if employee != before {
		t.Fatalf("expected record unchanged, got %+v", employee)
	}
}
