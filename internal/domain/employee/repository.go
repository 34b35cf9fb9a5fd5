package employee

import "context"

// Directory resolves employee references. It is an external
// collaborator of the leave core; only lookups are consumed here.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListByDepartment returns the colleagues eligible as replacement
	// for an employee of that department.
	ListByDepartment(ctx context.Context, department string) ([]Employee, error)
}
