package employee

// Role is the workflow role carried in the access token claims.
type Role string

const (
	RoleEmployee       Role = "employee"
	RoleDirector       Role = "director"
	RoleDepartmentHead Role = "department_head"
	RoleHR             Role = "hr"
)

// Employee is the slim directory view this core consumes. The roster
// itself is owned by the directory module and imported elsewhere.
type Employee struct {
	ID         string
	FullName   string
	Department string
	Position   string
}
