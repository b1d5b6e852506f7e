package user

import (
	"time"

	"github.com/escolardev/escolar/core"
)

// Roles. Exact wire values; case-sensitive.
const (
	RoleAdmin   = Role("ADMIN")
	RoleTeacher = Role("DOCENTE")
	RoleStudent = Role("ESTUDIANTE")
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

type Role string

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Panels. Each protected view belongs to exactly one.
const (
	PanelAdmin   = Panel("admin")
	PanelTeacher = Panel("teacher")
	PanelStudent = Panel("student")
)

type Panel string

var panelRoles = map[Panel]Role{
	PanelAdmin:   RoleAdmin,
	PanelTeacher: RoleTeacher,
	PanelStudent: RoleStudent,
}

// CanAccess is the single authorization gate; every protected view consults
// it and nothing else. ADMIN passes every panel gate (oversight access).
func (r Role) CanAccess(p Panel) bool {
	required, ok := panelRoles[p]
	if !ok {
		return false
	}
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User is looked up by DNI on login. The DNI is an identifier, not a secret.
type User struct {
	ID        string    `json:"id"`
	DNI       string    `json:"dni"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	DNI  string `json:"dni" validate:"required"`
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.DNI = core.CleanString(nu.DNI)
	nu.Name = core.CleanString(nu.Name)
	nu.Role = core.CleanString(nu.Role)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.DNI)
}
