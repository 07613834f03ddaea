// Package approval holds the pure decision logic of the vehicle request
// approval chain. Nothing in this package performs I/O.
package approval

import "vehicle-request-api/internal/model"

// OversightRole is notified of every transition regardless of department.
const OversightRole = model.RoleSuperadmin

// Binding ties an approval level to the role that decides it.
type Binding struct {
	Level            int
	Role             string
	DepartmentScoped bool
	Label            string
}

// Chain is the single role/level table used by both policy checks and
// notification planning.
var Chain = []Binding{
	{Level: 1, Role: model.RoleHeadDepartemen, DepartmentScoped: true, Label: "Head Departemen"},
	{Level: 2, Role: model.RoleGATransport, Label: "GA Transport"},
	{Level: 3, Role: model.RoleGeneralAffair, Label: "General Affair"},
	{Level: 4, Role: model.RoleGeneralService, Label: "General Service"},
}

// BindingFor returns the binding of level, or false when the level is not
// part of the chain.
func BindingFor(level int) (Binding, bool) {
	for _, b := range Chain {
		if b.Level == level {
			return b, true
		}
	}
	return Binding{}, false
}

// LevelLabel is the human readable name of a level.
func LevelLabel(level int) string {
	if b, ok := BindingFor(level); ok {
		return b.Label
	}
	return "Unknown"
}

// ApplicableMaxLevel is 3 for desa_binaan destinations and 4 otherwise.
func ApplicableMaxLevel(locationType string) int {
	if locationType == model.LocationDesaBinaan {
		return 3
	}
	return 4
}

// CanDecide reports whether a user holding role may decide level. Admins
// and the oversight role may decide any level.
func CanDecide(role string, level int) bool {
	if role == model.RoleAdmin || role == OversightRole {
		return true
	}
	b, ok := BindingFor(level)
	return ok && b.Role == role
}
