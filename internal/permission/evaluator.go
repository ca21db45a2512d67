// Package permission answers "may this user do that" from the permission
// matrix carried on the session profile. Every lookup is deny-by-default: a
// missing profile, module, or flag evaluates to false, never to an error.
package permission

import (
	"helpdesk-console/internal/model"
)

// Console module names as configured on the backend's permission matrix.
// Lookups match these strings exactly; there is no fuzzy matching.
const (
	ModuleDashboard   = "Dashboard"
	ModuleTickets     = "Tickets"
	ModuleUsers       = "Users"
	ModuleDepartments = "Departments"
	ModuleRoles       = "Roles"
	ModuleSettings    = "Settings"
	ModuleReports     = "Reports"
)

// Evaluator performs capability checks against one user's permission matrix.
// It is a pure value: construct it per request from the session profile and
// call it as often as rendering requires.
type Evaluator struct {
	profile *model.UserProfile
}

// NewEvaluator accepts a nil profile, which denies everything.
func NewEvaluator(profile *model.UserProfile) Evaluator {
	return Evaluator{profile: profile}
}

// Permissions returns the profile's permission matrix, empty when signed out.
func (e Evaluator) Permissions() []model.ModulePermission {
	if e.profile == nil {
		return []model.ModulePermission{}
	}
	return e.profile.RolePermissions
}

// Has is the single lookup primitive every named check delegates to.
func (e Evaluator) Has(module string, capability string) bool {
	if e.profile == nil {
		return false
	}

	for _, entry := range e.profile.RolePermissions {
		if entry.ModuleName == module {
			return entry.Permissions[capability]
		}
	}

	return false
}

func (e Evaluator) CanView(module string) bool   { return e.Has(module, model.CapRead) }
func (e Evaluator) CanAdd(module string) bool    { return e.Has(module, model.CapCreate) }
func (e Evaluator) CanEdit(module string) bool   { return e.Has(module, model.CapUpdate) }
func (e Evaluator) CanDelete(module string) bool { return e.Has(module, model.CapDelete) }

func (e Evaluator) CanCreateTicket(module string) bool { return e.Has(module, model.CapCreateTicket) }
func (e Evaluator) CanAssignTicket(module string) bool { return e.Has(module, model.CapAssignTicket) }
func (e Evaluator) CanManageUsers(module string) bool  { return e.Has(module, model.CapManageUsers) }
func (e Evaluator) CanViewReports(module string) bool  { return e.Has(module, model.CapViewReports) }

func (e Evaluator) CanViewSevenDayTrends(module string) bool {
	return e.Has(module, model.CapSevenDayTrends)
}

func (e Evaluator) CanViewTicketByStatus(module string) bool {
	return e.Has(module, model.CapTicketByStatus)
}

func (e Evaluator) CanViewTicketByPriority(module string) bool {
	return e.Has(module, model.CapTicketByPriority)
}
