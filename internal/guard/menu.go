package guard

import (
	"helpdesk-console/internal/model"
	"helpdesk-console/internal/permission"
)

// MenuEntry is one navigable console screen. Entries whose module the user
// cannot view are omitted from the menu entirely, not rendered disabled, so
// denied screens are not discoverable through the UI.
type MenuEntry struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Module string `json:"module"`
	Icon   string `json:"icon"`
}

var menuRegistry = []MenuEntry{
	{Title: "Dashboard", Path: DashboardPath, Module: permission.ModuleDashboard, Icon: "gauge"},
	{Title: "Tickets", Path: "/tickets", Module: permission.ModuleTickets, Icon: "ticket"},
	{Title: "Users", Path: "/users", Module: permission.ModuleUsers, Icon: "users"},
	{Title: "Departments", Path: "/departments", Module: permission.ModuleDepartments, Icon: "building"},
	{Title: "Roles", Path: "/roles", Module: permission.ModuleRoles, Icon: "shield"},
	{Title: "Settings", Path: "/settings", Module: permission.ModuleSettings, Icon: "cog"},
	{Title: "Reports", Path: "/reports", Module: permission.ModuleReports, Icon: "chart"},
}

// Menu returns the entries the evaluator grants READ on, in registry order.
func Menu(ev permission.Evaluator) []MenuEntry {
	entries := []MenuEntry{}
	for _, entry := range menuRegistry {
		if ev.CanView(entry.Module) {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Allowances reports every capability flag of one module so the front-end
// renders only permitted action controls. Missing flags read as false.
func Allowances(ev permission.Evaluator, module string) map[string]bool {
	flags := []string{
		model.CapRead,
		model.CapCreate,
		model.CapUpdate,
		model.CapDelete,
		model.CapCreateTicket,
		model.CapAssignTicket,
		model.CapManageUsers,
		model.CapViewReports,
		model.CapSevenDayTrends,
		model.CapTicketByStatus,
		model.CapTicketByPriority,
	}

	allowed := make(map[string]bool, len(flags))
	for _, flag := range flags {
		allowed[flag] = ev.Has(module, flag)
	}
	return allowed
}
