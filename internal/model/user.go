package model

// Capability flags understood by the permission evaluator. The backend's
// permission matrix uses these exact strings; lookups are case-sensitive.
const (
	CapRead   = "READ"
	CapCreate = "CREATE"
	CapUpdate = "UPDATE"
	CapDelete = "DELETE"

	CapCreateTicket     = "CREATE_TICKET"
	CapAssignTicket     = "ASSIGN_TICKET"
	CapManageUsers      = "MANAGE_USERS"
	CapViewReports      = "VIEW_REPORTS"
	CapSevenDayTrends   = "SEVEN_DAY_TRENDS"
	CapTicketByStatus   = "TICKET_BY_STATUS"
	CapTicketByPriority = "TICKET_BY_PRIORITY"
)

// ModulePermission is one row of a role's permission matrix: a module name
// and an open map of capability flags. A missing flag means denied.
type ModulePermission struct {
	ModuleName  string          `json:"moduleName"`
	Permissions map[string]bool `json:"permissions"`
}

// UserProfile is the signed-in user's identity as returned by the backend on
// login or profile refresh. It is stored encrypted alongside the bearer token
// and is never mutated locally.
type UserProfile struct {
	UserID                  string             `json:"userId"`
	FullName                string             `json:"fullName"`
	Email                   string             `json:"email"`
	RoleName                string             `json:"roleName"`
	DepartmentName          string             `json:"departmentName,omitempty"`
	UnreadNotificationCount int                `json:"unreadNotificationCount"`
	RolePermissions         []ModulePermission `json:"rolePermissions"`
}

// User is an administrable account as exposed by the backend's user module.
type User struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	RoleID       string `json:"roleId"`
	RoleName     string `json:"roleName"`
	DepartmentID string `json:"departmentId,omitempty"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's login payload: an opaque bearer token plus
// the profile that feeds every permission check.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
