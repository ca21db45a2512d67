package model

type Department struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Head      string `json:"head,omitempty"`
	UserCount int    `json:"userCount,omitempty"`
}

type Role struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Permissions []ModulePermission `json:"permissions,omitempty"`
	System      bool               `json:"system,omitempty"`
}

type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PriorityLevel is a configurable ticket priority with its SLA ordering rank.
type PriorityLevel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
	Color string `json:"color,omitempty"`
}

// StatusDefinition is a configurable ticket status; Closed marks terminal states.
type StatusDefinition struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// SLAPolicy binds a priority to response/resolution targets in minutes.
type SLAPolicy struct {
	ID                string `json:"id"`
	Priority          string `json:"priority"`
	ResponseMinutes   int    `json:"responseMinutes"`
	ResolutionMinutes int    `json:"resolutionMinutes"`
}
