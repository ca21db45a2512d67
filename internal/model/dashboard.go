package model

type DashboardSummary struct {
	OpenTickets       int `json:"openTickets"`
	UnassignedTickets int `json:"unassignedTickets"`
	OverdueTickets    int `json:"overdueTickets"`
	ResolvedToday     int `json:"resolvedToday"`
}

// TrendPoint is one day of the seven-day created/resolved trend.
type TrendPoint struct {
	Date     string `json:"date"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
}

// BucketCount is a labeled count used by the by-status and by-priority charts.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ReportFilter struct {
	From         string
	To           string
	DepartmentID string
	Page         int
	Limit        int
}

type ReportRow struct {
	TicketNumber      string `json:"ticketNumber"`
	Subject           string `json:"subject"`
	Department        string `json:"department"`
	Assignee          string `json:"assignee"`
	Priority          string `json:"priority"`
	Status            string `json:"status"`
	OpenedAt          string `json:"openedAt"`
	ResolvedAt        string `json:"resolvedAt,omitempty"`
	ResolutionMinutes int    `json:"resolutionMinutes,omitempty"`
	SLABreached       bool   `json:"slaBreached"`
}
