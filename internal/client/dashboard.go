package client

import (
	"context"
	"net/url"
	"strconv"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

type DashboardAPI struct {
	pipe *pipeline.Client
}

func NewDashboardAPI(deps Deps) *DashboardAPI {
	return &DashboardAPI{pipe: deps.pipeline("/api/dashboard")}
}

func (d *DashboardAPI) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if err := d.pipe.Get(ctx, "/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (d *DashboardAPI) SevenDayTrend(ctx context.Context) ([]model.TrendPoint, error) {
	var trend []model.TrendPoint
	if err := d.pipe.Get(ctx, "/trends/seven-day", nil, &trend); err != nil {
		return nil, err
	}
	return trend, nil
}

func (d *DashboardAPI) TicketsByStatus(ctx context.Context) ([]model.BucketCount, error) {
	var buckets []model.BucketCount
	if err := d.pipe.Get(ctx, "/tickets/by-status", nil, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (d *DashboardAPI) TicketsByPriority(ctx context.Context) ([]model.BucketCount, error) {
	var buckets []model.BucketCount
	if err := d.pipe.Get(ctx, "/tickets/by-priority", nil, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

type ReportAPI struct {
	pipe *pipeline.Client
}

func NewReportAPI(deps Deps) *ReportAPI {
	return &ReportAPI{pipe: deps.pipeline("/api/reports")}
}

type ReportPage struct {
	Items []model.ReportRow `json:"items"`
	Total int               `json:"total"`
}

func (r *ReportAPI) Tickets(ctx context.Context, filter model.ReportFilter) (*ReportPage, error) {
	query := url.Values{}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	if filter.DepartmentID != "" {
		query.Set("departmentId", filter.DepartmentID)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var page ReportPage
	if err := r.pipe.Get(ctx, "/tickets", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
