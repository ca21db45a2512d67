package client

import (
	"context"

	"helpdesk-console/internal/model"
	"helpdesk-console/internal/pipeline"
)

// SettingsAPI covers ticket configuration: categories, priorities, statuses,
// and SLA policies.
type SettingsAPI struct {
	pipe *pipeline.Client
}

func NewSettingsAPI(deps Deps) *SettingsAPI {
	return &SettingsAPI{pipe: deps.pipeline("/api/settings")}
}

func (s *SettingsAPI) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.pipe.Get(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *SettingsAPI) SaveCategory(ctx context.Context, category model.Category) (*model.Category, error) {
	var saved model.Category
	var err error
	if category.ID == "" {
		err = s.pipe.Post(ctx, "/categories", category, &saved)
	} else {
		err = s.pipe.Put(ctx, "/categories/"+category.ID, category, &saved)
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *SettingsAPI) DeleteCategory(ctx context.Context, id string) error {
	return s.pipe.Delete(ctx, "/categories/"+id, nil)
}

func (s *SettingsAPI) Priorities(ctx context.Context) ([]model.PriorityLevel, error) {
	var priorities []model.PriorityLevel
	if err := s.pipe.Get(ctx, "/priorities", nil, &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}

func (s *SettingsAPI) SavePriority(ctx context.Context, priority model.PriorityLevel) (*model.PriorityLevel, error) {
	var saved model.PriorityLevel
	var err error
	if priority.ID == "" {
		err = s.pipe.Post(ctx, "/priorities", priority, &saved)
	} else {
		err = s.pipe.Put(ctx, "/priorities/"+priority.ID, priority, &saved)
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *SettingsAPI) DeletePriority(ctx context.Context, id string) error {
	return s.pipe.Delete(ctx, "/priorities/"+id, nil)
}

func (s *SettingsAPI) Statuses(ctx context.Context) ([]model.StatusDefinition, error) {
	var statuses []model.StatusDefinition
	if err := s.pipe.Get(ctx, "/statuses", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *SettingsAPI) SaveStatus(ctx context.Context, status model.StatusDefinition) (*model.StatusDefinition, error) {
	var saved model.StatusDefinition
	var err error
	if status.ID == "" {
		err = s.pipe.Post(ctx, "/statuses", status, &saved)
	} else {
		err = s.pipe.Put(ctx, "/statuses/"+status.ID, status, &saved)
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *SettingsAPI) DeleteStatus(ctx context.Context, id string) error {
	return s.pipe.Delete(ctx, "/statuses/"+id, nil)
}

func (s *SettingsAPI) SLAPolicies(ctx context.Context) ([]model.SLAPolicy, error) {
	var policies []model.SLAPolicy
	if err := s.pipe.Get(ctx, "/sla", nil, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

func (s *SettingsAPI) SaveSLAPolicy(ctx context.Context, policy model.SLAPolicy) (*model.SLAPolicy, error) {
	var saved model.SLAPolicy
	var err error
	if policy.ID == "" {
		err = s.pipe.Post(ctx, "/sla", policy, &saved)
	} else {
		err = s.pipe.Put(ctx, "/sla/"+policy.ID, policy, &saved)
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *SettingsAPI) DeleteSLAPolicy(ctx context.Context, id string) error {
	return s.pipe.Delete(ctx, "/sla/"+id, nil)
}
