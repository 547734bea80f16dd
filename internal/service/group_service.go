package service

import (
	"context"

	"github.com/rs/zerolog"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

// CreateGroupInput carries the fields accepted when creating a group.
type CreateGroupInput struct {
	Name string  `json:"name" binding:"required"`
	Note *string `json:"note"`
}

// UpdateGroupInput carries the fields accepted when updating a group.
// Nil fields stay unchanged.
type UpdateGroupInput struct {
	Name *string `json:"name"`
	Note *string `json:"note"`
}

// GroupService manages cost-center groups.
type GroupService interface {
	Create(ctx context.Context, input CreateGroupInput) (*domain.Group, error)
	List(ctx context.Context) ([]domain.GroupWithServices, error)
	Get(ctx context.Context, id int64) (*domain.Group, error)
	Update(ctx context.Context, id int64, input UpdateGroupInput) (*domain.Group, error)

	// Delete removes the group. Services assigned to it become unassigned;
	// historical payments referencing it are removed with it.
	Delete(ctx context.Context, id int64) error
}

type groupService struct {
	groups port.GroupRepository
	log    zerolog.Logger
}

// NewGroupService creates a new GroupService implementation.
func NewGroupService(groups port.GroupRepository, log zerolog.Logger) GroupService {
	return &groupService{groups: groups, log: log}
}

func (s *groupService) Create(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	group := &domain.Group{Name: input.Name, Note: input.Note}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	s.log.Info().Int64("group_id", group.ID).Str("name", group.Name).Msg("group created")
	return group, nil
}

func (s *groupService) List(ctx context.Context) ([]domain.GroupWithServices, error) {
	return s.groups.List(ctx)
}

func (s *groupService) Get(ctx context.Context, id int64) (*domain.Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *groupService) Update(ctx context.Context, id int64, input UpdateGroupInput) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		group.Name = *input.Name
	}
	if input.Note != nil {
		group.Note = input.Note
	}
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, id int64) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("group_id", id).Msg("group deleted")
	return nil
}
