package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

// UpdateServiceInput is the DTO for reassigning or relabeling a service.
// GroupID is raw JSON so the three cases stay distinct: absent = unchanged,
// null = unassign, number = assign to that group.
type UpdateServiceInput struct {
	Label   *string         `json:"label"`
	GroupID json.RawMessage `json:"group_id"`
}

// ReconcileInput is the DTO for the standalone reconcile endpoint.
type ReconcileInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Label      string `json:"label"`
}

// RegistryService manages the service registry: listing, administrative
// reassignment, and the find-or-create reconciliation used by ingestion.
type RegistryService interface {
	List(ctx context.Context) ([]domain.ServiceWithGroup, error)
	Get(ctx context.Context, id int64) (*domain.ServiceWithGroup, error)
	Update(ctx context.Context, id int64, input UpdateServiceInput) (*domain.ServiceWithGroup, error)
	Reconcile(ctx context.Context, identifier, label string) (int64, error)
}

type registryService struct {
	services port.ServiceRepository
	groups   port.GroupRepository
}

// NewRegistryService creates a new RegistryService implementation.
func NewRegistryService(services port.ServiceRepository, groups port.GroupRepository) RegistryService {
	return &registryService{services: services, groups: groups}
}

func (s *registryService) List(ctx context.Context) ([]domain.ServiceWithGroup, error) {
	return s.services.List(ctx)
}

func (s *registryService) Get(ctx context.Context, id int64) (*domain.ServiceWithGroup, error) {
	return s.services.GetWithGroup(ctx, id)
}

func (s *registryService) Update(ctx context.Context, id int64, input UpdateServiceInput) (*domain.ServiceWithGroup, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		if *input.Label == "" {
			svc.Label = nil
		} else {
			svc.Label = input.Label
		}
	}

	if len(input.GroupID) > 0 {
		if string(input.GroupID) == "null" {
			svc.GroupID = nil
		} else {
			groupID, err := strconv.ParseInt(string(input.GroupID), 10, 64)
			if err != nil {
				return nil, domain.ErrGroupNotFound
			}
			if _, err := s.groups.GetByID(ctx, groupID); err != nil {
				return nil, err
			}
			svc.GroupID = &groupID
		}
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return s.services.GetWithGroup(ctx, id)
}

func (s *registryService) Reconcile(ctx context.Context, identifier, label string) (int64, error) {
	return reconcileService(ctx, s.services, identifier, label)
}

// reconcileService maps a parsed identifier to a persistent service record,
// creating it when absent. A non-empty label that differs from the stored one
// (or fills an empty one) overwrites it: the latest document is the source of
// truth for display names. Shared with ingestion, which calls it with
// transaction-bound repositories.
func reconcileService(ctx context.Context, services port.ServiceRepository, identifier, label string) (int64, error) {
	existing, err := services.GetByIdentifier(ctx, identifier)
	if err == nil {
		if label != "" && (existing.Label == nil || *existing.Label != label) {
			if err := services.UpdateLabel(ctx, existing.ID, label); err != nil {
				return 0, err
			}
		}
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrServiceNotFound) {
		return 0, err
	}

	svc := &domain.Service{
		Identifier: identifier,
		Type:       domain.DetectServiceType(identifier),
	}
	if label != "" {
		svc.Label = &label
	}
	if err := services.Create(ctx, svc); err != nil {
		return 0, err
	}
	return svc.ID, nil
}
