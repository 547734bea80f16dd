package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

type serviceRepo struct {
	q sqlx.ExtContext
}

// NewServiceRepo creates a PostgreSQL-backed ServiceRepository. It accepts
// either the pool or a transaction.
func NewServiceRepo(q sqlx.ExtContext) port.ServiceRepository {
	return &serviceRepo{q: q}
}

func (r *serviceRepo) Create(ctx context.Context, service *domain.Service) error {
	service.CreatedAt = time.Now().UTC()

	query := `INSERT INTO services (identifier, label, type, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := sqlx.GetContext(ctx, r.q, &service.ID, query,
		service.Identifier, service.Label, service.Type, service.GroupID, service.CreatedAt)
	if err != nil {
		return fmt.Errorf("serviceRepo.Create: %w", err)
	}
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var service domain.Service
	err := sqlx.GetContext(ctx, r.q, &service, `SELECT * FROM services WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("serviceRepo.GetByID: %w", err)
	}
	return &service, nil
}

func (r *serviceRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Service, error) {
	var service domain.Service
	err := sqlx.GetContext(ctx, r.q, &service, `SELECT * FROM services WHERE identifier = $1`, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("serviceRepo.GetByIdentifier: %w", err)
	}
	return &service, nil
}

func (r *serviceRepo) GetWithGroup(ctx context.Context, id int64) (*domain.ServiceWithGroup, error) {
	var service domain.ServiceWithGroup
	query := `
		SELECT s.*, g.name AS group_name
		FROM services s
		LEFT JOIN groups g ON g.id = s.group_id
		WHERE s.id = $1`
	err := sqlx.GetContext(ctx, r.q, &service, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("serviceRepo.GetWithGroup: %w", err)
	}
	return &service, nil
}

func (r *serviceRepo) List(ctx context.Context) ([]domain.ServiceWithGroup, error) {
	var services []domain.ServiceWithGroup
	query := `
		SELECT s.*, g.name AS group_name
		FROM services s
		LEFT JOIN groups g ON g.id = s.group_id
		ORDER BY s.type, s.identifier`
	if err := sqlx.SelectContext(ctx, r.q, &services, query); err != nil {
		return nil, fmt.Errorf("serviceRepo.List: %w", err)
	}
	return services, nil
}

// UpdateLabel overwrites the stored display label unless it already matches.
// A previously empty label never blocks the overwrite; the latest document
// is the source of truth for naming.
func (r *serviceRepo) UpdateLabel(ctx context.Context, id int64, label string) error {
	query := `UPDATE services SET label = $1 WHERE id = $2 AND (label IS NULL OR label != $1)`
	if _, err := r.q.ExecContext(ctx, query, label, id); err != nil {
		return fmt.Errorf("serviceRepo.UpdateLabel: %w", err)
	}
	return nil
}

func (r *serviceRepo) Update(ctx context.Context, service *domain.Service) error {
	query := `UPDATE services SET label = $1, group_id = $2 WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, service.Label, service.GroupID, service.ID)
	if err != nil {
		return fmt.Errorf("serviceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}
