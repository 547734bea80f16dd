package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

type groupRepo struct {
	q sqlx.ExtContext
}

// NewGroupRepo creates a PostgreSQL-backed GroupRepository. It accepts either
// the pool or a transaction.
func NewGroupRepo(q sqlx.ExtContext) port.GroupRepository {
	return &groupRepo{q: q}
}

func (r *groupRepo) Create(ctx context.Context, group *domain.Group) error {
	group.CreatedAt = time.Now().UTC()

	query := `INSERT INTO groups (name, note, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := sqlx.GetContext(ctx, r.q, &group.ID, query, group.Name, group.Note, group.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateGroupName
		}
		return fmt.Errorf("groupRepo.Create: %w", err)
	}
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	var group domain.Group
	err := sqlx.GetContext(ctx, r.q, &group, `SELECT * FROM groups WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("groupRepo.GetByID: %w", err)
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]domain.GroupWithServices, error) {
	var groups []domain.GroupWithServices
	query := `
		SELECT g.*,
			(SELECT COUNT(*) FROM services WHERE group_id = g.id) AS service_count
		FROM groups g
		ORDER BY g.name`
	if err := sqlx.SelectContext(ctx, r.q, &groups, query); err != nil {
		return nil, fmt.Errorf("groupRepo.List: %w", err)
	}

	var services []domain.Service
	err := sqlx.SelectContext(ctx, r.q, &services,
		`SELECT * FROM services WHERE group_id IS NOT NULL ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("groupRepo.List services: %w", err)
	}

	byGroup := make(map[int64][]domain.Service, len(groups))
	for _, s := range services {
		byGroup[*s.GroupID] = append(byGroup[*s.GroupID], s)
	}
	for i := range groups {
		groups[i].Services = byGroup[groups[i].ID]
		if groups[i].Services == nil {
			groups[i].Services = []domain.Service{}
		}
	}
	return groups, nil
}

func (r *groupRepo) Update(ctx context.Context, group *domain.Group) error {
	query := `UPDATE groups SET name = $1, note = $2 WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, group.Name, group.Note, group.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateGroupName
		}
		return fmt.Errorf("groupRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, id int64) error {
	// services.group_id is ON DELETE SET NULL; the services themselves survive.
	result, err := r.q.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("groupRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}
