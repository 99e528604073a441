package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

func (r *practitionerRepository) Create(ctx context.Context, p *model.Practitioner) error {
	query := `
		INSERT INTO practitioners (
			id, name, email, timezone, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.Timezone,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	r.observe("practitioner_create", start, err)
	if err != nil {
		return fmt.Errorf("failed to create practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	query := `
		SELECT id, name, email, timezone, status, created_at, updated_at
		FROM practitioners
		WHERE id = $1
	`
	start := time.Now()
	var p model.Practitioner
	err := r.db.GetContext(ctx, &p, query, id)
	r.observe("practitioner_get", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &p, nil
}

func (r *practitionerRepository) List(ctx context.Context) ([]*model.Practitioner, error) {
	query := `
		SELECT id, name, email, timezone, status, created_at, updated_at
		FROM practitioners
		ORDER BY name ASC
	`
	start := time.Now()
	var practitioners []*model.Practitioner
	err := r.db.SelectContext(ctx, &practitioners, query)
	r.observe("practitioner_list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return practitioners, nil
}
