package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"go.uber.org/zap"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Lead, error)
	CountAll(ctx context.Context) (int64, error)
}

type leadRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLeadRepository(db database.PgxIface, log *zap.Logger) LeadRepository {
	return &leadRepository{
		db:  db,
		log: log.With(zap.String("repository", "lead")),
	}
}

func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, full_name, email, phone_number, product_line, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		lead.ID,
		lead.FullName,
		lead.Email,
		lead.PhoneNumber,
		lead.ProductLine,
		lead.Message,
		lead.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create lead",
			zap.Error(err),
			zap.String("email", lead.Email),
		)
		return fmt.Errorf("create lead: %w", err)
	}

	return nil
}

func (r *leadRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Lead, error) {
	query := `
		SELECT id, full_name, email, phone_number, product_line, message, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find leads",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var lead entity.Lead
		err := rows.Scan(
			&lead.ID,
			&lead.FullName,
			&lead.Email,
			&lead.PhoneNumber,
			&lead.ProductLine,
			&lead.Message,
			&lead.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan lead row", zap.Error(err))
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, &lead)
	}

	return leads, nil
}

func (r *leadRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM leads`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count leads", zap.Error(err))
		return 0, fmt.Errorf("count leads: %w", err)
	}

	return count, nil
}
