package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/medinex-ai/registry/internal/identity"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
	"github.com/medinex-ai/registry/internal/storage"
)

const modelColumns = `
	id,
	name,
	description,
	version,
	model_type,
	model_hash,
	accuracy,
	performance_metrics,
	authority,
	created_at,
	updated_at,
	contribution_count,
	verification_count,
	avg_confidence_score,
	usage_count,
	is_verified,
	parent_model`

// PutModel inserts or overwrites a model record.
func (s *Store) PutModel(ctx context.Context, m regdomain.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("model id is required")
	}

	_, err := s.db().ExecContext(ctx, `
INSERT INTO models (`+modelColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	description = excluded.description,
	version = excluded.version,
	model_type = excluded.model_type,
	model_hash = excluded.model_hash,
	accuracy = excluded.accuracy,
	performance_metrics = excluded.performance_metrics,
	authority = excluded.authority,
	updated_at = excluded.updated_at,
	contribution_count = excluded.contribution_count,
	verification_count = excluded.verification_count,
	avg_confidence_score = excluded.avg_confidence_score,
	usage_count = excluded.usage_count,
	is_verified = excluded.is_verified,
	parent_model = excluded.parent_model
`,
		m.ID,
		m.Name,
		m.Description,
		m.Version,
		m.ModelType,
		m.ModelHash,
		m.Accuracy,
		m.PerformanceMetrics,
		string(m.Authority),
		toMillis(m.CreatedAt),
		toMillis(m.UpdatedAt),
		m.ContributionCount,
		m.VerificationCount,
		m.AvgConfidenceScore,
		m.UsageCount,
		boolToInt(m.IsVerified),
		m.ParentModel,
	)
	if err != nil {
		return fmt.Errorf("put model: %w", err)
	}
	return nil
}

// GetModel retrieves a model record by id.
func (s *Store) GetModel(ctx context.Context, id string) (regdomain.Model, error) {
	if err := ctx.Err(); err != nil {
		return regdomain.Model{}, err
	}
	if s == nil || s.sqlDB == nil {
		return regdomain.Model{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return regdomain.Model{}, fmt.Errorf("model id is required")
	}

	row := s.db().QueryRowContext(ctx, `
SELECT`+modelColumns+`
FROM models
WHERE id = ?
`, id)
	m, err := scanModel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return regdomain.Model{}, storage.ErrNotFound
	}
	if err != nil {
		return regdomain.Model{}, fmt.Errorf("get model: %w", err)
	}
	return m, nil
}

// ListModels returns a page of model records in creation order.
func (s *Store) ListModels(ctx context.Context, pageSize int, pageToken string) (storage.ModelPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ModelPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ModelPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.ModelPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var rows *sql.Rows
	var err error
	if pageToken == "" {
		rows, err = s.db().QueryContext(ctx, `
SELECT`+modelColumns+`
FROM models
ORDER BY created_at, id
LIMIT ?
`, pageSize+1)
	} else {
		rows, err = s.db().QueryContext(ctx, `
SELECT`+modelColumns+`
FROM models
WHERE (created_at, id) > (SELECT created_at, id FROM models WHERE id = ?)
ORDER BY created_at, id
LIMIT ?
`, pageToken, pageSize+1)
	}
	if err != nil {
		return storage.ModelPage{}, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	page := storage.ModelPage{
		Models: make([]regdomain.Model, 0, pageSize),
	}
	for rows.Next() {
		if len(page.Models) >= pageSize {
			page.NextPageToken = page.Models[pageSize-1].ID
			break
		}
		m, err := scanModel(rows)
		if err != nil {
			return storage.ModelPage{}, fmt.Errorf("scan model: %w", err)
		}
		page.Models = append(page.Models, m)
	}
	if err := rows.Err(); err != nil {
		return storage.ModelPage{}, fmt.Errorf("list models: %w", err)
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(row rowScanner) (regdomain.Model, error) {
	var m regdomain.Model
	var authority string
	var createdAt, updatedAt int64
	var isVerified int
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Version,
		&m.ModelType,
		&m.ModelHash,
		&m.Accuracy,
		&m.PerformanceMetrics,
		&authority,
		&createdAt,
		&updatedAt,
		&m.ContributionCount,
		&m.VerificationCount,
		&m.AvgConfidenceScore,
		&m.UsageCount,
		&isVerified,
		&m.ParentModel,
	); err != nil {
		return regdomain.Model{}, err
	}
	m.Authority = identity.ID(authority)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	m.IsVerified = isVerified != 0
	return m, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
