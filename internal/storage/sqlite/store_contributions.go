package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	contribdomain "github.com/medinex-ai/registry/internal/contribution/domain"
	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/storage"
)

const contributionColumns = `
	id,
	model_id,
	contributor,
	description,
	contribution_type,
	accuracy_improvement,
	performance_improvement,
	status,
	reward_amount,
	created_at,
	updated_at,
	processed_at,
	contribution_hash,
	notes`

// PutContribution inserts or overwrites a contribution record.
func (s *Store) PutContribution(ctx context.Context, c contribdomain.Contribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("contribution id is required")
	}
	if strings.TrimSpace(c.ModelID) == "" {
		return fmt.Errorf("model id is required")
	}

	_, err := s.db().ExecContext(ctx, `
INSERT INTO contributions (`+contributionColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	status = excluded.status,
	reward_amount = excluded.reward_amount,
	updated_at = excluded.updated_at,
	processed_at = excluded.processed_at,
	notes = excluded.notes
`,
		c.ID,
		c.ModelID,
		string(c.Contributor),
		c.Description,
		c.ContributionType,
		c.AccuracyImprovement,
		c.PerformanceImprovement,
		c.Status.String(),
		c.RewardAmount,
		toMillis(c.CreatedAt),
		toMillis(c.UpdatedAt),
		toNullMillis(c.ProcessedAt),
		c.ContributionHash,
		c.Notes,
	)
	if err != nil {
		return fmt.Errorf("put contribution: %w", err)
	}
	return nil
}

// GetContribution retrieves a contribution record by id.
func (s *Store) GetContribution(ctx context.Context, id string) (contribdomain.Contribution, error) {
	if err := ctx.Err(); err != nil {
		return contribdomain.Contribution{}, err
	}
	if s == nil || s.sqlDB == nil {
		return contribdomain.Contribution{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return contribdomain.Contribution{}, fmt.Errorf("contribution id is required")
	}

	row := s.db().QueryRowContext(ctx, `
SELECT`+contributionColumns+`
FROM contributions
WHERE id = ?
`, id)
	c, err := scanContribution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contribdomain.Contribution{}, storage.ErrNotFound
	}
	if err != nil {
		return contribdomain.Contribution{}, fmt.Errorf("get contribution: %w", err)
	}
	return c, nil
}

// ListContributionsByModel returns a page of contribution records for a model
// in creation order.
func (s *Store) ListContributionsByModel(ctx context.Context, modelID string, pageSize int, pageToken string) (storage.ContributionPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ContributionPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ContributionPage{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(modelID) == "" {
		return storage.ContributionPage{}, fmt.Errorf("model id is required")
	}
	if pageSize <= 0 {
		return storage.ContributionPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var rows *sql.Rows
	var err error
	if pageToken == "" {
		rows, err = s.db().QueryContext(ctx, `
SELECT`+contributionColumns+`
FROM contributions
WHERE model_id = ?
ORDER BY created_at, id
LIMIT ?
`, modelID, pageSize+1)
	} else {
		rows, err = s.db().QueryContext(ctx, `
SELECT`+contributionColumns+`
FROM contributions
WHERE model_id = ?
	AND (created_at, id) > (SELECT created_at, id FROM contributions WHERE id = ?)
ORDER BY created_at, id
LIMIT ?
`, modelID, pageToken, pageSize+1)
	}
	if err != nil {
		return storage.ContributionPage{}, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	page := storage.ContributionPage{
		Contributions: make([]contribdomain.Contribution, 0, pageSize),
	}
	for rows.Next() {
		if len(page.Contributions) >= pageSize {
			page.NextPageToken = page.Contributions[pageSize-1].ID
			break
		}
		c, err := scanContribution(rows)
		if err != nil {
			return storage.ContributionPage{}, fmt.Errorf("scan contribution: %w", err)
		}
		page.Contributions = append(page.Contributions, c)
	}
	if err := rows.Err(); err != nil {
		return storage.ContributionPage{}, fmt.Errorf("list contributions: %w", err)
	}
	return page, nil
}

func scanContribution(row rowScanner) (contribdomain.Contribution, error) {
	var c contribdomain.Contribution
	var contributor, status string
	var createdAt, updatedAt int64
	var processedAt sql.NullInt64
	if err := row.Scan(
		&c.ID,
		&c.ModelID,
		&contributor,
		&c.Description,
		&c.ContributionType,
		&c.AccuracyImprovement,
		&c.PerformanceImprovement,
		&status,
		&c.RewardAmount,
		&createdAt,
		&updatedAt,
		&processedAt,
		&c.ContributionHash,
		&c.Notes,
	); err != nil {
		return contribdomain.Contribution{}, err
	}
	c.Contributor = identity.ID(contributor)
	c.Status = contribdomain.StatusFromString(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	c.ProcessedAt = fromNullMillis(processedAt)
	return c, nil
}
