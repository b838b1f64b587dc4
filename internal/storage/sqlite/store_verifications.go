package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/storage"
	verifdomain "github.com/medinex-ai/registry/internal/verification/domain"
)

const verificationColumns = `
	id,
	kind,
	verifier,
	data_hash,
	method,
	confidence_score,
	is_valid,
	model_id,
	result_details,
	metadata,
	evidence_uri,
	created_at`

// PutVerification appends a verification entry. Entries are immutable;
// inserting an existing id fails.
func (s *Store) PutVerification(ctx context.Context, v verifdomain.Verification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("verification id is required")
	}

	_, err := s.db().ExecContext(ctx, `
INSERT INTO verifications (`+verificationColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		v.ID,
		v.Kind.String(),
		string(v.Verifier),
		v.DataHash,
		v.Method,
		v.ConfidenceScore,
		boolToInt(v.IsValid),
		v.ModelID,
		v.ResultDetails,
		v.Metadata,
		v.EvidenceURI,
		toMillis(v.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put verification: %w", err)
	}
	return nil
}

// GetVerification retrieves a verification entry by id.
func (s *Store) GetVerification(ctx context.Context, id string) (verifdomain.Verification, error) {
	if err := ctx.Err(); err != nil {
		return verifdomain.Verification{}, err
	}
	if s == nil || s.sqlDB == nil {
		return verifdomain.Verification{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return verifdomain.Verification{}, fmt.Errorf("verification id is required")
	}

	row := s.db().QueryRowContext(ctx, `
SELECT`+verificationColumns+`
FROM verifications
WHERE id = ?
`, id)
	v, err := scanVerification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return verifdomain.Verification{}, storage.ErrNotFound
	}
	if err != nil {
		return verifdomain.Verification{}, fmt.Errorf("get verification: %w", err)
	}
	return v, nil
}

// ListVerifications returns a page of verification entries in creation order.
// An empty modelID lists entries across all models.
func (s *Store) ListVerifications(ctx context.Context, modelID string, pageSize int, pageToken string) (storage.VerificationPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.VerificationPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.VerificationPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.VerificationPage{}, fmt.Errorf("page size must be greater than zero")
	}

	query := `
SELECT` + verificationColumns + `
FROM verifications
WHERE (? = '' OR model_id = ?)`
	args := []any{modelID, modelID}
	if pageToken != "" {
		query += `
	AND (created_at, id) > (SELECT created_at, id FROM verifications WHERE id = ?)`
		args = append(args, pageToken)
	}
	query += `
ORDER BY created_at, id
LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.db().QueryContext(ctx, query, args...)
	if err != nil {
		return storage.VerificationPage{}, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	page := storage.VerificationPage{
		Verifications: make([]verifdomain.Verification, 0, pageSize),
	}
	for rows.Next() {
		if len(page.Verifications) >= pageSize {
			page.NextPageToken = page.Verifications[pageSize-1].ID
			break
		}
		v, err := scanVerification(rows)
		if err != nil {
			return storage.VerificationPage{}, fmt.Errorf("scan verification: %w", err)
		}
		page.Verifications = append(page.Verifications, v)
	}
	if err := rows.Err(); err != nil {
		return storage.VerificationPage{}, fmt.Errorf("list verifications: %w", err)
	}
	return page, nil
}

func scanVerification(row rowScanner) (verifdomain.Verification, error) {
	var v verifdomain.Verification
	var kind, verifier string
	var isValid int
	var createdAt int64
	if err := row.Scan(
		&v.ID,
		&kind,
		&verifier,
		&v.DataHash,
		&v.Method,
		&v.ConfidenceScore,
		&isValid,
		&v.ModelID,
		&v.ResultDetails,
		&v.Metadata,
		&v.EvidenceURI,
		&createdAt,
	); err != nil {
		return verifdomain.Verification{}, err
	}
	v.Kind = verifdomain.KindFromString(kind)
	v.Verifier = identity.ID(verifier)
	v.IsValid = isValid != 0
	v.CreatedAt = fromMillis(createdAt)
	return v, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
