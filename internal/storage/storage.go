// Package storage defines the persistence interfaces for model, contribution,
// verification, and token records.
package storage

import (
	"context"

	contribdomain "github.com/medinex-ai/registry/internal/contribution/domain"
	apperrors "github.com/medinex-ai/registry/internal/errors"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
	tokendomain "github.com/medinex-ai/registry/internal/token/domain"
	"github.com/medinex-ai/registry/internal/token/ledger"
	verifdomain "github.com/medinex-ai/registry/internal/verification/domain"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates an insert collided with an existing record.
var ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")

// ModelStore persists registered model records.
type ModelStore interface {
	PutModel(ctx context.Context, m regdomain.Model) error
	GetModel(ctx context.Context, id string) (regdomain.Model, error)
	// ListModels returns a page of model records starting after the page token.
	ListModels(ctx context.Context, pageSize int, pageToken string) (ModelPage, error)
}

// ModelPage describes a page of model records.
type ModelPage struct {
	Models        []regdomain.Model
	NextPageToken string
}

// ContributionStore persists contribution records.
type ContributionStore interface {
	PutContribution(ctx context.Context, c contribdomain.Contribution) error
	GetContribution(ctx context.Context, id string) (contribdomain.Contribution, error)
	// ListContributionsByModel returns a page of contribution records for a
	// model starting after the page token.
	ListContributionsByModel(ctx context.Context, modelID string, pageSize int, pageToken string) (ContributionPage, error)
}

// ContributionPage describes a page of contribution records.
type ContributionPage struct {
	Contributions []contribdomain.Contribution
	NextPageToken string
}

// VerificationStore persists append-only verification entries.
type VerificationStore interface {
	PutVerification(ctx context.Context, v verifdomain.Verification) error
	GetVerification(ctx context.Context, id string) (verifdomain.Verification, error)
	// ListVerifications returns a page of verification entries starting after
	// the page token, optionally filtered by model.
	ListVerifications(ctx context.Context, modelID string, pageSize int, pageToken string) (VerificationPage, error)
}

// VerificationPage describes a page of verification entries.
type VerificationPage struct {
	Verifications []verifdomain.Verification
	NextPageToken string
}

// TokenConfigStore persists the singleton token configuration.
type TokenConfigStore interface {
	// PutTokenConfig inserts the config. Returns ErrAlreadyExists when the
	// token is already initialized.
	PutTokenConfig(ctx context.Context, cfg tokendomain.Config) error
	// UpdateTokenConfig overwrites the config. Returns ErrNotFound when the
	// token is not initialized.
	UpdateTokenConfig(ctx context.Context, cfg tokendomain.Config) error
	GetTokenConfig(ctx context.Context) (tokendomain.Config, error)
}

// Bundle groups every store plus the token ledger behind one transaction
// scope. Methods called on the same bundle inside InTransaction share a
// single database transaction.
type Bundle interface {
	ModelStore
	ContributionStore
	VerificationStore
	TokenConfigStore
	ledger.Ledger
}

// Transactor runs a function against a transaction-scoped bundle, committing
// when fn returns nil and rolling back otherwise.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Bundle) error) error
}

// Store is the full persistence surface services depend on.
type Store interface {
	Bundle
	Transactor
}
