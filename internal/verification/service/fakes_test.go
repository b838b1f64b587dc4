package service

import (
	"context"
	"sort"

	contribdomain "github.com/medinex-ai/registry/internal/contribution/domain"
	"github.com/medinex-ai/registry/internal/identity"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
	"github.com/medinex-ai/registry/internal/storage"
	tokendomain "github.com/medinex-ai/registry/internal/token/domain"
	"github.com/medinex-ai/registry/internal/token/ledger"
	verifdomain "github.com/medinex-ai/registry/internal/verification/domain"
)

// fakeStore is an in-memory storage.Store. InTransaction snapshots state and
// restores it when fn fails, mirroring rollback.
type fakeStore struct {
	models        map[string]regdomain.Model
	contributions map[string]contribdomain.Contribution
	verifications map[string]verifdomain.Verification
	tokenConfig   *tokendomain.Config
	balances      map[identity.ID]uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		models:        make(map[string]regdomain.Model),
		contributions: make(map[string]contribdomain.Contribution),
		verifications: make(map[string]verifdomain.Verification),
		balances:      make(map[identity.ID]uint64),
	}
}

func (f *fakeStore) snapshot() *fakeStore {
	clone := newFakeStore()
	for k, v := range f.models {
		clone.models[k] = v
	}
	for k, v := range f.contributions {
		clone.contributions[k] = v
	}
	for k, v := range f.verifications {
		clone.verifications[k] = v
	}
	for k, v := range f.balances {
		clone.balances[k] = v
	}
	if f.tokenConfig != nil {
		cfg := *f.tokenConfig
		clone.tokenConfig = &cfg
	}
	return clone
}

func (f *fakeStore) restore(from *fakeStore) {
	f.models = from.models
	f.contributions = from.contributions
	f.verifications = from.verifications
	f.balances = from.balances
	f.tokenConfig = from.tokenConfig
}

func (f *fakeStore) InTransaction(ctx context.Context, fn func(ctx context.Context, tx storage.Bundle) error) error {
	before := f.snapshot()
	if err := fn(ctx, f); err != nil {
		f.restore(before)
		return err
	}
	return nil
}

func (f *fakeStore) PutModel(_ context.Context, m regdomain.Model) error {
	f.models[m.ID] = m
	return nil
}

func (f *fakeStore) GetModel(_ context.Context, id string) (regdomain.Model, error) {
	m, ok := f.models[id]
	if !ok {
		return regdomain.Model{}, storage.ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) ListModels(_ context.Context, pageSize int, pageToken string) (storage.ModelPage, error) {
	ids := make([]string, 0, len(f.models))
	for id := range f.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if pageToken != "" {
		for i, id := range ids {
			if id == pageToken {
				start = i + 1
				break
			}
		}
	}
	page := storage.ModelPage{}
	for i := start; i < len(ids) && len(page.Models) < pageSize; i++ {
		page.Models = append(page.Models, f.models[ids[i]])
	}
	if start+len(page.Models) < len(ids) && len(page.Models) > 0 {
		page.NextPageToken = page.Models[len(page.Models)-1].ID
	}
	return page, nil
}

func (f *fakeStore) PutContribution(_ context.Context, c contribdomain.Contribution) error {
	f.contributions[c.ID] = c
	return nil
}

func (f *fakeStore) GetContribution(_ context.Context, id string) (contribdomain.Contribution, error) {
	c, ok := f.contributions[id]
	if !ok {
		return contribdomain.Contribution{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListContributionsByModel(_ context.Context, modelID string, pageSize int, pageToken string) (storage.ContributionPage, error) {
	ids := make([]string, 0, len(f.contributions))
	for id, c := range f.contributions {
		if c.ModelID == modelID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	start := 0
	if pageToken != "" {
		for i, id := range ids {
			if id == pageToken {
				start = i + 1
				break
			}
		}
	}
	page := storage.ContributionPage{}
	for i := start; i < len(ids) && len(page.Contributions) < pageSize; i++ {
		page.Contributions = append(page.Contributions, f.contributions[ids[i]])
	}
	if start+len(page.Contributions) < len(ids) && len(page.Contributions) > 0 {
		page.NextPageToken = page.Contributions[len(page.Contributions)-1].ID
	}
	return page, nil
}

func (f *fakeStore) PutVerification(_ context.Context, v verifdomain.Verification) error {
	if _, ok := f.verifications[v.ID]; ok {
		return storage.ErrAlreadyExists
	}
	f.verifications[v.ID] = v
	return nil
}

func (f *fakeStore) GetVerification(_ context.Context, id string) (verifdomain.Verification, error) {
	v, ok := f.verifications[id]
	if !ok {
		return verifdomain.Verification{}, storage.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) ListVerifications(_ context.Context, modelID string, pageSize int, pageToken string) (storage.VerificationPage, error) {
	ids := make([]string, 0, len(f.verifications))
	for id, v := range f.verifications {
		if modelID == "" || v.ModelID == modelID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	start := 0
	if pageToken != "" {
		for i, id := range ids {
			if id == pageToken {
				start = i + 1
				break
			}
		}
	}
	page := storage.VerificationPage{}
	for i := start; i < len(ids) && len(page.Verifications) < pageSize; i++ {
		page.Verifications = append(page.Verifications, f.verifications[ids[i]])
	}
	if start+len(page.Verifications) < len(ids) && len(page.Verifications) > 0 {
		page.NextPageToken = page.Verifications[len(page.Verifications)-1].ID
	}
	return page, nil
}

func (f *fakeStore) PutTokenConfig(_ context.Context, cfg tokendomain.Config) error {
	if f.tokenConfig != nil {
		return storage.ErrAlreadyExists
	}
	f.tokenConfig = &cfg
	return nil
}

func (f *fakeStore) UpdateTokenConfig(_ context.Context, cfg tokendomain.Config) error {
	if f.tokenConfig == nil {
		return storage.ErrNotFound
	}
	f.tokenConfig = &cfg
	return nil
}

func (f *fakeStore) GetTokenConfig(_ context.Context) (tokendomain.Config, error) {
	if f.tokenConfig == nil {
		return tokendomain.Config{}, storage.ErrNotFound
	}
	return *f.tokenConfig, nil
}

func (f *fakeStore) Transfer(_ context.Context, from, to identity.ID, amount uint64) error {
	if f.balances[from] < amount {
		return ledger.ErrInsufficientBalance
	}
	f.balances[from] -= amount
	f.balances[to] += amount
	return nil
}

func (f *fakeStore) Mint(_ context.Context, to identity.ID, amount uint64) error {
	f.balances[to] += amount
	return nil
}

func (f *fakeStore) Balance(_ context.Context, account identity.ID) (uint64, error) {
	return f.balances[account], nil
}

var _ storage.Store = (*fakeStore)(nil)
