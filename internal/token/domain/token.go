package domain

import (
	"time"

	"github.com/medinex-ai/registry/internal/core/bounds"
	apperrors "github.com/medinex-ai/registry/internal/errors"
	"github.com/medinex-ai/registry/internal/identity"
)

const (
	// AuthorityTransferWindow is how long a proposed authority transfer
	// stays acceptable. Acceptance strictly after the window fails.
	AuthorityTransferWindow = 24 * time.Hour
	// MintCooldown is the minimum interval between mint operations.
	MintCooldown = time.Hour
)

var (
	// ErrInvalidSupply indicates a zero initial supply.
	ErrInvalidSupply = apperrors.New(apperrors.CodeInvalidTokenSupply, "initial supply must be greater than zero")
	// ErrAlreadyInitialized indicates the token config already exists.
	ErrAlreadyInitialized = apperrors.New(apperrors.CodeTokenAlreadyInitialized, "token has already been initialized")
	// ErrNotInitialized indicates the token config does not exist yet.
	ErrNotInitialized = apperrors.New(apperrors.CodeTokenNotInitialized, "token has not been initialized")
	// ErrNoPendingTransfer indicates acceptance or cancellation without a proposal.
	ErrNoPendingTransfer = apperrors.New(apperrors.CodeInvalidAuthorityTransferState, "no authority transfer is pending")
	// ErrTransferExpired indicates acceptance after the transfer window closed.
	ErrTransferExpired = apperrors.New(apperrors.CodeAuthorityTransferExpired, "authority transfer window has expired")
	// ErrMintRateLimited indicates a mint attempt inside the cooldown window.
	ErrMintRateLimited = apperrors.New(apperrors.CodeRateLimited, "mint rate limit exceeded")
	// ErrInvalidMintAmount indicates a zero mint amount.
	ErrInvalidMintAmount = apperrors.New(apperrors.CodeInvalidMintAmount, "mint amount must be greater than zero")
)

// Config is the singleton token configuration record.
type Config struct {
	Name               string
	Symbol             string
	URI                string
	Decimals           uint8
	TotalSupply        uint64
	Authority          identity.ID
	Treasury           identity.ID
	PendingAuthority   identity.ID // zero when no transfer is pending
	TransferProposedAt *time.Time
	LastMintAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// InitializeTokenInput describes the one-time token setup.
type InitializeTokenInput struct {
	Name          string
	Symbol        string
	URI           string
	Decimals      uint8
	InitialSupply uint64
}

// InitializeToken creates the token configuration. The caller becomes both
// authority and treasury; the treasury can be repointed afterwards.
func InitializeToken(input InitializeTokenInput, caller identity.ID, now func() time.Time) (Config, error) {
	if now == nil {
		now = time.Now
	}
	if caller.IsZero() {
		return Config{}, identity.ErrCallerMissing
	}
	if input.InitialSupply == 0 {
		return Config{}, ErrInvalidSupply
	}
	if err := bounds.Check("name", input.Name, bounds.MaxName); err != nil {
		return Config{}, err
	}
	if err := bounds.Check("symbol", input.Symbol, bounds.MaxSymbol); err != nil {
		return Config{}, err
	}
	if err := bounds.Check("uri", input.URI, bounds.MaxURI); err != nil {
		return Config{}, err
	}

	createdAt := now().UTC()
	return Config{
		Name:        input.Name,
		Symbol:      input.Symbol,
		URI:         input.URI,
		Decimals:    input.Decimals,
		TotalSupply: input.InitialSupply,
		Authority:   caller,
		Treasury:    caller,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// ProposeAuthorityTransfer records a pending transfer to the new authority.
// Proposing again replaces any earlier proposal and restarts the window.
func (c *Config) ProposeAuthorityTransfer(caller, newAuthority identity.ID, now func() time.Time) error {
	now = orNow(now)
	if err := identity.Authorize(c.Authority, caller); err != nil {
		return err
	}
	if newAuthority.IsZero() {
		return identity.ErrCallerMissing
	}

	proposedAt := now().UTC()
	c.PendingAuthority = newAuthority
	c.TransferProposedAt = &proposedAt
	c.UpdatedAt = proposedAt
	return nil
}

// AcceptAuthorityTransfer completes a pending transfer. Only the proposed
// authority may accept, and only within the transfer window.
func (c *Config) AcceptAuthorityTransfer(caller identity.ID, now func() time.Time) error {
	now = orNow(now)
	if c.PendingAuthority.IsZero() || c.TransferProposedAt == nil {
		return ErrNoPendingTransfer
	}
	if err := identity.Authorize(c.PendingAuthority, caller); err != nil {
		return err
	}

	acceptedAt := now().UTC()
	if acceptedAt.Sub(*c.TransferProposedAt) > AuthorityTransferWindow {
		return ErrTransferExpired
	}

	c.Authority = c.PendingAuthority
	c.PendingAuthority = ""
	c.TransferProposedAt = nil
	c.UpdatedAt = acceptedAt
	return nil
}

// CancelAuthorityTransfer withdraws a pending transfer. Only the current
// authority may cancel.
func (c *Config) CancelAuthorityTransfer(caller identity.ID, now func() time.Time) error {
	now = orNow(now)
	if err := identity.Authorize(c.Authority, caller); err != nil {
		return err
	}
	if c.PendingAuthority.IsZero() {
		return ErrNoPendingTransfer
	}

	c.PendingAuthority = ""
	c.TransferProposedAt = nil
	c.UpdatedAt = now().UTC()
	return nil
}

// Mint validates a mint request against the authority and cooldown and
// stamps the mint timestamp. TotalSupply records the initial issuance and
// never changes; minted amounts live in the ledger's transaction journal.
// The ledger credit happens alongside in the same transaction.
func (c *Config) Mint(caller identity.ID, amount uint64, now func() time.Time) error {
	now = orNow(now)
	if err := identity.Authorize(c.Authority, caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidMintAmount
	}

	mintedAt := now().UTC()
	if c.LastMintAt != nil && mintedAt.Sub(*c.LastMintAt) < MintCooldown {
		return ErrMintRateLimited
	}

	c.LastMintAt = &mintedAt
	c.UpdatedAt = mintedAt
	return nil
}

// SetTreasury repoints the treasury account. Only the authority may do so.
func (c *Config) SetTreasury(caller, treasury identity.ID, now func() time.Time) error {
	now = orNow(now)
	if err := identity.Authorize(c.Authority, caller); err != nil {
		return err
	}
	if treasury.IsZero() {
		return identity.ErrCallerMissing
	}

	c.Treasury = treasury
	c.UpdatedAt = now().UTC()
	return nil
}

func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
