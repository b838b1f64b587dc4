package domain

import (
	"fmt"
	"time"

	"github.com/medinex-ai/registry/internal/core/bounds"
	apperrors "github.com/medinex-ai/registry/internal/errors"
	"github.com/medinex-ai/registry/internal/identity"
	"github.com/medinex-ai/registry/internal/platform/id"
	regdomain "github.com/medinex-ai/registry/internal/registry/domain"
)

// Status describes the contribution lifecycle state.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusPending indicates a submitted contribution awaiting review.
	StatusPending
	// StatusInReview indicates a contribution under review.
	StatusInReview
	// StatusApproved is the terminal approved state.
	StatusApproved
	// StatusRejected is the terminal rejected state.
	StatusRejected
)

// String renders the status for storage and diagnostics.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInReview:
		return "in_review"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unspecified"
	}
}

// StatusFromString parses a stored status value.
func StatusFromString(value string) Status {
	switch value {
	case "pending":
		return StatusPending
	case "in_review":
		return StatusInReview
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	default:
		return StatusUnspecified
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var (
	// ErrInvalidImprovement indicates an accuracy improvement outside [0, 1].
	ErrInvalidImprovement = apperrors.New(apperrors.CodeInvalidContributionImprovement, "accuracy improvement must be between 0.0 and 1.0")
	// ErrInvalidDataHash indicates a contribution hash shorter than the minimum.
	ErrInvalidDataHash = apperrors.New(apperrors.CodeInvalidDataHash, "contribution hash must be at least 16 characters")
	// ErrAlreadyProcessed indicates the contribution reached a terminal state.
	ErrAlreadyProcessed = apperrors.New(apperrors.CodeContributionAlreadyProcessed, "contribution has already been processed")
	// ErrModelMismatch indicates the supplied model is not the contribution's target.
	ErrModelMismatch = apperrors.New(apperrors.CodeModelMismatch, "contribution does not reference the supplied model")
)

// Contribution represents a proposed improvement to a model.
type Contribution struct {
	ID                     string
	ModelID                string
	Contributor            identity.ID
	Description            string
	ContributionType       string
	AccuracyImprovement    float64
	PerformanceImprovement string
	Status                 Status
	RewardAmount           uint64
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ProcessedAt            *time.Time // set exactly once, at the terminal transition
	ContributionHash       string
	Notes                  string
}

// RecordContributionInput describes a new contribution submission.
type RecordContributionInput struct {
	ModelID                string
	Description            string
	ContributionType       string
	AccuracyImprovement    float64
	PerformanceImprovement string
	ContributionHash       string
}

// RecordContribution creates a pending contribution record.
func RecordContribution(input RecordContributionInput, contributor identity.ID, now func() time.Time, idGenerator func() (string, error)) (Contribution, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if contributor.IsZero() {
		return Contribution{}, identity.ErrCallerMissing
	}

	if input.AccuracyImprovement < 0.0 || input.AccuracyImprovement > 1.0 {
		return Contribution{}, ErrInvalidImprovement
	}
	if len(input.ContributionHash) < regdomain.MinHashLength {
		return Contribution{}, ErrInvalidDataHash
	}
	if err := bounds.Check("description", input.Description, bounds.MaxDescription); err != nil {
		return Contribution{}, err
	}
	if err := bounds.Check("contribution_type", input.ContributionType, bounds.MaxTypeTag); err != nil {
		return Contribution{}, err
	}
	if err := bounds.Check("performance_improvement", input.PerformanceImprovement, bounds.MaxBlob); err != nil {
		return Contribution{}, err
	}
	if err := bounds.Check("contribution_hash", input.ContributionHash, bounds.MaxHash); err != nil {
		return Contribution{}, err
	}

	contributionID, err := idGenerator()
	if err != nil {
		return Contribution{}, fmt.Errorf("generate contribution id: %w", err)
	}

	createdAt := now().UTC()
	return Contribution{
		ID:                     contributionID,
		ModelID:                input.ModelID,
		Contributor:            contributor,
		Description:            input.Description,
		ContributionType:       input.ContributionType,
		AccuracyImprovement:    input.AccuracyImprovement,
		PerformanceImprovement: input.PerformanceImprovement,
		Status:                 StatusPending,
		CreatedAt:              createdAt,
		UpdatedAt:              createdAt,
	}, nil
}

// Review moves the contribution into review and stores reviewer notes.
//
// The target status is always InReview, and no authority check gates the
// transition; any authenticated caller may move a pending contribution into
// review. Processed contributions cannot be reopened.
func (c *Contribution) Review(notes string, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if c.Status.IsTerminal() {
		return ErrAlreadyProcessed
	}
	if err := bounds.Check("notes", notes, bounds.MaxNotes); err != nil {
		return err
	}
	c.Status = StatusInReview
	c.Notes = notes
	c.UpdatedAt = now().UTC()
	return nil
}

// Approve terminates the contribution as approved, blending any accuracy
// improvement into the model and fixing the reward amount.
func (c *Contribution) Approve(model *regdomain.Model, rewardAmount uint64, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if c.Status.IsTerminal() {
		return ErrAlreadyProcessed
	}
	if model == nil || c.ModelID != model.ID {
		return ErrModelMismatch
	}

	model.BlendAccuracy(c.AccuracyImprovement)

	processedAt := now().UTC()
	c.Status = StatusApproved
	c.RewardAmount = rewardAmount
	c.ProcessedAt = &processedAt
	c.UpdatedAt = processedAt
	model.UpdatedAt = processedAt
	return nil
}

// Reject terminates the contribution as rejected with a reason.
func (c *Contribution) Reject(rejectionReason string, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if c.Status.IsTerminal() {
		return ErrAlreadyProcessed
	}
	if err := bounds.Check("notes", rejectionReason, bounds.MaxNotes); err != nil {
		return err
	}

	processedAt := now().UTC()
	c.Status = StatusRejected
	c.Notes = rejectionReason
	c.ProcessedAt = &processedAt
	c.UpdatedAt = processedAt
	return nil
}
