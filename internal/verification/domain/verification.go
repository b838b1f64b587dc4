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

// Kind distinguishes the flavors of verification entries.
type Kind int

const (
	// KindUnspecified represents an invalid kind value.
	KindUnspecified Kind = iota
	// KindMedicalData covers verification of a medical dataset.
	KindMedicalData
	// KindAnalysisResult covers verification of an analysis output.
	KindAnalysisResult
	// KindModelOutput covers verification of a specific model's inference.
	KindModelOutput
	// KindExpertReview covers a human expert's attestation.
	KindExpertReview
)

// String renders the kind for storage and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindMedicalData:
		return "medical_data"
	case KindAnalysisResult:
		return "analysis_result"
	case KindModelOutput:
		return "model_output"
	case KindExpertReview:
		return "expert_review"
	default:
		return "unspecified"
	}
}

// KindFromString parses a stored kind value.
func KindFromString(value string) Kind {
	switch value {
	case "medical_data":
		return KindMedicalData
	case "analysis_result":
		return KindAnalysisResult
	case "model_output":
		return KindModelOutput
	case "expert_review":
		return KindExpertReview
	default:
		return KindUnspecified
	}
}

var (
	// ErrInvalidDataHash indicates a verified-content hash shorter than the minimum.
	ErrInvalidDataHash = apperrors.New(apperrors.CodeInvalidDataHash, "data hash must be at least 16 characters")
	// ErrInvalidMethod indicates a missing verification method.
	ErrInvalidMethod = apperrors.New(apperrors.CodeInvalidVerificationMethod, "verification method is required")
	// ErrModelRequired indicates a model-output verification without a model reference.
	ErrModelRequired = apperrors.New(apperrors.CodeModelReferenceRequired, "model output verification requires a model reference")
)

// Verification is an immutable attestation over a piece of content.
type Verification struct {
	ID              string
	Kind            Kind
	Verifier        identity.ID
	DataHash        string
	Method          string
	ConfidenceScore float64
	IsValid         bool
	ModelID         string // required for KindModelOutput, optional otherwise
	ResultDetails   string
	Metadata        string
	EvidenceURI     string
	CreatedAt       time.Time
}

// RecordVerificationInput describes a new verification entry.
type RecordVerificationInput struct {
	Kind            Kind
	DataHash        string
	Method          string
	ConfidenceScore float64
	IsValid         bool
	ModelID         string
	ResultDetails   string
	Metadata        string
	EvidenceURI     string
}

// RecordVerification validates and creates a verification entry. Entries are
// append-only; nothing on the record can be changed after creation.
func RecordVerification(input RecordVerificationInput, verifier identity.ID, now func() time.Time, idGenerator func() (string, error)) (Verification, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if verifier.IsZero() {
		return Verification{}, identity.ErrCallerMissing
	}

	if len(input.DataHash) < regdomain.MinHashLength {
		return Verification{}, ErrInvalidDataHash
	}
	if input.Method == "" {
		return Verification{}, ErrInvalidMethod
	}
	if input.ConfidenceScore < 0.0 || input.ConfidenceScore > 1.0 {
		return Verification{}, regdomain.ErrInvalidConfidenceScore
	}
	if input.Kind == KindModelOutput && input.ModelID == "" {
		return Verification{}, ErrModelRequired
	}
	if err := bounds.Check("data_hash", input.DataHash, bounds.MaxHash); err != nil {
		return Verification{}, err
	}
	if err := bounds.Check("method", input.Method, bounds.MaxMethod); err != nil {
		return Verification{}, err
	}
	if err := bounds.Check("result_details", input.ResultDetails, bounds.MaxBlob); err != nil {
		return Verification{}, err
	}
	if err := bounds.Check("metadata", input.Metadata, bounds.MaxBlob); err != nil {
		return Verification{}, err
	}
	if err := bounds.Check("evidence_uri", input.EvidenceURI, bounds.MaxURI); err != nil {
		return Verification{}, err
	}

	verificationID, err := idGenerator()
	if err != nil {
		return Verification{}, fmt.Errorf("generate verification id: %w", err)
	}

	return Verification{
		ID:              verificationID,
		Kind:            input.Kind,
		Verifier:        verifier,
		DataHash:        input.DataHash,
		Method:          input.Method,
		ConfidenceScore: input.ConfidenceScore,
		IsValid:         input.IsValid,
		ModelID:         input.ModelID,
		ResultDetails:   input.ResultDetails,
		Metadata:        input.Metadata,
		EvidenceURI:     input.EvidenceURI,
		CreatedAt:       now().UTC(),
	}, nil
}
