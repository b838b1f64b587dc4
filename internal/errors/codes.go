// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeUnauthorizedAccess Code = "UNAUTHORIZED_ACCESS"
	CodeCallerMissing      Code = "CALLER_IDENTITY_MISSING"

	// Model errors
	CodeModelNameEmpty          Code = "MODEL_NAME_EMPTY"
	CodeInvalidModelHash        Code = "INVALID_MODEL_HASH"
	CodeInvalidAccuracyValue    Code = "INVALID_ACCURACY_VALUE"
	CodeInvalidConfidenceScore  Code = "INVALID_CONFIDENCE_SCORE"
	CodeModelReferenceRequired  Code = "MODEL_REFERENCE_REQUIRED"
	CodeModelMismatch           Code = "MODEL_MISMATCH"

	// Contribution errors
	CodeInvalidContributionImprovement Code = "INVALID_CONTRIBUTION_IMPROVEMENT_VALUE"
	CodeContributionAlreadyProcessed   Code = "CONTRIBUTION_ALREADY_PROCESSED"

	// Verification errors
	CodeInvalidDataHash           Code = "INVALID_DATA_HASH"
	CodeInvalidVerificationMethod Code = "INVALID_VERIFICATION_METHOD"

	// Token errors
	CodeInvalidTokenSupply            Code = "INVALID_TOKEN_SUPPLY"
	CodeTokenAlreadyInitialized       Code = "TOKEN_ALREADY_INITIALIZED"
	CodeTokenNotInitialized           Code = "TOKEN_NOT_INITIALIZED"
	CodeInvalidAuthorityTransferState Code = "INVALID_AUTHORITY_TRANSFER_STATE"
	CodeAuthorityTransferExpired      Code = "AUTHORITY_TRANSFER_EXPIRED"
	CodeRateLimited                   Code = "RATE_LIMITED"
	CodeInsufficientTokenBalance      Code = "INSUFFICIENT_TOKEN_BALANCE"
	CodeInvalidMintAmount             Code = "INVALID_MINT_AMOUNT"

	// Boundary errors
	CodeFieldTooLong Code = "FIELD_TOO_LONG"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeModelNameEmpty,
		CodeInvalidModelHash,
		CodeInvalidAccuracyValue,
		CodeInvalidConfidenceScore,
		CodeModelReferenceRequired,
		CodeInvalidContributionImprovement,
		CodeInvalidDataHash,
		CodeInvalidVerificationMethod,
		CodeInvalidTokenSupply,
		CodeInvalidMintAmount,
		CodeFieldTooLong:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeContributionAlreadyProcessed,
		CodeModelMismatch,
		CodeTokenNotInitialized,
		CodeInvalidAuthorityTransferState,
		CodeAuthorityTransferExpired,
		CodeInsufficientTokenBalance:
		return codes.FailedPrecondition

	// PermissionDenied - caller is not the required identity
	case CodeUnauthorizedAccess:
		return codes.PermissionDenied

	// Unauthenticated - no caller identity was supplied
	case CodeCallerMissing:
		return codes.Unauthenticated

	// ResourceExhausted - operation inside a cooldown window
	case CodeRateLimited:
		return codes.ResourceExhausted

	// NotFound / AlreadyExists - substrate-level record errors
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
