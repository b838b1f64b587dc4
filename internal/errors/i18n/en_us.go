package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnauthorizedAccess             = "UNAUTHORIZED_ACCESS"
	CodeCallerMissing                  = "CALLER_IDENTITY_MISSING"
	CodeModelNameEmpty                 = "MODEL_NAME_EMPTY"
	CodeInvalidModelHash               = "INVALID_MODEL_HASH"
	CodeInvalidAccuracyValue           = "INVALID_ACCURACY_VALUE"
	CodeInvalidConfidenceScore         = "INVALID_CONFIDENCE_SCORE"
	CodeModelReferenceRequired         = "MODEL_REFERENCE_REQUIRED"
	CodeModelMismatch                  = "MODEL_MISMATCH"
	CodeInvalidContributionImprovement = "INVALID_CONTRIBUTION_IMPROVEMENT_VALUE"
	CodeContributionAlreadyProcessed   = "CONTRIBUTION_ALREADY_PROCESSED"
	CodeInvalidDataHash                = "INVALID_DATA_HASH"
	CodeInvalidVerificationMethod      = "INVALID_VERIFICATION_METHOD"
	CodeInvalidTokenSupply             = "INVALID_TOKEN_SUPPLY"
	CodeTokenAlreadyInitialized        = "TOKEN_ALREADY_INITIALIZED"
	CodeTokenNotInitialized            = "TOKEN_NOT_INITIALIZED"
	CodeInvalidAuthorityTransferState  = "INVALID_AUTHORITY_TRANSFER_STATE"
	CodeAuthorityTransferExpired       = "AUTHORITY_TRANSFER_EXPIRED"
	CodeRateLimited                    = "RATE_LIMITED"
	CodeInsufficientTokenBalance       = "INSUFFICIENT_TOKEN_BALANCE"
	CodeInvalidMintAmount              = "INVALID_MINT_AMOUNT"
	CodeFieldTooLong                   = "FIELD_TOO_LONG"
	CodeNotFound                       = "NOT_FOUND"
	CodeAlreadyExists                  = "ALREADY_EXISTS"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Authorization errors
		CodeUnauthorizedAccess: "Caller is not authorized to perform this operation",
		CodeCallerMissing:      "Caller identity is required",

		// Model errors
		CodeModelNameEmpty:         "Model name cannot be empty",
		CodeInvalidModelHash:       "Model hash must be at least 16 characters",
		CodeInvalidAccuracyValue:   "Accuracy must be between 0.0 and 1.0",
		CodeInvalidConfidenceScore: "Confidence score must be between 0.0 and 1.0",
		CodeModelReferenceRequired: "A model reference is required for this verification",
		CodeModelMismatch:          "Contribution does not reference the supplied model",

		// Contribution errors
		CodeInvalidContributionImprovement: "Accuracy improvement must be between 0.0 and 1.0",
		CodeContributionAlreadyProcessed:   "Contribution has already been approved or rejected",

		// Verification errors
		CodeInvalidDataHash:           "Data hash must be at least 16 characters",
		CodeInvalidVerificationMethod: "Verification method cannot be empty",

		// Token errors
		CodeInvalidTokenSupply:            "Token supply must be greater than zero",
		CodeTokenAlreadyInitialized:       "Token configuration is already initialized",
		CodeTokenNotInitialized:           "Token configuration has not been initialized",
		CodeInvalidAuthorityTransferState: "No authority transfer proposal is outstanding",
		CodeAuthorityTransferExpired:      "Authority transfer proposal has expired",
		CodeRateLimited:                   "Minting is rate limited; try again later",
		CodeInsufficientTokenBalance:      "Account balance is insufficient for this transfer",
		CodeInvalidMintAmount:             "Mint amount must be greater than zero",

		// Boundary errors
		CodeFieldTooLong: "Field {{.Field}} exceeds the maximum length of {{.Max}} characters",

		// Storage errors
		CodeNotFound:      "The requested record was not found",
		CodeAlreadyExists: "A record with this identifier already exists",
	},
}
