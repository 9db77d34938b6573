package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidAdminKey ErrCode = "INVALID_ADMIN_KEY"
	ErrAdminDisabled   ErrCode = "ADMIN_LOGIN_DISABLED"
	ErrTokenRequired   ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid    ErrCode = "TOKEN_INVALID"
	ErrTokenExpired    ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrRunAccessOnly   ErrCode = "RUN_ACCESS_ONLY"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrAnswerRange    ErrCode = "ANSWER_OUT_OF_RANGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrRunNotFound       ErrCode = "RUN_NOT_FOUND"
	ErrDimensionNotFound ErrCode = "DIMENSION_NOT_FOUND"
	ErrQuestionNotFound  ErrCode = "QUESTION_NOT_FOUND"
	ErrConflict          ErrCode = "CONFLICT"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrNotStarted           ErrCode = "ASSESSMENT_NOT_STARTED"
	ErrDimensionNotOpen     ErrCode = "DIMENSION_NOT_OPEN"
	ErrIncompleteDimensions ErrCode = "INCOMPLETE_DIMENSIONS"
	ErrFinalizeInProgress   ErrCode = "FINALIZE_IN_PROGRESS"
	ErrNoArtifact           ErrCode = "ARTIFACT_NOT_AVAILABLE"

	// ─── Import ────────────────────────────────────────────────────────
	ErrImportParse     ErrCode = "IMPORT_PARSE_ERROR"
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidAdminKey:
		return "The admin key is not valid."
	case ErrAdminDisabled:
		return "Admin login is not configured on this server."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrRunAccessOnly:
		return "This resource requires an assessment run token."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."
	case ErrAnswerRange:
		return "The answer value is outside the allowed range for this question."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrRunNotFound:
		return "The assessment run does not exist or has expired."
	case ErrDimensionNotFound:
		return "The dimension does not exist in the catalogue."
	case ErrQuestionNotFound:
		return "The question does not exist in this dimension."
	case ErrConflict:
		return "The resource was modified concurrently. Please retry."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrNotStarted:
		return "Start the assessment before opening a dimension."
	case ErrDimensionNotOpen:
		return "Open the dimension before answering or navigating it."
	case ErrIncompleteDimensions:
		return "Some opened dimensions are not completed yet."
	case ErrFinalizeInProgress:
		return "The assessment is already being finalized."
	case ErrNoArtifact:
		return "No result artifact is available. Finalize the assessment first."

	// ─── Import ────────────────────────────────────────────────────────
	case ErrImportParse:
		return "The uploaded file is not a valid result document."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
