package errors

// Error codes returned in ErrorResponse.Error.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized     = "AUTH_UNAUTHORIZED"       // login required
	AuthCodeIncomplete   = "AUTH_CODE_INCOMPLETE"    // OTP cells not all filled
	AuthResendTooSoon    = "AUTH_RESEND_TOO_SOON"    // OTP cooldown running
	AuthPasswordMismatch = "AUTH_PASSWORD_MISMATCH"  // confirmation differs
	AuthPasswordTooShort = "AUTH_PASSWORD_TOO_SHORT"
	AuthRejected         = "AUTH_REJECTED"           // remote API refused credentials or code

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartQuantityRequired = "CART_QUANTITY_REQUIRED"

	// ==================== Orders (ORDER_) ====================
	OrderNotCancellable = "ORDER_NOT_CANCELLABLE"

	// ==================== Export archive (EXPORT_) ====================
	ExportArchiveDisabled = "EXPORT_ARCHIVE_DISABLED" // no bucket configured
	ExportArchiveFailed   = "EXPORT_ARCHIVE_FAILED"

	// ==================== Remote API (UPSTREAM_) ====================
	UpstreamRejected    = "UPSTREAM_REJECTED"    // status=false in a 2xx answer
	UpstreamStatus      = "UPSTREAM_STATUS"      // non-2xx answer
	UpstreamUnreachable = "UPSTREAM_UNREACHABLE" // no HTTP response at all
	UpstreamBadPayload  = "UPSTREAM_BAD_PAYLOAD" // body is not the expected JSON
	UpstreamCanceled    = "UPSTREAM_CANCELED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError  = "INTERNAL_SERVER_ERROR"
	InternalStorageError = "INTERNAL_STORAGE_ERROR" // token/user/theme store
)
