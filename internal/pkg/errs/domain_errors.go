package errs

// Sentinels shared by the usecase layer and the HTTP error mapping.
var (
	ErrNotFound                = New("not found")
	ErrDomainValidation        = New("domain validation error")
	ErrInvalidStateTransition  = New("invalid state transition")
	ErrDatabaseOperationFailed = New("database operation failed")

	ErrIdempotencyKeyRequired = New("idempotency key required")
	ErrIdempotencyInProgress  = New("idempotency in progress")
	ErrIdempotencyKeyReused   = New("idempotency key reused with a different request")
)
