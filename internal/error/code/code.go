package code

// HTTP status codes used by the status map.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
)

// Common error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// Patient error codes (101xxx).
const (
	// ErrPatientNotFound - 404: patient not found.
	ErrPatientNotFound int = iota + 101000
	// ErrPatientAlreadyExist - 400: patient with this maYTe already exists.
	ErrPatientAlreadyExist
)

// Alert error codes (102xxx).
const (
	// ErrAlertNotFound - 404: alert not found.
	ErrAlertNotFound int = iota + 102000
	// ErrAlertInvalidStatus - 400: status is not a known lifecycle status.
	ErrAlertInvalidStatus
	// ErrAlertImageNotFound - 404: alert has no captured image.
	ErrAlertImageNotFound
	// ErrAlertImageCorrupt - 400: stored image payload is not valid base64.
	ErrAlertImageCorrupt
	// ErrAlertTerminalLocked - 400: terminal alerts cannot be re-classified.
	ErrAlertTerminalLocked
)

// Face / detection error codes (103xxx).
const (
	// ErrFaceImageNotFound - 404: face image not found.
	ErrFaceImageNotFound int = iota + 103000
	// ErrEmbeddingInvalid - 400: embedding vector is missing or malformed.
	ErrEmbeddingInvalid
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)
