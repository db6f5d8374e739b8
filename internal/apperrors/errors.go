package apperrors

// ErrorCode identifies a failure class in API responses.
type ErrorCode string

const (
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidationError ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrorCodeConflict        ErrorCode = "CONFLICT"

	ErrorCodeAccountNotFound  ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrorCodeGroupNotFound    ErrorCode = "GROUP_NOT_FOUND"
	ErrorCodeDeviceNotFound   ErrorCode = "DEVICE_NOT_FOUND"
	ErrorCodePlaylistNotFound ErrorCode = "PLAYLIST_NOT_FOUND"
	ErrorCodeVideoNotFound    ErrorCode = "VIDEO_NOT_FOUND"
	ErrorCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"

	ErrorCodeGroupAccountMismatch ErrorCode = "GROUP_ACCOUNT_MISMATCH"
	ErrorCodeDeviceUnassigned     ErrorCode = "DEVICE_UNASSIGNED"

	ErrorCodeAuthTokenExpired   ErrorCode = "AUTH_TOKEN_EXPIRED"
	ErrorCodeAuthTokenInvalid   ErrorCode = "AUTH_TOKEN_INVALID"
	ErrorCodeAuthBadCredentials ErrorCode = "AUTH_BAD_CREDENTIALS"
)

// ErrorType categorizes errors in the serialized payload.
type ErrorType string

const (
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	ErrorTypeAPIError       ErrorType = "api_error"
	ErrorTypeAuthError      ErrorType = "authentication_error"
)

// ErrorBody is the serialized error payload.
// Format: {"type": "invalid_request_error", "code": "NOT_FOUND", "message": "..."}
type ErrorBody struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// AppError is the base error type for HTTP responses.
type AppError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (err *AppError) Error() string {
	return err.Message
}

// Body returns the error in wire format.
func (err *AppError) Body() ErrorBody {
	errType := ErrorTypeAPIError
	switch {
	case err.StatusCode == 401 || err.StatusCode == 403:
		errType = ErrorTypeAuthError
	case err.StatusCode >= 400 && err.StatusCode < 500:
		errType = ErrorTypeInvalidRequest
	}

	return ErrorBody{
		Type:    errType,
		Code:    string(err.Code),
		Message: err.Message,
	}
}

func NewAppError(code ErrorCode, message string, statusCode int, details map[string]any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

func NewValidationError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeValidationError, message, 400, details)
}

func NewUnauthorizedError(message string, code ...ErrorCode) *AppError {
	errCode := ErrorCodeUnauthorized
	if len(code) > 0 {
		errCode = code[0]
	}
	return NewAppError(errCode, message, 401, nil)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(ErrorCodeForbidden, message, 403, nil)
}

func NewNotFoundError(code ErrorCode, resource string, id any) *AppError {
	details := map[string]any{"resource": resource}
	if id != nil {
		details["id"] = id
	}
	return NewAppError(code, resource+" not found", 404, details)
}

func NewConflictError(message string, details map[string]any) *AppError {
	return NewAppError(ErrorCodeConflict, message, 409, details)
}

func NewInternalError(message string) *AppError {
	return NewAppError(ErrorCodeInternalError, message, 500, nil)
}

// EnsureAppError converts an arbitrary error into an AppError.
func EnsureAppError(err error) *AppError {
	if err == nil {
		return NewInternalError("Unknown error")
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("Internal server error")
}
