package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized      ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden         ErrorType = "FORBIDDEN"
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"
	ErrorTypeInternal          ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternalIO        ErrorType = "EXTERNAL_IO"
)

type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount          ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate            ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEnum            ErrorCode = "INVALID_ENUM"
	ErrCodeCustomTypeRequired     ErrorCode = "CUSTOM_TYPE_REQUIRED"
	ErrCodeCustomCategoryRequired ErrorCode = "CUSTOM_CATEGORY_REQUIRED"
	ErrCodeEventNameRequired      ErrorCode = "EVENT_NAME_REQUIRED"
	ErrCodeReviewNotesRequired    ErrorCode = "REVIEW_NOTES_REQUIRED"
	ErrCodeInvalidDecision        ErrorCode = "INVALID_DECISION"
	ErrCodeInvalidAction          ErrorCode = "INVALID_ACTION"

	ErrCodeActivityNotFound     ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeExpenseNotFound      ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeConfirmationNotFound ErrorCode = "CONFIRMATION_NOT_FOUND"
	ErrCodeMemberNotFound       ErrorCode = "MEMBER_NOT_FOUND"
	ErrCodeNoActiveCycle        ErrorCode = "NO_ACTIVE_CYCLE"
	ErrCodeCycleNotFound        ErrorCode = "CYCLE_NOT_FOUND"

	ErrCodeRoleNotPermitted ErrorCode = "ROLE_NOT_PERMITTED"

	ErrCodeInvalidActivityStatus     ErrorCode = "INVALID_ACTIVITY_STATUS"
	ErrCodeActivityNotApproved       ErrorCode = "ACTIVITY_NOT_APPROVED"
	ErrCodeInvalidExpenseStatus      ErrorCode = "INVALID_EXPENSE_STATUS"
	ErrCodeInvalidConfirmationStatus ErrorCode = "INVALID_CONFIRMATION_STATUS"
	ErrCodeInvalidMemberStatus       ErrorCode = "INVALID_MEMBER_STATUS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMemberInactive     ErrorCode = "MEMBER_INACTIVE"
	ErrCodeProfileIncomplete  ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	ErrCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so package-level sentinels work with errors.Is
// even after WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying cause; sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInvalidTransitionError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidTransition,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewExternalIOError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternalIO,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrActivityNotFound     = NewNotFoundError("activity not found", ErrCodeActivityNotFound)
	ErrExpenseNotFound      = NewNotFoundError("expense not found", ErrCodeExpenseNotFound)
	ErrConfirmationNotFound = NewNotFoundError("payment confirmation not found", ErrCodeConfirmationNotFound)
	ErrMemberNotFound       = NewNotFoundError("member not found", ErrCodeMemberNotFound)
	ErrNoActiveCycle        = NewNotFoundError("no active dues cycle", ErrCodeNoActiveCycle)
	ErrCycleNotFound        = NewNotFoundError("dues cycle not found", ErrCodeCycleNotFound)

	ErrRoleNotPermitted = NewForbiddenError("role is not permitted for this operation", ErrCodeRoleNotPermitted)

	ErrInvalidActivityStatus     = NewInvalidTransitionError("activity status does not allow this operation", ErrCodeInvalidActivityStatus)
	ErrActivityNotApproved       = NewInvalidTransitionError("expenses can only be logged against approved or completed activities", ErrCodeActivityNotApproved)
	ErrInvalidExpenseStatus      = NewInvalidTransitionError("expense has already been reviewed", ErrCodeInvalidExpenseStatus)
	ErrInvalidConfirmationStatus = NewInvalidTransitionError("payment confirmation has already been reviewed", ErrCodeInvalidConfirmationStatus)
	ErrInvalidMemberStatus       = NewInvalidTransitionError("member status does not allow this operation", ErrCodeInvalidMemberStatus)

	ErrReviewNotesRequired = NewValidationFieldError("review_notes", "review notes are required when rejecting", ErrCodeReviewNotesRequired)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrMemberInactive     = NewForbiddenError("Member account is inactive", ErrCodeMemberInactive)
	ErrProfileIncomplete  = NewForbiddenError("Complete onboarding before using this feature", ErrCodeProfileIncomplete)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

// ErrStatusConflict is returned by repositories when a status-guarded write
// matched no row because the entity moved on concurrently.
var ErrStatusConflict = errors.New("status changed concurrently")

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of the given kind.
func IsType(err error, t ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == t
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
