package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the discriminated failure half of every service result.
// Values marshal to JSON with a machine-readable kind so callers can branch
// without string matching.
type ErrorResponse interface {
	error
	Code() int
	Kind() string
}

// Failure kinds. `transport` is the catch-all for store or collaborator
// failures the caller may retry; everything else means "no state changed".
const (
	KindNotFound        = "not_found"
	KindForbidden       = "forbidden"
	KindInvalidState    = "invalid_state"
	KindInvalidSlot     = "invalid_slot"
	KindInvalidArgument = "invalid_argument"
	KindUnauthorized    = "unauthorized"
	KindConflict        = "conflict"
	KindTransport       = "transport"
)

type apiError struct {
	StatusCode int    `json:"-"`
	ErrKind    string `json:"kind"`
	Message    string `json:"error"`
}

func (a *apiError) Error() string { return a.Message }
func (a *apiError) Code() int     { return a.StatusCode }
func (a *apiError) Kind() string  { return a.ErrKind }

func New(code int, kind, message string) ErrorResponse {
	return &apiError{StatusCode: code, ErrKind: kind, Message: message}
}

func NewSimple(code int, message string) ErrorResponse {
	return New(code, KindInvalidArgument, message)
}

func NewMissingParamError(param string) ErrorResponse {
	return New(http.StatusBadRequest, KindInvalidArgument, fmt.Sprintf("Missing required parameter: %s", param))
}

var (
	InternalServerError = New(http.StatusInternalServerError, KindTransport, "Something went wrong on our side")
	NotFoundError       = New(http.StatusNotFound, KindNotFound, "Resource not found")
	ForbiddenError      = New(http.StatusForbidden, KindForbidden, "You are not allowed to do that")
	MalformedBodyError  = New(http.StatusBadRequest, KindInvalidArgument, "Could not understand request body")

	InvalidAuthTokenError = New(http.StatusUnauthorized, KindUnauthorized, "Invalid or missing auth token")

	// Call request lifecycle
	InvalidStateError     = New(http.StatusConflict, KindInvalidState, "Request is no longer open for that change")
	InvalidSlotError      = New(http.StatusUnprocessableEntity, KindInvalidSlot, "Selected slot is not among the proposed times")
	EmptyTimesError       = New(http.StatusBadRequest, KindInvalidArgument, "At least one proposed time is required")
	SelfRequestError      = New(http.StatusBadRequest, KindInvalidArgument, "Requester and recipient must be different people")
	RecipientUnknownError = New(http.StatusNotFound, KindNotFound, "Recipient not found")
	NotAcceptedError      = New(http.StatusConflict, KindInvalidState, "Request has not been accepted")

	// Scheduling
	HourNotExactError   = New(http.StatusBadRequest, KindInvalidArgument, "Times must fall on an exact hour")
	TimeInPastError     = New(http.StatusBadRequest, KindInvalidArgument, "Times must be in the future")
	EndBeforeStartError = New(http.StatusBadRequest, KindInvalidArgument, "End time must be after start time")

	// Users / identity provider
	UserAlreadyExistsError    = New(http.StatusConflict, KindConflict, "A user with that email already exists")
	UserAlreadyConfirmedError = New(http.StatusConflict, KindConflict, "User is already confirmed")

	IDPUserNotFoundError        = New(http.StatusNotFound, KindNotFound, "No account for that email")
	IDPUserNotConfirmedError    = New(http.StatusForbidden, KindForbidden, "Account is not confirmed yet")
	IDPCredentialsMismatchError = New(http.StatusUnauthorized, KindUnauthorized, "Email or password is incorrect")
	IDPInvalidPasswordError     = New(http.StatusBadRequest, KindInvalidArgument, "Password does not meet the requirements")
	IDPExistingEmailError       = New(http.StatusConflict, KindConflict, "That email is already registered")
	IDPConfirmCodeMismatchError = New(http.StatusBadRequest, KindInvalidArgument, "Confirmation code does not match")
	IDPConfirmCodeExpiredError  = New(http.StatusBadRequest, KindInvalidArgument, "Confirmation code has expired")
)

// FromValidationError converts a validator.v10 failure into a 400 listing
// the offending fields.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
	}
	return New(http.StatusBadRequest, KindInvalidArgument,
		"Validation failed: "+strings.Join(fields, ", "))
}
