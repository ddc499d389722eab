package services

import "errors"

// Error kinds. Every error a service returns on purpose wraps exactly one of
// these; anything else is unexpected.
var (
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrDeadlinePassed  = errors.New("deadline passed")
	ErrInvalidUser     = errors.New("invalid user")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("service unavailable")
)

// Error is a business-rule failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation returns an ErrValidation failure with the given message.
func Validation(message string) error {
	return newError(ErrValidation, message)
}

var (
	ErrPersonNotFound  = newError(ErrNotFound, "user not found")
	ErrProjectNotFound = newError(ErrNotFound, "project not found")
	ErrBidNotFound     = newError(ErrNotFound, "bid not found")
	ErrReviewNotFound  = newError(ErrNotFound, "review not found")

	ErrRoleNotAllowed   = newError(ErrForbidden, "your role is not allowed to perform this action")
	ErrNotProjectOwner  = newError(ErrForbidden, "you do not own this project")
	ErrNotBidOwner      = newError(ErrForbidden, "you do not own this bid")
	ErrNotReviewOwner   = newError(ErrForbidden, "you did not write this review")
	ErrNotParticipant   = newError(ErrForbidden, "you are not a participant of this project")
	ErrBidsNotVisible   = newError(ErrForbidden, "you cannot view bids on this project")
	ErrProjectNotShared = newError(ErrForbidden, "you cannot view this project")
	ErrAccountInactive  = newError(ErrForbidden, "account is inactive")

	ErrProjectNotOpen         = newError(ErrInvalidState, "project is not open for bidding")
	ErrBidNotPending          = newError(ErrInvalidState, "only pending bids can be changed")
	ErrProjectStillActive     = newError(ErrInvalidState, "project is active, deactivate it first")
	ErrProjectCompleted       = newError(ErrInvalidState, "project is already completed")
	ErrProjectHasFreelancer   = newError(ErrInvalidState, "project already has an assigned freelancer")
	ErrProjectNotInProgress   = newError(ErrInvalidState, "project is not in progress")
	ErrNoAcceptedBid          = newError(ErrInvalidState, "project has no accepted bid")
	ErrAssignmentMismatch     = newError(ErrInvalidState, "assigned freelancer does not match the accepted bid")
	ErrProjectNotInactive     = newError(ErrInvalidState, "project is not inactive")
	ErrProjectNotCompleted    = newError(ErrInvalidState, "project is not completed")
	ErrBidDeadlinePassed      = newError(ErrDeadlinePassed, "the bidding deadline for this project has passed")
	ErrActiveBidExists        = newError(ErrConflict, "you already have an active bid on this project")
	ErrReviewExists           = newError(ErrConflict, "you have already reviewed this project")
	ErrEmailTaken             = newError(ErrConflict, "email is already registered")
	ErrIdentityMismatch       = newError(ErrInvalidUser, "token does not match the current user")
	ErrInvalidCredentials     = newError(ErrUnauthenticated, "invalid email or password")
	ErrInvalidOTP             = newError(ErrUnauthenticated, "invalid or expired code")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrMailNotConfigured      = newError(ErrUnavailable, "mail delivery is not configured")
)
