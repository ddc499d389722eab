package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyPerson     = "person"
	ContextKeyRequestID  = "request_id"
	SessionCookieName    = "marketplace_session"
	SessionKeyOAuthState = "oauth_state"
	SessionKeyOAuthRole  = "oauth_role"
	HeaderRequestID      = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Accounts
const (
	MinPasswordLength = 8
	OTPLength         = 6
	OTPMaxAttempts    = 5
	DefaultOTPTTL     = 10 * time.Minute
)

// Bids and reviews
const (
	DefaultAvailabilityHours = 40
	MaxCoverLetterLength     = 2000
	MaxReviewCommentLength   = 1000
	MinRating                = 1
	MaxRating                = 5
	MaxSuggestedSkills       = 10
)
