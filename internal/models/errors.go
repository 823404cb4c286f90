package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrPromptNotFound   = errors.New("daily prompt not found")
	ErrSettingsNotFound = errors.New("category settings not found")

	// Partnership Errors
	ErrPartnershipNotFound   = errors.New("partnership not found")
	ErrNoPartnership         = errors.New("user does not belong to a partnership")
	ErrAlreadyPartnered      = errors.New("user already belongs to a partnership")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrSelfInvitation        = errors.New("cannot accept own invitation")
	ErrNotPartnershipMember  = errors.New("user is not a member of this partnership")

	// Authentication Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
