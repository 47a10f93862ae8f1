package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Error is a client-facing failure. Code follows the "<status>-<n>"
// convention, e.g. "401-1"; the HTTP status is the numeric prefix.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + " " + e.Message
}

// Status returns the HTTP status encoded in Code, or 500 if Code is malformed.
func (e *Error) Status() int {
	prefix, _, _ := strings.Cut(e.Code, "-")
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 100 || n > 599 {
		return http.StatusInternalServerError
	}
	return n
}

// NewError builds an ad-hoc Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Invalid is a 400-1 error carrying a validation message.
func Invalid(message string) *Error {
	return NewError("400-1", message)
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	ErrVerificationRequired  = NewError("400-1", "complete email verification first")
	ErrInvalidCode           = NewError("400-1", "verification code is invalid or expired")
	ErrTemporaryTokenExpired = NewError("400-1", "temporary token expired, please start over")
	ErrJoinAlreadyCompleted  = NewError("400-1", "registration is already complete")
	ErrUsernameTaken         = NewError("400-2", "username is already registered")
	ErrNicknameTaken         = NewError("400-3", "nickname is already registered")
	ErrKeywordRequired       = NewError("400-1", "keyword is required")
	ErrInvalidParent         = NewError("400-1", "parent comment must be a root comment on the same target")
	ErrInvalidTargetType     = NewError("400-1", "target type must be BLOG or SHORLOG")
	ErrPageOutOfRange        = NewError("400-1", "page is out of range")

	ErrAuthenticationRequired = NewError("401-1", "authentication required")
	ErrUnknownUsername        = NewError("401-1", "username does not exist")
	ErrWrongPassword          = NewError("401-1", "password does not match")
	ErrInvalidRefreshToken    = NewError("401-1", "invalid refresh token")
	ErrSessionExpired         = NewError("401-1", "session expired")
	ErrLoggedInElsewhere      = NewError("401-1", "login detected on another device")

	ErrCommentForbidden = NewError("403-1", "only the author or an admin may change this comment")
	ErrAdminOnly        = NewError("403-1", "administrator privileges required")

	ErrUserNotFound    = NewError("404-1", "user not found")
	ErrCommentNotFound = NewError("404-1", "comment not found")

	ErrNicknameConflict = NewError("409-1", "nickname is already in use")
)
