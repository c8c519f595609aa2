package auth

import (
	"errors"
	"strings"

	"moviefinder/errs"
)

const (
	invalidCredentials  = "invalid login credentials"
	unconfirmedLoginMsg = "Login failed. If you just registered, please confirm your email first (check your inbox)."
)

// Describe turns an auth backend error into the message shown to the user.
// The backend reports unconfirmed accounts as bad credentials, so that
// message gets a hint about email confirmation. Everything else passes through.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if strings.Contains(strings.ToLower(msg), invalidCredentials) {
		return unconfirmedLoginMsg
	}
	return msg
}
