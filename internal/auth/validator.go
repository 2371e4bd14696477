package auth

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Validator decides whether a stored (user, token) pair still represents
// a valid session. All checks fail closed: a malformed token or user
// record means "no session", never an error to the caller.
type Validator struct {
	// ability to inject the clock for unit testing
	NowFunc func() time.Time
}

func NewValidator() *Validator {
	return &Validator{
		NowFunc: time.Now,
	}
}

func (v *Validator) IsValid(user *AdminUser, token string) bool {
	if user == nil || token == "" {
		return false
	}

	claims, err := DecodeToken(token)
	if err != nil {
		log.Tracef("session validation, decode token: %s", err)
		return false
	}

	if !v.NowFunc().Before(time.Unix(claims.Expires, 0)) {
		return false
	}

	if user.ID == "" || user.Username == "" || user.Role != RoleAdmin {
		return false
	}

	return true
}
