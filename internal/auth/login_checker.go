package auth

import (
	"context"
)

// LoginChecker answers whether a presented token belongs to the stored
// session. It goes to the session store on every call, so an expired or
// cleared session is caught even when the in-memory state says otherwise.
type LoginChecker struct {
	store     *SessionStore
	validator *Validator
}

func NewLoginChecker(store *SessionStore) *LoginChecker {
	return &LoginChecker{
		store:     store,
		validator: NewValidator(),
	}
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	user, storedToken, err := lc.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	if token != storedToken {
		return false, nil
	}

	return lc.validator.IsValid(user, storedToken), nil
}
