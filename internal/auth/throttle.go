package auth

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// block after this many consecutive failed logins
	maxFailedLogins = 5
	loginCooldown   = 2 * time.Minute
)

// LoginThrottle counts consecutive failed login attempts and blocks
// further attempts for a cool-down window once the limit is reached.
// The state is in-memory only, a process restart resets it.
type LoginThrottle struct {
	mutex          sync.Mutex
	failedAttempts int
	blockedUntil   time.Time
	resetTimer     *time.Timer

	// ability to inject the clock for unit testing
	NowFunc func() time.Time
}

func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{
		NowFunc: time.Now,
	}
}

// RecordFailure registers one failed attempt. When the limit is hit the
// throttle blocks and schedules its own reset after the cool-down.
func (t *LoginThrottle) RecordFailure() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.failedAttempts++
	if t.failedAttempts < maxFailedLogins {
		return
	}

	t.blockedUntil = t.NowFunc().Add(loginCooldown)
	log.Warnf("login throttle: %d failed attempts, blocking logins until %s", t.failedAttempts, t.blockedUntil.Format(time.RFC3339))

	if t.resetTimer != nil {
		t.resetTimer.Stop()
	}
	t.resetTimer = time.AfterFunc(loginCooldown, t.Reset)
}

func (t *LoginThrottle) IsBlocked() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return !t.blockedUntil.IsZero() && t.NowFunc().Before(t.blockedUntil)
}

func (t *LoginThrottle) FailedAttempts() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.failedAttempts
}

func (t *LoginThrottle) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.failedAttempts = 0
	t.blockedUntil = time.Time{}
}

// Stop cancels the pending cool-down reset, if any. Called at shutdown.
func (t *LoginThrottle) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
}
