package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atleticomaneiro/backend/internal/auth"
	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"
	"github.com/atleticomaneiro/backend/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// TokenHeader carries the session token on admin requests.
const TokenHeader = "X-ATLETICO-TOKEN"

type GuardState int

const (
	// auth state still being recovered, no verdict yet
	StateChecking GuardState = iota
	StateAuthorized
	StateUnauthorized
)

// AccessGuard gates the admin surface. Public paths are allow-listed,
// everything else needs an authorized session. The stored session is
// re-checked on every request as a second line of defense next to the
// in-memory admin flag, so an expired session is caught on the next
// request into the protected area.
type AccessGuard struct {
	authService          *auth.Service
	store                *auth.SessionStore
	validator            *auth.Validator
	loginPath            string
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAccessGuard(
	authService *auth.Service,
	store *auth.SessionStore,
	loginPath string,
) *AccessGuard {
	return &AccessGuard{
		authService: authService,
		store:       store,
		validator:   auth.NewValidator(),
		loginPath:   loginPath,
		allowedPaths: map[string]bool{
			// misc handler:
			"/":         true,
			"/version":  true,
			"/a/login":  true,
			"/a/logout": true,

			// public club site:
			"/players/all":    true,
			"/matches/all":    true,
			"/matches/next":   true,
			"/news/published": true,
			"/stats":          true,
		},
		allowedPathsPrefixes: []string{
			"/news/page/",
		},
	}
}

func (g *AccessGuard) pathIsAlwaysAllowed(path string) bool {
	if g.allowedPaths[path] {
		return true
	}
	for _, prefix := range g.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Evaluate yields the guard verdict for a presented token. A stored
// session that fails re-validation is cleared on the spot.
func (g *AccessGuard) Evaluate(ctx context.Context, token string) GuardState {
	if g.authService.Loading() {
		return StateChecking
	}

	user, storedToken, err := g.store.Load(ctx)
	if err != nil {
		log.Errorf("access guard, load session: %s", err)
		return StateUnauthorized
	}
	if user == nil {
		return StateUnauthorized
	}

	if !g.validator.IsValid(user, storedToken) {
		// stale or corrupted session, drop it
		g.authService.Invalidate(ctx)
		return StateUnauthorized
	}

	if token != storedToken {
		return StateUnauthorized
	}

	if !g.authService.IsAdmin() {
		return StateUnauthorized
	}

	return StateAuthorized
}

func (g *AccessGuard) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.accessGuard")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if g.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(TokenHeader)

			switch g.Evaluate(ctx, token) {
			case StateChecking:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "auth check in progress", http.StatusServiceUnavailable)
				span.SetStatus(codes.Error, "still-checking")
			case StateUnauthorized:
				reqIp, _ := pkg.ReadUserIP(r)
				log.Tracef("[access guard] unauthorized => %s from %s", r.URL.Path, reqIp)
				if acceptsHTML(r) {
					http.Redirect(w, r, g.loginPath+"?error=auth-required", http.StatusFound)
				} else {
					http.Error(w, "no can do", http.StatusUnauthorized)
				}
				span.SetStatus(codes.Error, "unauthorized")
			case StateAuthorized:
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
			}
		})
	}
}

func acceptsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
