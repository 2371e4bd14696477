package misc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atleticomaneiro/backend/internal/auth"
	"github.com/atleticomaneiro/backend/internal/instrumentation"
	"github.com/atleticomaneiro/backend/internal/middleware"
	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"
	"github.com/atleticomaneiro/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	versionInfo  string
	authService  *auth.Service
	loginChecker auth.Checker
	throttle     *auth.LoginThrottle
	instr        *instrumentation.Instrumentation
}

func NewHandler(
	versionInfo string,
	authService *auth.Service,
	loginChecker auth.Checker,
	throttle *auth.LoginThrottle,
	instr *instrumentation.Instrumentation,
) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		authService:  authService,
		loginChecker: loginChecker,
		throttle:     throttle,
		instr:        instr,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	loginSubrouter.
		HandleFunc("/me", handler.handleMe).
		Methods("GET", "OPTIONS").Name("me")

	// rate limit the login endpoints to prevent abuse
	if rateLimiter != nil {
		loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", 15, handler.instr))
	}
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "Atlético Maneiro backend, at your service o7")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if handler.throttle.IsBlocked() {
		handler.instr.CounterLoginBlocked.Inc()
		span.SetAttributes(attribute.Bool("login.blocked", true))
		http.Error(w, "too many failed login attempts, try again later", http.StatusTooManyRequests)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, loginReq.Username, loginReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongCredentials) {
			handler.throttle.RecordFailure()
			handler.instr.CounterLoginFailed.Inc()
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		// unexpected errors do not count toward the throttle
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	handler.throttle.Reset()
	handler.instr.CounterLoginSuccess.Inc()

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(middleware.TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	isLogged, err := handler.loginChecker.IsLogged(ctx, authToken)
	if err != nil {
		log.Tracef("[failed login check] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !isLogged {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	handler.authService.Logout(ctx)

	log.Println("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}

// handleMe tells the admin UI who is currently signed in.
func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.me")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	currentUser := handler.authService.CurrentUser()
	if currentUser == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userJson, err := json.Marshal(currentUser)
	if err != nil {
		log.Errorf("marshal current user: %s", err)
		http.Error(w, "failed to get current user", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
}
