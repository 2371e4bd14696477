package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/atleticomaneiro/backend/internal/auth"
	"github.com/atleticomaneiro/backend/internal/config"
	"github.com/atleticomaneiro/backend/internal/db"
	"github.com/atleticomaneiro/backend/internal/instrumentation"
	"github.com/atleticomaneiro/backend/internal/matches"
	"github.com/atleticomaneiro/backend/internal/middleware"
	"github.com/atleticomaneiro/backend/internal/misc"
	"github.com/atleticomaneiro/backend/internal/news"
	"github.com/atleticomaneiro/backend/internal/players"
	"github.com/atleticomaneiro/backend/internal/teamstats"
	"github.com/atleticomaneiro/backend/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	sessionStore *auth.SessionStore
	authService  *auth.Service
	loginChecker *auth.LoginChecker
	throttle     *auth.LoginThrottle

	// telemetry
	instr        *instrumentation.Instrumentation
	promRegistry *prometheus.Registry
	otelShutdown func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.DBHost,
		DBPort:         params.Config.DBPort,
		DBName:         params.Config.DBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.DBName},
	)
	promRegistry := instrumentation.SetupPrometheus(pgxpoolCollector)
	instr := instrumentation.New("backend", "main", promRegistry)
	instr.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "club-backend", rdb)
	if err != nil {
		return nil, err
	}

	sessionStore := auth.NewSessionStore(rdb)
	authService := auth.NewService(
		sessionStore,
		auth.NewStaticAdminVerifier(&auth.Admin{
			ID:           "admin-id",
			Username:     params.AdminUsername,
			PasswordHash: params.AdminPasswordHash,
		}),
	)
	authService.Initialize(ctx)

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		sessionStore: sessionStore,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(sessionStore),
		throttle:     auth.NewLoginThrottle(),

		instr:        instr,
		promRegistry: promRegistry,
		otelShutdown: otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	playersHandler := players.NewHandler(players.NewRepo(s.dbPool))
	playersHandler.SetupRoutes(r)

	matchesHandler := matches.NewHandler(matches.NewRepo(s.dbPool))
	matchesHandler.SetupRoutes(r)

	newsHandler := news.NewHandler(news.NewRepo(s.dbPool))
	newsHandler.SetupRoutes(r)

	statsHandler := teamstats.NewHandler(teamstats.NewRepo(s.dbPool))
	statsHandler.SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(
		s.versionInfo,
		s.authService,
		s.loginChecker,
		s.throttle,
		s.instr,
	)
	miscHandler.SetupRoutes(r, reqRateLimiter)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	accessGuard := middleware.NewAccessGuard(s.authService, s.sessionStore, "/login")

	r.Use(middleware.PanicRecovery(s.instr))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.instr))
	r.Use(middleware.Cors())
	r.Use(accessGuard.Check())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.instr.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.instr.GaugeLifeSignal.Set(0)
	s.throttle.Stop()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.instr.GaugeRequests.Add(1)
	case http.StateClosed:
		s.instr.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
