package app

import (
	"context"

	authAPI "roulette_sentinel/internal/api/auth"
	sessionAPI "roulette_sentinel/internal/api/session"
	simulationAPI "roulette_sentinel/internal/api/simulation"
	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/config/env"
	"roulette_sentinel/internal/converter"
	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/middleware"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/repository/memory_repo"
	"roulette_sentinel/internal/repository/session_repo"
	"roulette_sentinel/internal/repository/spin_repo"
	"roulette_sentinel/internal/repository/user_repo"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/internal/service/auth"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/session"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulation"
	"roulette_sentinel/migrations"
	"roulette_sentinel/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServiceProvider struct {
	configPath string

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool
	memStore *memory_repo.Store // Если PG_DSN пуст

	// Strategy
	strategyCfg config.StrategyConfig
	riskCfg     config.RiskConfig
	formula     *shield.Formula

	// Metrics
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Auth bits
	jwtCfg   config.JWTConfig
	userRepo repository.UserRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// Session bits
	sessionRepo repository.SessionRepository
	spinRepo    repository.SpinRepository
	sessionServ service.SessionService
	sessionHand *sessionAPI.Handler

	// Simulation bits
	simulationServ service.SimulationService
	simulationHand *simulationAPI.Handler

	// Router, HTTP and logger config
	httpCfg   config.HTTPConfig
	loggerCfg config.LoggerConfig
	router    chi.Router
}

func newServiceProvider(configPath string) *ServiceProvider {
	return &ServiceProvider{configPath: configPath}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

// usePostgres - false, если PG_DSN не задан и данные живут в памяти
func (sp *ServiceProvider) usePostgres() bool {
	return sp.PgConfig().DSN() != ""
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		if err = migrations.Apply(ctx, dbc); err != nil {
			panic("failed to apply migrations: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) MemStore() *memory_repo.Store {
	if sp.memStore == nil {
		logger.Warnf("PG_DSN is empty, sessions are kept in memory")
		sp.memStore = memory_repo.NewStore()
	}
	return sp.memStore
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if !sp.usePostgres() {
			sp.txManager = memory_repo.NewTxManager()
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		if sp.usePostgres() {
			sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
		} else {
			sp.userRepo = sp.MemStore().Users()
		}
	}
	return sp.userRepo
}

func (sp *ServiceProvider) SessionRepo(ctx context.Context) repository.SessionRepository {
	if sp.sessionRepo == nil {
		if sp.usePostgres() {
			sp.sessionRepo = session_repo.NewSessionRepository(sp.DBClient(ctx))
		} else {
			sp.sessionRepo = sp.MemStore().Sessions()
		}
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) SpinRepo(ctx context.Context) repository.SpinRepository {
	if sp.spinRepo == nil {
		if sp.usePostgres() {
			sp.spinRepo = spin_repo.NewSpinRepository(sp.DBClient(ctx))
		} else {
			sp.spinRepo = sp.MemStore().Spins()
		}
	}
	return sp.spinRepo
}

func (sp *ServiceProvider) StrategyCfg() config.StrategyConfig {
	if sp.strategyCfg == nil {
		cfg, err := env.NewStrategyConfigFromYAML(sp.configPath)
		if err != nil {
			panic("failed to get strategy config: " + err.Error())
		}
		sp.strategyCfg = cfg
	}
	return sp.strategyCfg
}

func (sp *ServiceProvider) RiskCfg() config.RiskConfig {
	if sp.riskCfg == nil {
		cfg, err := env.NewRiskConfigFromYAML(sp.configPath)
		if err != nil {
			panic("failed to get risk config: " + err.Error())
		}
		sp.riskCfg = cfg
	}
	return sp.riskCfg
}

func (sp *ServiceProvider) Limits() risk.Limits {
	return converter.RiskConfigToLimits(sp.RiskCfg())
}

// Formula - одна таблица Фибоначчи на все сессии
func (sp *ServiceProvider) Formula() *shield.Formula {
	if sp.formula == nil {
		sp.formula = shield.NewFormula()
	}
	return sp.formula
}

func (sp *ServiceProvider) Registry() *prometheus.Registry {
	if sp.registry == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sp.registry = reg
	}
	return sp.registry
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New(sp.Registry())
	}
	return sp.metrics
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.JWTCfg())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(ctx)})
	}
	return sp.authHand
}

func (sp *ServiceProvider) SessionService(ctx context.Context) service.SessionService {
	if sp.sessionServ == nil {
		sp.sessionServ = session.NewService(session.Deps{
			TxManager:   sp.TXManager(ctx),
			SessionRepo: sp.SessionRepo(ctx),
			SpinRepo:    sp.SpinRepo(ctx),
			Formula:     sp.Formula(),
			Strategy:    sp.StrategyCfg(),
			Limits:      sp.Limits(),
			Metrics:     sp.Metrics(),
		})
	}
	return sp.sessionServ
}

func (sp *ServiceProvider) SessionHandler(ctx context.Context) *sessionAPI.Handler {
	if sp.sessionHand == nil {
		sp.sessionHand = sessionAPI.NewHandler(sessionAPI.HandlerDeps{Serv: sp.SessionService(ctx)})
	}
	return sp.sessionHand
}

func (sp *ServiceProvider) SimulationService() service.SimulationService {
	if sp.simulationServ == nil {
		sp.simulationServ = simulation.NewService(sp.Formula(), sp.StrategyCfg(), sp.Limits(), sp.Metrics())
	}
	return sp.simulationServ
}

func (sp *ServiceProvider) SimulationHandler() *simulationAPI.Handler {
	if sp.simulationHand == nil {
		sp.simulationHand = simulationAPI.NewHandler(simulationAPI.HandlerDeps{Serv: sp.SimulationService()})
	}
	return sp.simulationHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) LoggerCfg() config.LoggerConfig {
	if sp.loggerCfg == nil {
		cfg, err := env.NewLoggerConfig()
		if err != nil {
			panic("failed to get logger config: " + err.Error())
		}
		sp.loggerCfg = cfg
	}

	return sp.loggerCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(middleware.Logging)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Handle("/metrics", promhttp.HandlerFor(sp.Registry(), promhttp.HandlerOpts{}))

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
		})

		// Endpoints behind Bearer token
		sessionHandler := sp.SessionHandler(ctx)
		simulationHandler := sp.SimulationHandler()
		r.Group(func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))

			rr.Route("/session", func(sr chi.Router) {
				sr.Post("/start", sessionHandler.Start)
				sr.Post("/spin", sessionHandler.Spin)
				sr.Get("/stats", sessionHandler.Stats)
				sr.Post("/stop", sessionHandler.Stop)
				sr.Get("/export", sessionHandler.Export)
				sr.Get("/analytics", sessionHandler.Analytics)
			})
			rr.Post("/simulate", simulationHandler.Simulate)
		})

		sp.router = r
	}

	return sp.router
}

// Close - освобождение соединений с БД
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
}
