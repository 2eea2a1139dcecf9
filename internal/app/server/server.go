package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/catalog"
	"salon/internal/domain/clients"
	"salon/internal/domain/expenses"
	"salon/internal/domain/reports"
	"salon/internal/domain/sales"
	"salon/internal/domain/schedule"
	"salon/internal/platform/config"
	"salon/internal/platform/db"
	"salon/internal/platform/jobs"
	"salon/internal/platform/notify"
	"salon/internal/platform/payments"
	"salon/internal/stream"
	audithandler "salon/internal/transport/http/handlers/audit"
	authhandler "salon/internal/transport/http/handlers/auth"
	cataloghandler "salon/internal/transport/http/handlers/catalog"
	clientshandler "salon/internal/transport/http/handlers/clients"
	employeeshandler "salon/internal/transport/http/handlers/employees"
	expenseshandler "salon/internal/transport/http/handlers/expenses"
	reportshandler "salon/internal/transport/http/handlers/reports"
	saleshandler "salon/internal/transport/http/handlers/sales"
	schedulehandler "salon/internal/transport/http/handlers/schedule"
	streamhandler "salon/internal/transport/http/handlers/stream"
	"salon/internal/transport/http/middleware"
)

type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Router   http.Handler
	Broker   *stream.Broker
	Schedule *schedule.Service
	Jobs     *jobs.Service
}

// New wires stores, services, and routes. Callers own the returned App and
// must Close it; journey tests build one against a scratch database.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	broker := stream.NewBroker()

	scheduleStore := schedule.NewStore(pool)
	scheduleService, err := schedule.NewService(scheduleStore, broker, cfg.AvailabilityCache)
	if err != nil {
		pool.Close()
		return nil, err
	}

	auditService := audit.New(pool)
	idempotencyStore := middleware.NewIdempotencyStore(pool)
	authStore := auth.NewStore(pool)
	clientStore := clients.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	salesService := sales.NewService(sales.NewStore(pool), catalogStore, paymentLink(cfg))
	expenseStore := expenses.NewStore(pool)
	reportsService := reports.NewService(reports.NewStore(pool))

	notifyService := notify.New(cfg)
	jobsService := jobs.New(scheduleService, notifyService, cfg)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		employeeshandler.NewHandler(scheduleService, auditService).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleService, auditService).RegisterRoutes(r)
		clientshandler.NewHandler(clientStore, auditService).RegisterRoutes(r)
		cataloghandler.NewHandler(catalogStore, auditService).RegisterRoutes(r)
		saleshandler.NewHandler(salesService, cfg.SeedSalonName, auditService, idempotencyStore).RegisterRoutes(r)
		expenseshandler.NewHandler(expenseStore, auditService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
		streamhandler.NewHandler(broker).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config:   cfg,
		DB:       pool,
		Router:   router,
		Broker:   broker,
		Schedule: scheduleService,
		Jobs:     jobsService,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	if err := app.Jobs.Start(ctx); err != nil {
		log.Fatalf("background jobs failed: %v", err)
	}

	log.Printf("salon server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// paymentLink returns nil when Stripe is not configured; pay-by-link sales
// then fail with a clear error instead of a broken checkout.
func paymentLink(cfg config.Config) sales.PaymentLinkCreator {
	client := payments.New(cfg)
	if client == nil {
		return nil
	}
	return client
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
