package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invtrack/internal/auth"
	"invtrack/internal/cache"
	"invtrack/internal/config"
	"invtrack/internal/handler"
	"invtrack/internal/ledger"
	"invtrack/internal/metrics"
	"invtrack/internal/middleware"
	"invtrack/internal/repository"
	"invtrack/internal/service"
)

// Deps are the process-wide resources the server is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Cache may be nil.
	Cache *cache.Client
	// Registry receives the application metrics. Nil disables /metrics.
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// New assembles repositories, services and handlers and returns a ready
// echo instance.
func New(deps Deps) *echo.Echo {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var (
		recorder       metrics.Recorder = metrics.Discard
		metricsHandler http.Handler
	)
	if deps.Registry != nil {
		recorder = metrics.NewCollector(deps.Registry)
		metricsHandler = metrics.Handler(deps.Registry)
	}

	verifier := auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Expiration)
	store := repository.NewStore(deps.DB)

	engine := ledger.NewEngine(store,
		ledger.WithTimeout(cfg.Ledger.Timeout),
		ledger.WithMetrics(recorder),
		ledger.WithLogger(log.Named("ledger")),
	)

	// Initialize services
	authService := service.NewAuthService(store.Users(), verifier)
	userService := service.NewUserService(store.Users())
	categoryService := service.NewCategoryService(store.Categories())
	itemService := service.NewItemService(store,
		service.WithItemCache(deps.Cache, cfg.Redis.ItemTTL),
		service.WithLowStockThreshold(cfg.LowStockThreshold),
		service.WithItemMetrics(recorder),
		service.WithItemLogger(log.Named("items")),
	)
	movementService := service.NewMovementService(engine, store.Movements(),
		service.WithMovementCache(store.Items(), deps.Cache, cfg.Redis.ItemTTL),
	)
	reportService := service.NewReportService(store.Reports(), cfg.LowStockThreshold)

	gate := middleware.NewGate(verifier,
		middleware.WithGateMetrics(recorder),
		middleware.WithGateLogger(log.Named("gate")),
	)

	e := echo.New()
	e.HideBanner = true
	Register(e, cfg, gate, Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		Categories: handler.NewCategoryHandler(categoryService),
		Items:      handler.NewItemHandler(itemService),
		Movements:  handler.NewMovementHandler(movementService),
		Reports:    handler.NewReportHandler(reportService),
	}, metricsHandler, log.Named("http"))

	return e
}
