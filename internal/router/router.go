package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"invtrack/internal/config"
	"invtrack/internal/errors"
	"invtrack/internal/handler"
	"invtrack/internal/middleware"
	"invtrack/internal/model"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Items      *handler.ItemHandler
	Movements  *handler.MovementHandler
	Reports    *handler.ReportHandler
}

// Register wires routes and middleware. Every /api route runs behind the
// gate; only the login route is let through without a token.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gate *middleware.Gate,
	h Handlers,
	metricsHandler http.Handler,
	log *zap.Logger,
) {
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", gate.Pipeline().Middleware())

	// Public route; the gate lets the login path through.
	api.POST("/auth/login", h.Auth.Login, loginLimiter(cfg.Server.LoginRateLimit)...)

	api.GET("/me", h.Auth.Me)

	// User routes (admin only)
	users := api.Group("/users", middleware.Pipeline{gate.RequireRoles(model.RoleAdmin)}.Middleware())
	users.POST("", h.Users.CreateUser)
	users.GET("", h.Users.ListUsers)
	users.GET("/:id", h.Users.GetUser)
	users.PUT("/:id", h.Users.UpdateUser)
	users.DELETE("/:id", h.Users.DeleteUser)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", h.Categories.CreateCategory)
	categories.GET("", h.Categories.ListCategories)
	categories.GET("/search", h.Categories.SearchCategories)
	categories.GET("/:id", h.Categories.GetCategory)
	categories.PUT("/:id", h.Categories.UpdateCategory)
	categories.DELETE("/:id", h.Categories.DeleteCategory)

	// Inventory routes
	inventory := api.Group("/inventory")
	inventory.POST("", h.Items.CreateItem)
	inventory.GET("", h.Items.ListItems)
	inventory.GET("/search", h.Items.SearchItems)
	inventory.GET("/low-stock", h.Items.LowStockItems)
	inventory.GET("/:id", h.Items.GetItem)
	inventory.PUT("/:id", h.Items.UpdateItem)
	inventory.DELETE("/:id", h.Items.DeleteItem)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Movements.RecordMovement)
	transactions.GET("/recent", h.Movements.ListRecentMovements)
	transactions.GET("/:id", h.Movements.GetMovement)
	transactions.GET("/item/:id", h.Movements.ListItemMovements)
	transactions.GET("/user/:id", h.Movements.ListUserMovements)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/inventory-summary", h.Reports.InventorySummary)
	reports.GET("/category-summary", h.Reports.CategorySummary)
	reports.GET("/transaction-history", h.Reports.TransactionHistory)
}

// loginLimiter throttles login attempts per client IP. A non-positive
// limit disables it.
func loginLimiter(perSecond float64) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{
		echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
			Store: echomw.NewRateLimiterMemoryStore(rate.Limit(perSecond)),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
					Error: "too many login attempts",
					Code:  "RATE_LIMITED",
				})
			},
		}),
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
