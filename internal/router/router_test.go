package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invtrack/internal/auth"
	"invtrack/internal/config"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/service"
	"invtrack/internal/testutil"
)

type server struct {
	t    *testing.T
	echo *echo.Echo
	db   *gorm.DB
}

func newServer(t *testing.T, loginRate float64) *server {
	t.Helper()

	gormDB := testutil.NewSQLite(t)
	cfg := &config.Config{
		Server:            config.ServerConfig{LoginRateLimit: loginRate},
		JWT:               config.JWTConfig{Secret: "router-secret", Expiration: time.Hour},
		Ledger:            config.LedgerConfig{Timeout: 5 * time.Second},
		LowStockThreshold: 10,
	}

	e := New(Deps{
		Config:   cfg,
		DB:       gormDB,
		Registry: prometheus.NewRegistry(),
	})
	return &server{t: t, echo: e, db: gormDB}
}

func (s *server) createUser(username, password string, role model.Role) *model.User {
	s.t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(s.t, err)
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: hash, Role: role}
	require.NoError(s.t, s.db.Create(user).Error)
	return user
}

func (s *server) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(username, password string) service.LoginResult {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var result service.LoginResult
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStockFlow(t *testing.T) {
	s := newServer(t, 0)
	admin := s.createUser("admin", "admin123", model.RoleAdmin)

	session := s.login("admin", "admin123")
	assert.Equal(t, admin.ID, session.UserID)
	assert.Equal(t, model.RoleAdmin, session.Role)
	token := session.Token

	rec := s.do(http.MethodPost, "/api/categories", token, map[string]string{"name": "Hardware"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[model.Category](t, rec)

	rec = s.do(http.MethodPost, "/api/inventory", token, map[string]interface{}{
		"name":        "Hammer",
		"category_id": category.ID,
		"quantity":    50,
		"unit_price":  "12.50",
		"sku":         "HAM-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[model.Item](t, rec)
	assert.Equal(t, 50, item.Quantity)

	rec = s.do(http.MethodPost, "/api/transactions", token, map[string]interface{}{
		"item_id":          item.ID,
		"transaction_type": "removal",
		"quantity":         20,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	movement := decode[model.Movement](t, rec)
	assert.Equal(t, admin.ID, movement.UserID)
	require.NotNil(t, movement.Item)
	assert.Equal(t, 30, movement.Item.Quantity)

	rec = s.do(http.MethodPost, "/api/transactions", token, map[string]interface{}{
		"item_id":          item.ID,
		"transaction_type": "adjustment",
		"quantity":         5,
		"notes":            "stock take",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/inventory/"+item.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[model.Item](t, rec).Quantity)

	rec = s.do(http.MethodGet, "/api/transactions/item/"+item.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Movement](t, rec), 2)

	rec = s.do(http.MethodGet, "/api/reports/transaction-history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]model.DailyMovementSummary](t, rec)
	require.Len(t, days, 1)
	assert.EqualValues(t, 20, days[0].Removals)
	assert.EqualValues(t, 5, days[0].Adjustments)

	rec = s.do(http.MethodGet, "/api/reports/inventory-summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[model.InventorySummary](t, rec)
	assert.EqualValues(t, 5, summary.TotalQuantity)
	assert.EqualValues(t, 1, summary.LowStockCount)

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `invtrack_movements_recorded_total{type="removal"} 1`)
}

func TestRecordMovementErrors(t *testing.T) {
	s := newServer(t, 0)
	user := s.createUser("clerk", "clerk123", model.RoleUser)
	token := s.login("clerk", "clerk123").Token

	category := testutil.CreateCategory(t, s.db, "Tools")
	item := testutil.CreateItem(t, s.db, category.ID, "Saw", 3, "9.99")

	tests := []struct {
		name    string
		body    map[string]interface{}
		status  int
		message string
	}{
		{
			name:    "unknown type",
			body:    map[string]interface{}{"item_id": item.ID, "transaction_type": "theft", "quantity": 1},
			status:  http.StatusBadRequest,
			message: apperrors.ErrInvalidMovementType.Error(),
		},
		{
			name:    "negative quantity",
			body:    map[string]interface{}{"item_id": item.ID, "transaction_type": "addition", "quantity": -1},
			status:  http.StatusBadRequest,
			message: apperrors.ErrInvalidQuantity.Error(),
		},
		{
			name:    "unknown item",
			body:    map[string]interface{}{"item_id": uuid.New(), "transaction_type": "addition", "quantity": 1},
			status:  http.StatusNotFound,
			message: apperrors.ErrItemNotFound.Error(),
		},
		{
			name:    "unknown user",
			body:    map[string]interface{}{"item_id": item.ID, "transaction_type": "addition", "quantity": 1, "user_id": uuid.New()},
			status:  http.StatusBadRequest,
			message: "Invalid item ID or user ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/transactions", token, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.message, decode[apperrors.ErrorResponse](t, rec).Error)
		})
	}

	assert.Equal(t, 3, testutil.Quantity(t, s.db, item.ID))
	assert.Zero(t, testutil.MovementCount(t, s.db, item.ID))

	rec := s.do(http.MethodPost, "/api/transactions", token, map[string]interface{}{
		"item_id": item.ID, "transaction_type": "addition", "quantity": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, user.ID, decode[model.Movement](t, rec).UserID)
}

func TestGateOnRoutes(t *testing.T) {
	s := newServer(t, 0)
	s.createUser("admin", "admin123", model.RoleAdmin)
	s.createUser("manager", "manager123", model.RoleManager)
	adminToken := s.login("admin", "admin123").Token
	managerToken := s.login("manager", "manager123").Token

	rec := s.do(http.MethodGet, "/api/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header missing", decode[apperrors.ErrorResponse](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/inventory", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode[apperrors.ErrorResponse](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/users", managerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Insufficient permissions", decode[apperrors.ErrorResponse](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]map[string]interface{}](t, rec)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password_hash")
	}

	rec = s.do(http.MethodGet, "/api/me", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manager", decode[map[string]interface{}](t, rec)["username"])

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	s := newServer(t, 1)
	s.createUser("admin", "admin123", model.RoleAdmin)

	body := map[string]string{"username": "admin", "password": "wrong"}
	first := s.do(http.MethodPost, "/api/auth/login", "", body)
	second := s.do(http.MethodPost, "/api/auth/login", "", body)

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.True(t, strings.Contains(second.Body.String(), "RATE_LIMITED"))
}
