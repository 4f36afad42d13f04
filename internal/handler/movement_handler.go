package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/service"
)

// MovementHandler serves the stock transaction endpoints.
type MovementHandler struct {
	svc service.MovementService
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(svc service.MovementService) *MovementHandler {
	return &MovementHandler{svc: svc}
}

// RecordMovementRequest is the payload of a stock transaction. Quantity is
// a pointer so that a missing value is told apart from zero.
type RecordMovementRequest struct {
	ItemID          uuid.UUID  `json:"item_id" validate:"required"`
	TransactionType string     `json:"transaction_type" validate:"required"`
	Quantity        *int       `json:"quantity" validate:"required"`
	UserID          *uuid.UUID `json:"user_id"`
	Notes           *string    `json:"notes"`
}

// RecordMovement godoc
// @Summary Record a stock transaction
// @Description Appends the transaction and applies it to the item's quantity in one unit of work.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body RecordMovementRequest true "Transaction payload"
// @Success 201 {object} model.Movement
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *MovementHandler) RecordMovement(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req RecordMovementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	movementType, err := model.ParseMovementType(req.TransactionType)
	if err != nil {
		return fail(errors.ErrInvalidMovementType)
	}

	in := service.RecordMovementInput{
		ItemID:   req.ItemID,
		Type:     movementType,
		Quantity: *req.Quantity,
		Notes:    req.Notes,
	}
	if req.UserID != nil {
		in.UserID = *req.UserID
	}

	movement, err := h.svc.RecordMovement(c.Request().Context(), in, claims.UserID())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, movement)
}

// GetMovement godoc
// @Summary Get transaction by id
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} model.Movement
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [get]
func (h *MovementHandler) GetMovement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movement, err := h.svc.GetMovement(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, movement)
}

// ListItemMovements godoc
// @Summary List transactions of an item
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {array} model.Movement
// @Router /transactions/item/{id} [get]
func (h *MovementHandler) ListItemMovements(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movements, err := h.svc.ListByItem(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, movements)
}

// ListUserMovements godoc
// @Summary List transactions recorded for a user
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.Movement
// @Router /transactions/user/{id} [get]
func (h *MovementHandler) ListUserMovements(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	movements, err := h.svc.ListByUser(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, movements)
}

// ListRecentMovements godoc
// @Summary List the most recent transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of transactions (default 20, at most 100)"
// @Success 200 {array} model.Movement
// @Router /transactions/recent [get]
func (h *MovementHandler) ListRecentMovements(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	n := service.DefaultRecentLimit
	if limit != nil {
		n = *limit
	}
	movements, err := h.svc.ListRecent(c.Request().Context(), n)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, movements)
}
