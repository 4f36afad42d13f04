package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"invtrack/internal/model"
	"invtrack/internal/service"
)

// ItemHandler serves the inventory item endpoints.
type ItemHandler struct {
	svc service.ItemService
}

// NewItemHandler creates an item handler.
func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// CreateItemRequest is the payload of a new item.
type CreateItemRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	CategoryID  uuid.UUID        `json:"category_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
}

// UpdateItemRequest carries the fields to change. A quantity given here is
// written directly and leaves no transaction behind.
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
}

// CreateItem godoc
// @Summary Create inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body CreateItemRequest true "Item payload"
// @Success 201 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Router /inventory [post]
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return badRequest("unit_price must not be negative", "VALIDATION_FAILED")
	}

	item, err := h.svc.CreateItem(c.Request().Context(), service.ItemInput{
		Name:        &req.Name,
		Description: req.Description,
		CategoryID:  &req.CategoryID,
		Quantity:    &req.Quantity,
		UnitPrice:   req.UnitPrice,
		SKU:         req.SKU,
		Location:    req.Location,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// ListItems godoc
// @Summary List inventory items
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Item
// @Router /inventory [get]
func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.svc.ListItems(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// SearchItems godoc
// @Summary Search inventory items
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param category_id query string false "Category ID"
// @Param min_quantity query int false "Minimum quantity"
// @Param max_quantity query int false "Maximum quantity"
// @Param min_price query number false "Minimum unit price"
// @Param max_price query number false "Maximum unit price"
// @Param location query string false "Location substring"
// @Param query query string false "Name, description or SKU substring"
// @Success 200 {array} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Router /inventory/search [get]
func (h *ItemHandler) SearchItems(c echo.Context) error {
	var (
		filter model.ItemFilter
		err    error
	)
	if filter.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return err
	}
	if filter.MinQuantity, err = queryInt(c, "min_quantity"); err != nil {
		return err
	}
	if filter.MaxQuantity, err = queryInt(c, "max_quantity"); err != nil {
		return err
	}
	if filter.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return err
	}
	if filter.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return err
	}
	filter.Location = queryString(c, "location")
	filter.Query = queryString(c, "query")

	items, err := h.svc.SearchItems(c.Request().Context(), filter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// LowStockItems godoc
// @Summary List items at or below a stock threshold
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Threshold (defaults to LOW_STOCK_THRESHOLD)"
// @Success 200 {array} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Router /inventory/low-stock [get]
func (h *ItemHandler) LowStockItems(c echo.Context) error {
	threshold, err := queryInt(c, "threshold")
	if err != nil {
		return err
	}
	items, err := h.svc.LowStockItems(c.Request().Context(), threshold)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get inventory item by id
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
// @Summary Update inventory item
// @Description A quantity sent here overwrites the stock level without a transaction record.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param item body UpdateItemRequest true "Fields to change"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [put]
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return badRequest("unit_price must not be negative", "VALIDATION_FAILED")
	}

	item, err := h.svc.UpdateItem(c.Request().Context(), id, service.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		SKU:         req.SKU,
		Location:    req.Location,
	}, claims.UserID())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete inventory item
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
