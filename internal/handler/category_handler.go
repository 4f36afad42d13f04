package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invtrack/internal/service"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	svc service.CategoryService
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// CategoryRequest is the payload of a category create or update.
type CategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// CreateCategory godoc
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category payload"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Name == nil {
		return badRequest("name is required", "VALIDATION_FAILED")
	}

	category, err := h.svc.CreateCategory(c.Request().Context(), *req.Name, req.Description)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Category
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.svc.ListCategories(c.Request().Context(), "")
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// SearchCategories godoc
// @Summary Search categories by name or description
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param query query string false "Text to look for"
// @Success 200 {array} model.Category
// @Router /categories/search [get]
func (h *CategoryHandler) SearchCategories(c echo.Context) error {
	categories, err := h.svc.ListCategories(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get category by id
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} model.Category
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	category, err := h.svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, category)
}

// UpdateCategory godoc
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param category body CategoryRequest true "Fields to change"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.svc.UpdateCategory(c.Request().Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
