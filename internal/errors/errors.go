package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrItemNotFound is returned when an inventory item does not exist.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrCategoryNotFound is returned when a category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMovementNotFound is returned when a stock movement does not exist.
	ErrMovementNotFound = errors.New("transaction not found")
	// ErrInvalidQuantity is returned when a movement quantity is negative.
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")
	// ErrInvalidMovementType is returned for an unknown transaction type.
	ErrInvalidMovementType = errors.New("transaction_type must be addition, removal or adjustment")
	// ErrInvalidRole is returned for an unknown user role.
	ErrInvalidRole = errors.New("role must be admin, manager or user")
	// ErrNoEffect is returned when a write that must touch exactly one row touched none.
	ErrNoEffect = errors.New("no rows affected")
	// ErrDuplicateSKU is returned when an item SKU is already taken.
	ErrDuplicateSKU = errors.New("SKU already exists")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("Username or email already exists")
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("Category name already exists")
	// ErrConflict is returned for any other uniqueness violation.
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference is returned when a foreign key does not resolve.
	ErrInvalidReference = errors.New("Invalid item ID or user ID")
	// ErrInvalidCategoryReference is returned when an item points at a missing category.
	ErrInvalidCategoryReference = errors.New("Invalid category ID")
	// ErrCategoryInUse is returned when deleting a category that still has items.
	ErrCategoryInUse = errors.New("category still has inventory items")
	// ErrItemInUse is returned when deleting an item that has recorded movements.
	ErrItemInUse = errors.New("inventory item has recorded transactions")
	// ErrUserInUse is returned when deleting a user that has recorded movements.
	ErrUserInUse = errors.New("user has recorded transactions")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Unrecognized errors keep their text; see TranslateStoreError.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, ErrItemNotFound.Error(), "ITEM_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCategoryNotFound.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMovementNotFound):
		return NewHTTPError(http.StatusNotFound, ErrMovementNotFound.Error(), "TRANSACTION_NOT_FOUND")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrInvalidMovementType):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidMovementType.Error(), "INVALID_TRANSACTION_TYPE")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidRole.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrDuplicateSKU):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateSKU.Error(), "DUPLICATE_SKU")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateUser.Error(), "DUPLICATE_USER")
	case errors.Is(err, ErrDuplicateCategory):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateCategory.Error(), "DUPLICATE_CATEGORY")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusBadRequest, ErrConflict.Error(), "CONFLICT")
	case errors.Is(err, ErrInvalidReference):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidReference.Error(), "INVALID_REFERENCE")
	case errors.Is(err, ErrInvalidCategoryReference):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCategoryReference.Error(), "INVALID_CATEGORY")
	case errors.Is(err, ErrCategoryInUse):
		return NewHTTPError(http.StatusBadRequest, ErrCategoryInUse.Error(), "CATEGORY_IN_USE")
	case errors.Is(err, ErrItemInUse):
		return NewHTTPError(http.StatusBadRequest, ErrItemInUse.Error(), "ITEM_IN_USE")
	case errors.Is(err, ErrUserInUse):
		return NewHTTPError(http.StatusBadRequest, ErrUserInUse.Error(), "USER_IN_USE")
	case errors.Is(err, ErrNoEffect):
		return NewHTTPError(http.StatusInternalServerError, ErrNoEffect.Error(), "NO_EFFECT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Database error: "+err.Error(), "INTERNAL_ERROR")
	}
}
