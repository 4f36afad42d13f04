package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"sqlite unique", errors.New("UNIQUE constraint failed: inventory_items.sku"), ErrDuplicateSKU},
		{"mysql unique", errors.New("Error 1062 (23000): Duplicate entry 'A-1' for key 'idx_inventory_items_sku'"), ErrDuplicateSKU},
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_inventory_items_sku"`), ErrDuplicateSKU},
		{"gorm translated unique", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), ErrDuplicateSKU},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), ErrInvalidCategoryReference},
		{"mysql fk", errors.New("Cannot add or update a child row: a foreign key constraint fails"), ErrInvalidCategoryReference},
		{"postgres fk", errors.New(`insert or update on table "inventory_items" violates foreign key constraint`), ErrInvalidCategoryReference},
		{"unrecognized passes through", errors.New("disk I/O error"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateStoreError(tt.err, ErrDuplicateSKU, ErrInvalidCategoryReference)
			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Nil(t, TranslateStoreError(nil, ErrConflict, ErrInvalidReference))
}

func TestTranslateStoreError_NilClassLeavesErrorAlone(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: users.username")
	assert.Equal(t, err, TranslateStoreError(err, nil, ErrInvalidReference))
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{fmt.Errorf("lock item: %w", ErrItemNotFound), http.StatusNotFound, "ITEM_NOT_FOUND"},
		{ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE"},
		{ErrDuplicateSKU, http.StatusBadRequest, "DUPLICATE_SKU"},
		{ErrNoEffect, http.StatusInternalServerError, "NO_EFFECT"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		httpErr := MapErrorToHTTP(tt.err)
		assert.Equal(t, tt.status, httpErr.StatusCode, tt.err.Error())
		assert.Equal(t, tt.code, httpErr.Code)
	}

	assert.Equal(t, "Database error: connection refused", MapErrorToHTTP(errors.New("connection refused")).Message)
}
