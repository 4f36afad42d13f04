package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Constraint violation texts of the supported stores (SQLite, MySQL, PostgreSQL).
var (
	uniqueViolations = []string{
		"UNIQUE constraint failed",
		"Duplicate entry",
		"duplicate key value",
	}
	foreignKeyViolations = []string{
		"FOREIGN KEY constraint failed",
		"foreign key constraint fails",
		"violates foreign key constraint",
	}
)

// IsUniqueViolation reports whether err is a uniqueness constraint failure.
func IsUniqueViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) || containsAny(err.Error(), uniqueViolations))
}

// IsForeignKeyViolation reports whether err is a foreign key constraint failure.
func IsForeignKeyViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrForeignKeyViolated) || containsAny(err.Error(), foreignKeyViolations))
}

// TranslateStoreError turns store-level failures into domain errors.
// onUnique and onForeignKey select the domain error for the constraint
// classes; nil leaves that class untranslated. Errors that match nothing are
// returned unchanged so their text still reaches the caller.
func TranslateStoreError(err, onUnique, onForeignKey error) error {
	switch {
	case err == nil:
		return nil
	case onUnique != nil && IsUniqueViolation(err):
		return onUnique
	case onForeignKey != nil && IsForeignKeyViolation(err):
		return onForeignKey
	default:
		return err
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
