// Package seed bootstraps the data a fresh installation needs: an admin
// account and a few starter categories.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"invtrack/internal/auth"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// AdminUsername is the login of the bootstrap administrator.
const AdminUsername = "admin"

// DefaultCategories are created on first seed.
var DefaultCategories = []model.Category{
	{Name: "Electronics", Description: strPtr("Electronic devices and components")},
	{Name: "Office Supplies", Description: strPtr("Supplies for office use")},
	{Name: "Furniture", Description: strPtr("Office and home furniture")},
}

// Options selects what to seed.
type Options struct {
	AdminPassword string
	AdminEmail    string
}

// Result counts what a run did.
type Result struct {
	Created  int
	Existing int
}

// Run creates the admin user and the default categories unless they exist.
// It is safe to run repeatedly; existing records are never modified.
func Run(ctx context.Context, store repository.Store, opts Options, log *zap.Logger) (Result, error) {
	var res Result

	if opts.AdminPassword == "" {
		return res, errors.New("admin password must not be empty")
	}

	created, err := seedAdmin(ctx, store.Users(), opts)
	if err != nil {
		return res, err
	}
	res.count(created)
	if created {
		log.Info("admin user created", zap.String("username", AdminUsername))
	} else {
		log.Info("admin user already exists", zap.String("username", AdminUsername))
	}

	for _, c := range DefaultCategories {
		category := c
		created, err := seedCategory(ctx, store.Categories(), &category)
		if err != nil {
			return res, err
		}
		res.count(created)
		log.Info("category seeded", zap.String("name", category.Name), zap.Bool("created", created))
	}

	return res, nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Existing++
	}
}

func seedAdmin(ctx context.Context, users repository.UserRepository, opts Options) (bool, error) {
	_, err := users.FindByUsername(ctx, AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{
		Username:     AdminUsername,
		Email:        opts.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	return true, nil
}

func seedCategory(ctx context.Context, categories repository.CategoryRepository, category *model.Category) (bool, error) {
	_, err := categories.FindByName(ctx, category.Name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return false, fmt.Errorf("check category %s: %w", category.Name, err)
	}
	if err := categories.Create(ctx, category); err != nil {
		return false, fmt.Errorf("create category %s: %w", category.Name, err)
	}
	return true, nil
}

func strPtr(s string) *string { return &s }
