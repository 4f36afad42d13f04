package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        *string
	Description *string
}

// CategoryService manages item categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, name string, description *string) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, query string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, name string, description *string) (*model.Category, error) {
	category := &model.Category{Name: name, Description: description}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}

// ListCategories lists every category, or only those whose name or
// description contains query when it is not blank.
func (s *categoryService) ListCategories(ctx context.Context, query string) ([]model.Category, error) {
	if q := strings.TrimSpace(query); q != "" {
		return s.repo.Search(ctx, q)
	}
	return s.repo.List(ctx)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = in.Description
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
