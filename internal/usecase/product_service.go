package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/prodcat/backend/internal/domain"
)

// maxNameLength matches the products table's VARCHAR(150) column.
const maxNameLength = 150

// ProductService implements the plain CRUD operations over products,
// enforcing input invariants before touching the repository.
type ProductService struct {
	repo domain.ProductRepository
}

// NewProductService creates a product service backed by the given repository.
func NewProductService(repo domain.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Create validates the input and stores a new product.
func (s *ProductService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(input.Name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, maxNameLength)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrInvalidInput)
	}
	return s.repo.Create(ctx, input)
}

// Get returns the product with the given id.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns products ordered by id, applying skip/limit pagination.
func (s *ProductService) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, skip, limit)
}

// Update applies the non-nil fields of patch to an existing product.
func (s *ProductService) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}
	if patch.Name != nil && utf8.RuneCountInString(*patch.Name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, maxNameLength)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the product with the given id.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
