// Package memory implements an in-memory product repository used for tests
// and for running the server without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prodcat/backend/internal/domain"
)

// ProductRepository is a thread-safe in-memory implementation of
// domain.ProductRepository. Data is lost on process restart.
type ProductRepository struct {
	mutex  sync.RWMutex
	data   map[int64]domain.Product
	nextID int64
}

// NewProductRepository creates an empty in-memory repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		data:   make(map[int64]domain.Product),
		nextID: 1,
	}
}

// Create stores a new product with an auto-incremented id.
func (r *ProductRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	product := domain.Product{
		ID:          r.nextID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CreatedAt:   time.Now(),
	}
	r.data[product.ID] = product
	r.nextID++

	return &product, nil
}

// GetByID returns the product with the given id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	product, exists := r.data[id]
	if !exists {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

// List returns products ordered by id with skip/limit pagination.
func (r *ProductRepository) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	all := make([]domain.Product, 0, len(r.data))
	for _, p := range r.data {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if skip >= len(all) {
		return []domain.Product{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Update applies the non-nil fields of patch to an existing product.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	product, exists := r.data[id]
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	r.data[id] = product

	return &product, nil
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.data[id]; !exists {
		return domain.ErrProductNotFound
	}
	delete(r.data, id)
	return nil
}

// Size returns the current number of stored products (for tests).
func (r *ProductRepository) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.data)
}
