package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prodcat/backend/internal/domain"
)

func TestProductRepository_CreateAndGet(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.ProductInput{Name: "Keyboard", Description: "Mechanical", Price: 59.9})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Keyboard" || got.Price != 59.9 {
		t.Errorf("got %+v, want stored product", got)
	}

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("GetByID(99) error = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_List(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if _, err := repo.Create(ctx, domain.ProductInput{Name: name, Price: 1}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		skip      int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{name: "full page", skip: 0, limit: 10, wantLen: 5, wantFirst: "a"},
		{name: "skip two", skip: 2, limit: 10, wantLen: 3, wantFirst: "c"},
		{name: "limit two", skip: 0, limit: 2, wantLen: 2, wantFirst: "a"},
		{name: "skip past end", skip: 100, limit: 10, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(ctx, tt.skip, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(products) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(products), tt.wantLen)
			}
			if tt.wantLen > 0 && products[0].Name != tt.wantFirst {
				t.Errorf("first = %q, want %q", products[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	created, _ := repo.Create(ctx, domain.ProductInput{Name: "Keyboard", Description: "Mechanical", Price: 59.9})

	newPrice := 49.9
	updated, err := repo.Update(ctx, created.ID, domain.ProductPatch{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Price != 49.9 {
		t.Errorf("Price = %v, want 49.9", updated.Price)
	}
	if updated.Name != "Keyboard" {
		t.Errorf("Name = %q, should be unchanged", updated.Name)
	}

	if _, err := repo.Update(ctx, 99, domain.ProductPatch{Price: &newPrice}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("Update(99) error = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	created, _ := repo.Create(ctx, domain.ProductInput{Name: "Keyboard", Price: 1})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrProductNotFound", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("second Delete error = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_ConcurrentCreates(t *testing.T) {
	// The import pipeline issues sequential creates per import, but several
	// imports may run at once.
	repo := NewProductRepository()
	ctx := context.Background()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := repo.Create(ctx, domain.ProductInput{Name: "p", Price: 1}); err != nil {
					t.Errorf("Create() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if repo.Size() != workers*perWorker {
		t.Errorf("Size() = %d, want %d", repo.Size(), workers*perWorker)
	}

	// IDs must be unique.
	products, err := repo.List(ctx, 0, workers*perWorker+1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}
