package catalog

import (
	"context"

	"flexirent/internal/domain"
	"flexirent/internal/repository"
)

// ProductRepository — only the methods the catalog service uses.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	UpdateAvailability(ctx context.Context, id int64, availability domain.Availability) error
	SoftDelete(ctx context.Context, id, updatedBy int64) error
	List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
}
