package catalog

import (
	"context"
	"errors"

	"flexirent/internal/domain"
	"flexirent/internal/pkg/validator"
	"flexirent/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	products ProductRepository
}

func NewService(products ProductRepository) *Service {
	return &Service{products: products}
}

func (s *Service) Create(ctx context.Context, adminID int64, req CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Image:        req.Image,
		PricePerHour: req.PricePerHour,
		PricePerDay:  req.PricePerDay,
		PricePerWeek: req.PricePerWeek,
		Features:     req.Features,
		AddOns:       buildAddOns(req.AddOns),
		Availability: domain.Available,
		IsActive:     true,
		CreatedBy:    adminID,
		UpdatedBy:    adminID,
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, adminID, id int64, req UpdateProductRequest) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.PricePerHour != nil {
		p.PricePerHour = *req.PricePerHour
	}
	if req.PricePerDay != nil {
		p.PricePerDay = *req.PricePerDay
	}
	if req.PricePerWeek != nil {
		p.PricePerWeek = *req.PricePerWeek
	}
	if req.Features != nil {
		p.Features = *req.Features
	}
	if req.AddOns != nil {
		// Partial updates bypass gin's binding validation on nested fields.
		for _, in := range *req.AddOns {
			if fields := validator.Validate(in); fields != nil {
				return nil, ErrValidation
			}
		}
		p.AddOns = buildAddOns(*req.AddOns)
	}
	if req.Availability != nil {
		av := domain.Availability(*req.Availability)
		if av != domain.Available && av != domain.Booked {
			return nil, ErrValidation
		}
		p.Availability = av
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedBy = adminID

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete deactivates the product; existing rentals keep their snapshots.
func (s *Service) Delete(ctx context.Context, adminID, id int64) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.products.SoftDelete(ctx, id, adminID)
}

func (s *Service) SetAvailability(ctx context.Context, id int64, availability domain.Availability) (*domain.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.products.UpdateAvailability(ctx, id, availability); err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery, includeInactive bool) ([]domain.Product, int64, error) {
	return s.products.List(ctx, repository.ProductFilter{
		Category:        q.Category,
		Availability:    q.Availability,
		Search:          q.Search,
		IncludeInactive: includeInactive,
		Page:            q.Page,
		Limit:           q.Limit,
		SortBy:          q.SortBy,
		SortOrder:       q.SortOrder,
	})
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// buildAddOns assigns a stable id to every add-on that arrives without one,
// so line-item selections can reference them later.
func buildAddOns(inputs []AddOnInput) []domain.AddOn {
	out := make([]domain.AddOn, 0, len(inputs))
	for _, in := range inputs {
		id := in.ID
		if id == "" {
			id = "addon_" + uuid.NewString()
		}
		out = append(out, domain.AddOn{ID: id, Name: in.Name, Price: in.Price})
	}
	return out
}
