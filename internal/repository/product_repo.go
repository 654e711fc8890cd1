package repository

import (
	"context"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Category     string    `gorm:"column:category;index"`
	Description  string    `gorm:"column:description;type:text"`
	Image        string    `gorm:"column:image"`
	PricePerHour float64   `gorm:"column:price_per_hour"`
	PricePerDay  float64   `gorm:"column:price_per_day"`
	PricePerWeek float64   `gorm:"column:price_per_week"`
	Features     string    `gorm:"column:features;type:text"`
	AddOns       string    `gorm:"column:add_ons;type:text"`
	Availability string    `gorm:"column:availability;index"`
	IsActive     bool      `gorm:"column:is_active;index"`
	CreatedBy    int64     `gorm:"column:created_by"`
	UpdatedBy    int64     `gorm:"column:updated_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func toDomainProduct(m productModel) *domain.Product {
	p := &domain.Product{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Description:  m.Description,
		Image:        m.Image,
		PricePerHour: m.PricePerHour,
		PricePerDay:  m.PricePerDay,
		PricePerWeek: m.PricePerWeek,
		Features:     []string{},
		AddOns:       []domain.AddOn{},
		Availability: domain.Availability(m.Availability),
		IsActive:     m.IsActive,
		CreatedBy:    m.CreatedBy,
		UpdatedBy:    m.UpdatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	unmarshalJSON(m.Features, &p.Features)
	unmarshalJSON(m.AddOns, &p.AddOns)
	return p
}

func toProductModel(p *domain.Product) productModel {
	return productModel{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Image:        p.Image,
		PricePerHour: p.PricePerHour,
		PricePerDay:  p.PricePerDay,
		PricePerWeek: p.PricePerWeek,
		Features:     marshalJSON(p.Features),
		AddOns:       marshalJSON(p.AddOns),
		Availability: string(p.Availability),
		IsActive:     p.IsActive,
		CreatedBy:    p.CreatedBy,
		UpdatedBy:    p.UpdatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProductFilter narrows List results. Zero values mean "no filter".
type ProductFilter struct {
	Category        string
	Availability    string
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
	SortBy          string
	SortOrder       string
}

var productSortColumns = map[string]string{
	"created_at":     "created_at",
	"name":           "name",
	"price_per_day":  "price_per_day",
	"price_per_week": "price_per_week",
	"price_per_hour": "price_per_hour",
	"category":       "category",
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	m := toProductModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProduct(m)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainProduct(m), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	m := toProductModel(p)
	if err := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":           m.Name,
		"category":       m.Category,
		"description":    m.Description,
		"image":          m.Image,
		"price_per_hour": m.PricePerHour,
		"price_per_day":  m.PricePerDay,
		"price_per_week": m.PricePerWeek,
		"features":       m.Features,
		"add_ons":        m.AddOns,
		"availability":   m.Availability,
		"is_active":      m.IsActive,
		"updated_by":     m.UpdatedBy,
	}).Error; err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *ProductRepository) UpdateAvailability(ctx context.Context, id int64, availability domain.Availability) error {
	return r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("id = ?", id).
		Update("availability", string(availability)).Error
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id, updatedBy int64) error {
	return r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_by": updatedBy}).Error
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&productModel{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category LIKE ?", "%"+f.Category+"%")
	}
	if f.Availability != "" {
		q = q.Where("availability = ?", f.Availability)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(orderClause(productSortColumns, f.SortBy, f.SortOrder))
	q = paginate(q, f.Page, f.Limit)

	var rows []productModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Product, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProduct(m))
	}
	return out, total, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}
