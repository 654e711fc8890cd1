package repository

import (
	"context"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type ProductBookingRepository struct {
	db *gorm.DB
}

func NewProductBookingRepository(db *gorm.DB) *ProductBookingRepository {
	return &ProductBookingRepository{db: db}
}

type productBookingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ProductID int64     `gorm:"column:product_id;index"`
	RentalID  int64     `gorm:"column:rental_id;index"`
	StartDate time.Time `gorm:"column:start_date"`
	EndDate   time.Time `gorm:"column:end_date"`
	Quantity  int       `gorm:"column:quantity"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (productBookingModel) TableName() string { return "product_bookings" }

func toDomainProductBooking(m productBookingModel) *domain.ProductBooking {
	return &domain.ProductBooking{
		ID:        m.ID,
		ProductID: m.ProductID,
		RentalID:  m.RentalID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Quantity:  m.Quantity,
		Status:    domain.BookingStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *ProductBookingRepository) Create(ctx context.Context, b *domain.ProductBooking) error {
	m := productBookingModel{
		ProductID: b.ProductID,
		RentalID:  b.RentalID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Quantity:  b.Quantity,
		Status:    string(b.Status),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainProductBooking(m)
	return nil
}

func (r *ProductBookingRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.ProductBooking, error) {
	var rows []productBookingModel
	if err := r.db.WithContext(ctx).Where("rental_id = ?", rentalID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ProductBooking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProductBooking(m))
	}
	return out, nil
}

func (r *ProductBookingRepository) UpdateStatusByRental(ctx context.Context, rentalID int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&productBookingModel{}).
		Where("rental_id = ?", rentalID).
		Update("status", string(status)).Error
}
