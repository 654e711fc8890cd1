package repository

import (
	"context"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type RentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

type rentalModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	UserID           int64      `gorm:"column:user_id;index"`
	Items            string     `gorm:"column:items;type:text"`
	Subtotal         float64    `gorm:"column:subtotal"`
	ServiceFee       float64    `gorm:"column:service_fee"`
	Tax              float64    `gorm:"column:tax"`
	Total            float64    `gorm:"column:total"`
	DepositAmount    float64    `gorm:"column:deposit_amount"`
	BalanceDue       float64    `gorm:"column:balance_due"`
	PaymentMode      string     `gorm:"column:payment_mode"`
	Status           string     `gorm:"column:status;index"`
	PaymentStatus    string     `gorm:"column:payment_status;index"`
	Delivery         string     `gorm:"column:delivery;type:text"`
	CustomerSnapshot string     `gorm:"column:customer_snapshot;type:text"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	CancelledAt      *time.Time `gorm:"column:cancelled_at"`
}

func (rentalModel) TableName() string { return "rentals" }

func toDomainRental(m rentalModel) *domain.Rental {
	r := &domain.Rental{
		ID:            m.ID,
		UserID:        m.UserID,
		Items:         []domain.LineItem{},
		Subtotal:      m.Subtotal,
		ServiceFee:    m.ServiceFee,
		Tax:           m.Tax,
		Total:         m.Total,
		DepositAmount: m.DepositAmount,
		BalanceDue:    m.BalanceDue,
		PaymentMode:   domain.PaymentMode(m.PaymentMode),
		Status:        domain.RentalStatus(m.Status),
		PaymentStatus: domain.RentalPaymentStatus(m.PaymentStatus),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}
	unmarshalJSON(m.Items, &r.Items)
	unmarshalJSON(m.Delivery, &r.Delivery)
	unmarshalJSON(m.CustomerSnapshot, &r.CustomerSnapshot)
	return r
}

func toRentalModel(r *domain.Rental) rentalModel {
	return rentalModel{
		ID:               r.ID,
		UserID:           r.UserID,
		Items:            marshalJSON(r.Items),
		Subtotal:         r.Subtotal,
		ServiceFee:       r.ServiceFee,
		Tax:              r.Tax,
		Total:            r.Total,
		DepositAmount:    r.DepositAmount,
		BalanceDue:       r.BalanceDue,
		PaymentMode:      string(r.PaymentMode),
		Status:           string(r.Status),
		PaymentStatus:    string(r.PaymentStatus),
		Delivery:         marshalJSON(r.Delivery),
		CustomerSnapshot: marshalJSON(r.CustomerSnapshot),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CancelledAt:      r.CancelledAt,
	}
}

type RentalFilter struct {
	UserID    int64
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

var rentalSortColumns = map[string]string{
	"created_at": "created_at",
	"total":      "total",
	"status":     "status",
}

func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	m := toRentalModel(rental)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rental = *toDomainRental(m)
	return nil
}

func (r *RentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	var m rentalModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRental(m), nil
}

func (r *RentalRepository) List(ctx context.Context, f RentalFilter) ([]domain.Rental, int64, error) {
	q := r.db.WithContext(ctx).Model(&rentalModel{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(orderClause(rentalSortColumns, f.SortBy, f.SortOrder))
	q = paginate(q, f.Page, f.Limit)

	var rows []rentalModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Rental, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRental(m))
	}
	return out, total, nil
}

func (r *RentalRepository) UpdateStatus(ctx context.Context, id int64, status domain.RentalStatus, cancelledAt *time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}
	return r.db.WithContext(ctx).Model(&rentalModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *RentalRepository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.RentalPaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&rentalModel{}).
		Where("id = ?", id).
		Update("payment_status", string(status)).Error
}

// RentalStats is the admin dashboard aggregate.
type RentalStats struct {
	TotalRentals    int64            `json:"total_rentals"`
	TotalRevenue    float64          `json:"total_revenue"`
	ActiveRentals   int64            `json:"active_rentals"`
	MonthlyRevenue  float64          `json:"monthly_revenue"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
}

func (r *RentalRepository) Stats(ctx context.Context) (*RentalStats, error) {
	stats := &RentalStats{StatusBreakdown: map[string]int64{}}
	db := r.db.WithContext(ctx).Model(&rentalModel{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalRentals).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("status IN ?", []string{string(domain.RentalUpcoming), string(domain.RentalActive)}).
		Count(&stats.ActiveRentals).Error; err != nil {
		return nil, err
	}
	monthAgo := time.Now().AddDate(0, 0, -30)
	if err := db.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").
		Where("created_at >= ?", monthAgo).
		Scan(&stats.MonthlyRevenue).Error; err != nil {
		return nil, err
	}

	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := db.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, x := range rows {
		stats.StatusBreakdown[x.Status] = x.Count
	}
	return stats, nil
}
