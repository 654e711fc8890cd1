package repository

import (
	"context"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

type quotationModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	UserID            int64     `gorm:"column:user_id;index"`
	Items             string    `gorm:"column:items;type:text"`
	Subtotal          float64   `gorm:"column:subtotal"`
	ServiceFee        float64   `gorm:"column:service_fee"`
	Tax               float64   `gorm:"column:tax"`
	Total             float64   `gorm:"column:total"`
	Status            string    `gorm:"column:status;index"`
	ValidUntil        time.Time `gorm:"column:valid_until"`
	Notes             string    `gorm:"column:notes;type:text"`
	ConvertedRentalID *int64    `gorm:"column:converted_rental_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (quotationModel) TableName() string { return "quotations" }

func toDomainQuotation(m quotationModel) *domain.Quotation {
	q := &domain.Quotation{
		ID:                m.ID,
		UserID:            m.UserID,
		Items:             []domain.LineItem{},
		Subtotal:          m.Subtotal,
		ServiceFee:        m.ServiceFee,
		Tax:               m.Tax,
		Total:             m.Total,
		Status:            domain.QuotationStatus(m.Status),
		ValidUntil:        m.ValidUntil,
		Notes:             m.Notes,
		ConvertedRentalID: m.ConvertedRentalID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	unmarshalJSON(m.Items, &q.Items)
	return q
}

func toQuotationModel(q *domain.Quotation) quotationModel {
	return quotationModel{
		ID:                q.ID,
		UserID:            q.UserID,
		Items:             marshalJSON(q.Items),
		Subtotal:          q.Subtotal,
		ServiceFee:        q.ServiceFee,
		Tax:               q.Tax,
		Total:             q.Total,
		Status:            string(q.Status),
		ValidUntil:        q.ValidUntil,
		Notes:             q.Notes,
		ConvertedRentalID: q.ConvertedRentalID,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

type QuotationFilter struct {
	UserID    int64
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

var quotationSortColumns = map[string]string{
	"created_at":  "created_at",
	"total":       "total",
	"status":      "status",
	"valid_until": "valid_until",
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	m := toQuotationModel(q)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*q = *toDomainQuotation(m)
	return nil
}

func (r *QuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	var m quotationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainQuotation(m), nil
}

func (r *QuotationRepository) List(ctx context.Context, f QuotationFilter) ([]domain.Quotation, int64, error) {
	q := r.db.WithContext(ctx).Model(&quotationModel{})
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

	q = q.Order(orderClause(quotationSortColumns, f.SortBy, f.SortOrder))
	q = paginate(q, f.Page, f.Limit)

	var rows []quotationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Quotation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainQuotation(m))
	}
	return out, total, nil
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus, notes string) error {
	updates := map[string]interface{}{"status": string(status)}
	if notes != "" {
		updates["notes"] = notes
	}
	return r.db.WithContext(ctx).Model(&quotationModel{}).Where("id = ?", id).Updates(updates).Error
}

// MarkConverted stores the rental reference and forces the quotation to
// expired so it cannot be converted twice.
func (r *QuotationRepository) MarkConverted(ctx context.Context, id, rentalID int64) error {
	return r.db.WithContext(ctx).
		Model(&quotationModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              string(domain.QuotationExpired),
			"converted_rental_id": rentalID,
		}).Error
}

func (r *QuotationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&quotationModel{}, id).Error
}

type QuotationStats struct {
	TotalQuotations int64              `json:"total_quotations"`
	TotalValue      float64            `json:"total_value"`
	StatusBreakdown map[string]int64   `json:"status_breakdown"`
	StatusValue     map[string]float64 `json:"status_value"`
}

func (r *QuotationRepository) Stats(ctx context.Context) (*QuotationStats, error) {
	stats := &QuotationStats{
		StatusBreakdown: map[string]int64{},
		StatusValue:     map[string]float64{},
	}
	db := r.db.WithContext(ctx).Model(&quotationModel{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalQuotations).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalValue).Error; err != nil {
		return nil, err
	}

	type row struct {
		Status string
		Count  int64
		Value  float64
	}
	var rows []row
	if err := db.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS value").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, x := range rows {
		stats.StatusBreakdown[x.Status] = x.Count
		stats.StatusValue[x.Status] = x.Value
	}
	return stats, nil
}
