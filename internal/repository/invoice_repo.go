package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

type invoiceModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	InvoiceNumber   string     `gorm:"column:invoice_number;uniqueIndex"`
	RentalID        int64      `gorm:"column:rental_id;uniqueIndex"`
	CustomerID      int64      `gorm:"column:customer_id;index"`
	CustomerDetails string     `gorm:"column:customer_details;type:text"`
	Items           string     `gorm:"column:items;type:text"`
	Pricing         string     `gorm:"column:pricing;type:text"`
	PaymentDetails  string     `gorm:"column:payment_details;type:text"`
	Status          string     `gorm:"column:status;index"`
	DueDate         time.Time  `gorm:"column:due_date"`
	Notes           string     `gorm:"column:notes;type:text"`
	Terms           string     `gorm:"column:terms;type:text"`
	IssuedAt        time.Time  `gorm:"column:issued_at"`
	PaidAt          *time.Time `gorm:"column:paid_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (invoiceModel) TableName() string { return "invoices" }

// invoiceCounterModel backs the invoice-number sequence. A single named row
// is incremented atomically so concurrent generations never share a number.
type invoiceCounterModel struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name;uniqueIndex"`
	Value int64  `gorm:"column:value"`
}

func (invoiceCounterModel) TableName() string { return "invoice_counters" }

const invoiceCounterName = "invoice_number"

func toDomainInvoice(m invoiceModel) *domain.Invoice {
	inv := &domain.Invoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		RentalID:      m.RentalID,
		CustomerID:    m.CustomerID,
		Items:         []domain.LineItem{},
		Status:        domain.InvoiceStatus(m.Status),
		DueDate:       m.DueDate,
		Notes:         m.Notes,
		Terms:         m.Terms,
		IssuedAt:      m.IssuedAt,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	unmarshalJSON(m.CustomerDetails, &inv.CustomerDetails)
	unmarshalJSON(m.Items, &inv.Items)
	unmarshalJSON(m.Pricing, &inv.Pricing)
	unmarshalJSON(m.PaymentDetails, &inv.PaymentDetails)
	return inv
}

func toInvoiceModel(inv *domain.Invoice) invoiceModel {
	return invoiceModel{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		RentalID:        inv.RentalID,
		CustomerID:      inv.CustomerID,
		CustomerDetails: marshalJSON(inv.CustomerDetails),
		Items:           marshalJSON(inv.Items),
		Pricing:         marshalJSON(inv.Pricing),
		PaymentDetails:  marshalJSON(inv.PaymentDetails),
		Status:          string(inv.Status),
		DueDate:         inv.DueDate,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		IssuedAt:        inv.IssuedAt,
		PaidAt:          inv.PaidAt,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

type InvoiceFilter struct {
	CustomerID int64
	Status     string
	Page       int
	Limit      int
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	m := toInvoiceModel(inv)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*inv = *toDomainInvoice(m)
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var m invoiceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainInvoice(m), nil
}

func (r *InvoiceRepository) GetByRentalID(ctx context.Context, rentalID int64) (*domain.Invoice, error) {
	var m invoiceModel
	if err := r.db.WithContext(ctx).Where("rental_id = ?", rentalID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainInvoice(m), nil
}

func (r *InvoiceRepository) ExistsForRental(ctx context.Context, rentalID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invoiceModel{}).
		Where("rental_id = ?", rentalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvoiceRepository) List(ctx context.Context, f InvoiceFilter) ([]domain.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&invoiceModel{})
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	q = paginate(q, f.Page, f.Limit)

	var rows []invoiceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Invoice, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainInvoice(m))
	}
	return out, total, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return r.db.WithContext(ctx).Model(&invoiceModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int64, details domain.InvoicePaymentDetails, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&invoiceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          string(domain.InvoicePaid),
			"payment_details": marshalJSON(details),
			"paid_at":         paidAt,
		}).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&invoiceModel{}, id).Error
}

// NextInvoiceNumber allocates the next number from the sequence row, zero
// padded to six digits. The bare UPDATE keeps the increment atomic on both
// postgres and sqlite.
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var number string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&invoiceCounterModel{}).
			Where("name = ?", invoiceCounterName).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			cnt := invoiceCounterModel{Name: invoiceCounterName, Value: 1}
			if err := tx.Create(&cnt).Error; err != nil {
				return err
			}
			number = fmt.Sprintf("INV-%06d", cnt.Value)
			return nil
		}

		var cnt invoiceCounterModel
		if err := tx.Where("name = ?", invoiceCounterName).First(&cnt).Error; err != nil {
			return err
		}
		number = fmt.Sprintf("INV-%06d", cnt.Value)
		return nil
	})
	if err != nil {
		return "", err
	}
	if number == "" {
		return "", errors.New("invoice counter not allocated")
	}
	return number, nil
}
