package repository

import (
	"context"
	"time"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	RentalID      int64     `gorm:"column:rental_id;index"`
	UserID        int64     `gorm:"column:user_id;index"`
	Amount        float64   `gorm:"column:amount"`
	Currency      string    `gorm:"column:currency"`
	PaymentType   string    `gorm:"column:payment_type"`
	Method        string    `gorm:"column:method"`
	Provider      string    `gorm:"column:provider"`
	Status        string    `gorm:"column:status;index"`
	ProviderRef   string    `gorm:"column:provider_ref;index"`
	TransactionID string    `gorm:"column:transaction_id"`
	ErrorReason   string    `gorm:"column:error_reason;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	return &domain.Payment{
		ID:            m.ID,
		RentalID:      m.RentalID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		PaymentType:   domain.PaymentType(m.PaymentType),
		Method:        m.Method,
		Provider:      domain.PaymentProvider(m.Provider),
		Status:        domain.PaymentStatus(m.Status),
		ProviderRef:   m.ProviderRef,
		TransactionID: m.TransactionID,
		ErrorReason:   m.ErrorReason,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	return paymentModel{
		ID:            p.ID,
		RentalID:      p.RentalID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentType:   string(p.PaymentType),
		Method:        p.Method,
		Provider:      string(p.Provider),
		Status:        string(p.Status),
		ProviderRef:   p.ProviderRef,
		TransactionID: p.TransactionID,
		ErrorReason:   p.ErrorReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	m := toPaymentModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainPayment(m), nil
}

// GetByProviderRef looks up a payment by the gateway's own order reference.
// Callbacks must resolve payments this way, never by caller-supplied ids.
func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var m paymentModel
	if err := r.db.WithContext(ctx).Where("provider_ref = ?", ref).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPayment(m))
	}
	return out, nil
}

func (r *PaymentRepository) MarkSucceeded(ctx context.Context, id int64, transactionID string) error {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(domain.PaymentSucceeded),
			"transaction_id": transactionID,
		}).Error
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(domain.PaymentFailed),
			"error_reason": reason,
		}).Error
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ?", id).
		Update("status", string(domain.PaymentRefunded)).Error
}
