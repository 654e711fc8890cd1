package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted model.
// Called from the seeder and from test setup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&productModel{},
		&rentalModel{},
		&productBookingModel{},
		&quotationModel{},
		&paymentModel{},
		&invoiceModel{},
		&invoiceCounterModel{},
	)
}
