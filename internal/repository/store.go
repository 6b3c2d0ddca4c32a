package repository

import "gorm.io/gorm"

// Store bundles every repository of one backend with its transaction manager.
type Store struct {
	Sales       SaleRepository
	Commissions CommissionRepository
	Marketing   MarketingRepository
	Users       UserRepository
	Audit       AuditRepository
	Tx          TransactionManager
}

// NewGormStore returns the persistent backend.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Sales:       NewSaleRepository(db),
		Commissions: NewCommissionRepository(db),
		Marketing:   NewMarketingRepository(db),
		Users:       NewUserRepository(db),
		Audit:       NewAuditRepository(db),
		Tx:          NewTransactionManager(db),
	}
}
