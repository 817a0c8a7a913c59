package repository

import (
	"errors"
	"time"

	"campusmate-backend/internal/transaction/domain"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *domain.Transaction) error
	FindByID(id string) (*domain.Transaction, error)
	FindByUserID(userID string, from, to time.Time, limit, offset int) ([]*domain.Transaction, int64, error)
	Update(tx *domain.Transaction) error
	Delete(id string) error
	SumByType(userID, txType string, from, to time.Time) (float64, error)
}

type gormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) TransactionRepository {
	return &gormTransactionRepository{db: db}
}

func (r *gormTransactionRepository) Create(tx *domain.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *gormTransactionRepository) FindByID(id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.Where("id = ?", id).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *gormTransactionRepository) FindByUserID(userID string, from, to time.Time, limit, offset int) ([]*domain.Transaction, int64, error) {
	query := r.db.Model(&domain.Transaction{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*domain.Transaction
	err := query.Order("date DESC").Limit(limit).Offset(offset).Find(&txs).Error
	return txs, total, err
}

func (r *gormTransactionRepository) Update(tx *domain.Transaction) error {
	return r.db.Save(tx).Error
}

func (r *gormTransactionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Transaction{}).Error
}

func (r *gormTransactionRepository) SumByType(userID, txType string, from, to time.Time) (float64, error) {
	query := r.db.Model(&domain.Transaction{}).
		Where("user_id = ? AND type = ?", userID, txType)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}

	var sum float64
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}
