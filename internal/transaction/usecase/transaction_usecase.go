package usecase

import (
	"errors"
	"time"

	"campusmate-backend/internal/transaction/domain"
	"campusmate-backend/internal/transaction/repository"

	"github.com/google/uuid"
)

type TransactionUsecase interface {
	CreateTransaction(userID, txType string, amount float64, category, note string, date time.Time) (*domain.Transaction, error)
	GetUserTransactions(userID string, from, to time.Time, limit, offset int) ([]*domain.Transaction, int64, error)
	GetTransactionByID(userID, txID string) (*domain.Transaction, error)
	UpdateTransaction(userID, txID string, updates TransactionUpdateRequest) (*domain.Transaction, error)
	DeleteTransaction(userID, txID string) error
	GetBalanceSummary(userID string, from, to time.Time) (*domain.BalanceSummary, error)
}

type TransactionUpdateRequest struct {
	Type     *string    `json:"type,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Category *string    `json:"category,omitempty"`
	Note     *string    `json:"note,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

type transactionUsecase struct {
	txRepo repository.TransactionRepository
}

func NewTransactionUsecase(txRepo repository.TransactionRepository) TransactionUsecase {
	return &transactionUsecase{txRepo: txRepo}
}

func validType(txType string) bool {
	return txType == domain.TypeIncome || txType == domain.TypeExpense
}

func (u *transactionUsecase) CreateTransaction(userID, txType string, amount float64, category, note string, date time.Time) (*domain.Transaction, error) {
	if !validType(txType) {
		return nil, errors.New("type must be income or expense")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx := &domain.Transaction{
		ID:       uuid.New().String(),
		UserID:   userID,
		Type:     txType,
		Amount:   amount,
		Category: category,
		Note:     note,
		Date:     date,
	}
	if err := u.txRepo.Create(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (u *transactionUsecase) GetUserTransactions(userID string, from, to time.Time, limit, offset int) ([]*domain.Transaction, int64, error) {
	return u.txRepo.FindByUserID(userID, from, to, limit, offset)
}

func (u *transactionUsecase) GetTransactionByID(userID, txID string) (*domain.Transaction, error) {
	tx, err := u.txRepo.FindByID(txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, errors.New("transaction not found")
	}
	if tx.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return tx, nil
}

func (u *transactionUsecase) UpdateTransaction(userID, txID string, updates TransactionUpdateRequest) (*domain.Transaction, error) {
	tx, err := u.GetTransactionByID(userID, txID)
	if err != nil {
		return nil, err
	}

	if updates.Type != nil {
		if !validType(*updates.Type) {
			return nil, errors.New("type must be income or expense")
		}
		tx.Type = *updates.Type
	}
	if updates.Amount != nil {
		if *updates.Amount <= 0 {
			return nil, errors.New("amount must be positive")
		}
		tx.Amount = *updates.Amount
	}
	if updates.Category != nil {
		tx.Category = *updates.Category
	}
	if updates.Note != nil {
		tx.Note = *updates.Note
	}
	if updates.Date != nil {
		tx.Date = *updates.Date
	}

	if err := u.txRepo.Update(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (u *transactionUsecase) DeleteTransaction(userID, txID string) error {
	if _, err := u.GetTransactionByID(userID, txID); err != nil {
		return err
	}
	return u.txRepo.Delete(txID)
}

func (u *transactionUsecase) GetBalanceSummary(userID string, from, to time.Time) (*domain.BalanceSummary, error) {
	income, err := u.txRepo.SumByType(userID, domain.TypeIncome, from, to)
	if err != nil {
		return nil, err
	}
	expense, err := u.txRepo.SumByType(userID, domain.TypeExpense, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceSummary{
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	}, nil
}
