package service

import (
	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/database"
	"go-stock-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanService interface {
	CreateLoan(header *model.LoanHeader, items []model.LoanItem, adjustStock *bool) error
	UpdateLoan(header *model.LoanHeader, items []model.LoanItem) error
	DeleteLoan(id uuid.UUID) error
	GetLoanHistory() ([]model.LoanHeader, error)
	GetLoanItems(id uuid.UUID) ([]model.LoanItem, error)
	GetTransactionDetails(id uuid.UUID) (*model.TransactionDetails, error)
	GetLoanSummary() ([]model.LoanSummaryRow, error)
}

type loanService struct {
	loanRepo    repository.LoanRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewLoanService(loanRepo repository.LoanRepository, productRepo repository.ProductRepository, stockRepo repository.StockRepository, db *gorm.DB, hub *ws.Hub) LoanService {
	return &loanService{
		loanRepo:    loanRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		db:          db,
		wsHub:       hub,
	}
}

func validateLoanInput(header *model.LoanHeader, items []model.LoanItem) error {
	if len(items) == 0 {
		return apperr.Validationf("at least one line item is required")
	}
	if !header.Direction.Valid() {
		return apperr.Validationf("invalid direction: %s", header.Direction)
	}
	if errs := validator.ValidateStruct(header); len(errs) > 0 {
		return apperr.Validationf("%s", validator.Message(errs))
	}
	for _, it := range items {
		if it.ProductName == "" {
			return apperr.Validationf("product name is required on every line item")
		}
		if it.Quantity <= 0 {
			return apperr.Validationf("quantity must be positive: %s (%d)", it.ProductName, it.Quantity)
		}
	}
	return nil
}

// CreateLoan records a loan header and its items, optionally adjusting stock
// by the direction's signed delta. Everything from the existence checks to
// the stock writes happens inside one transaction.
func (s *loanService) CreateLoan(header *model.LoanHeader, items []model.LoanItem, adjustStock *bool) error {
	if err := validateLoanInput(header, items); err != nil {
		return err
	}

	// Default matches the desktop client: adjust unless explicitly disabled
	adjust := adjustStock == nil || *adjustStock

	if header.ID == uuid.Nil {
		header.ID = uuid.New()
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		for _, it := range items {
			ok, err := s.productRepo.Exists(tx, it.ProductName)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Referencef("product does not exist: %s", it.ProductName)
			}
		}

		if adjust {
			// Pre-check every decreasing lot so the batch aborts before any
			// write. Deltas are summed per (name, expiry) first: several items
			// may drain the same lot, and each must count against it.
			type lotKey struct {
				name   string
				expiry string
			}
			totals := make(map[lotKey]int64)
			for _, it := range items {
				delta, err := header.Direction.Delta(it.Quantity)
				if err != nil {
					return apperr.Validationf("%s", err.Error())
				}
				totals[lotKey{it.ProductName, it.Expiry}] += delta
			}
			for key, delta := range totals {
				if delta >= 0 {
					continue
				}
				current, err := s.stockRepo.Quantity(tx, key.name, key.expiry)
				if err != nil {
					return err
				}
				if current+delta < 0 {
					return &apperr.InsufficientStockError{
						Name:      key.name,
						Expiry:    key.expiry,
						Available: current,
						Requested: -delta,
					}
				}
			}
		}

		if err := s.loanRepo.InsertHeader(tx, header); err != nil {
			return err
		}

		for i := range items {
			items[i].LoanID = header.ID
		}
		if err := s.loanRepo.InsertItems(tx, items); err != nil {
			return err
		}

		if adjust {
			for _, it := range items {
				delta, _ := header.Direction.Delta(it.Quantity)
				if err := s.stockRepo.ApplyDelta(tx, it.ProductName, it.Expiry, delta); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return apperr.WrapTransport(err)
	}

	if adjust {
		go s.wsHub.Publish("loan_recorded", header)
	}
	return nil
}

// UpdateLoan overwrites the header and replaces the item set
// (delete-then-insert) in one transaction. Stock is not re-adjusted: the
// deltas applied at creation are left alone, and callers account for any
// quantity difference with an explicit stock edit.
func (s *loanService) UpdateLoan(header *model.LoanHeader, items []model.LoanItem) error {
	if err := validateLoanInput(header, items); err != nil {
		return err
	}
	if header.ID == uuid.Nil {
		return apperr.Validationf("loan id is required")
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		exists, err := s.loanRepo.HeaderExists(tx, header.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Referencef("loan does not exist: %s", header.ID)
		}

		for _, it := range items {
			ok, err := s.productRepo.Exists(tx, it.ProductName)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Referencef("product does not exist: %s", it.ProductName)
			}
		}

		if err := s.loanRepo.UpdateHeader(tx, header); err != nil {
			return err
		}
		if err := s.loanRepo.DeleteItems(tx, header.ID); err != nil {
			return err
		}
		for i := range items {
			items[i].LoanID = header.ID
		}
		return s.loanRepo.InsertItems(tx, items)
	})
	return apperr.WrapTransport(err)
}

// DeleteLoan removes the items before the header so referential constraints
// hold at every point. Stock adjustments from creation are not reversed.
func (s *loanService) DeleteLoan(id uuid.UUID) error {
	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		exists, err := s.loanRepo.HeaderExists(tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Referencef("loan does not exist: %s", id)
		}
		if err := s.loanRepo.DeleteItems(tx, id); err != nil {
			return err
		}
		return s.loanRepo.DeleteHeader(tx, id)
	})
	return apperr.WrapTransport(err)
}

func (s *loanService) GetLoanHistory() ([]model.LoanHeader, error) {
	return s.loanRepo.FindAll()
}

func (s *loanService) GetLoanItems(id uuid.UUID) ([]model.LoanItem, error) {
	return s.loanRepo.FindItems(id)
}

func (s *loanService) GetTransactionDetails(id uuid.UUID) (*model.TransactionDetails, error) {
	header, err := s.loanRepo.FindHeader(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Referencef("loan does not exist: %s", id)
		}
		return nil, err
	}
	items, err := s.loanRepo.FindItems(id)
	if err != nil {
		return nil, err
	}
	return &model.TransactionDetails{Header: *header, Items: items}, nil
}

func (s *loanService) GetLoanSummary() ([]model.LoanSummaryRow, error) {
	return s.loanRepo.Summary()
}
