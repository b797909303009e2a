package service

import (
	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/database"
	"go-stock-ledger/pkg/validator"

	"gorm.io/gorm"
)

type StockService interface {
	AddStock(changes []model.StockChange) error
	RemoveStock(changes []model.StockChange, markAsSale bool) error
	EditStock(name, expiry string, qty int64) error
	GetStockLots(name string) ([]model.StockLot, error)
	GetInStockProducts() ([]string, error)
	GetStockOverview() ([]model.StockSummary, error)
	GetStockHistogram(name string) ([]model.ExpiryBucket, error)
}

type stockService struct {
	stockRepo repository.StockRepository
	sales     SalesService
	db        *gorm.DB
	wsHub     *ws.Hub
	alertDays int
}

func NewStockService(stockRepo repository.StockRepository, sales SalesService, db *gorm.DB, hub *ws.Hub, alertDays int) StockService {
	return &stockService{
		stockRepo: stockRepo,
		sales:     sales,
		db:        db,
		wsHub:     hub,
		alertDays: alertDays,
	}
}

func validateChanges(changes []model.StockChange) error {
	if len(changes) == 0 {
		return apperr.Validationf("at least one stock change is required")
	}
	for _, ch := range changes {
		if errs := validator.ValidateStruct(&ch); len(errs) > 0 {
			return apperr.Validationf("%s", validator.Message(errs))
		}
		if ch.Qty <= 0 {
			return apperr.Validationf("quantity must be positive: %s (%d)", ch.Name, ch.Qty)
		}
	}
	return nil
}

// AddStock upserts every change onto its (name, expiry) lot. The whole batch
// runs in one transaction, so a mid-batch failure leaves no partial effect.
func (s *stockService) AddStock(changes []model.StockChange) error {
	if err := validateChanges(changes); err != nil {
		return err
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		for _, ch := range changes {
			if err := s.stockRepo.ApplyDelta(tx, ch.Name, ch.Expiry, ch.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.WrapTransport(err)
	}

	go s.wsHub.Publish("stock_added", changes)
	return nil
}

// RemoveStock decrements every change's lot after checking availability.
// Lots driven to zero are deleted. When markAsSale is set, the removals are
// recorded as a Sale once the stock transaction has committed.
func (s *stockService) RemoveStock(changes []model.StockChange, markAsSale bool) error {
	if err := validateChanges(changes); err != nil {
		return err
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		for _, ch := range changes {
			current, err := s.stockRepo.Quantity(tx, ch.Name, ch.Expiry)
			if err != nil {
				return err
			}
			if current < ch.Qty {
				return &apperr.InsufficientStockError{
					Name:      ch.Name,
					Expiry:    ch.Expiry,
					Available: current,
					Requested: ch.Qty,
				}
			}
			if err := s.stockRepo.ApplyDelta(tx, ch.Name, ch.Expiry, -ch.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.WrapTransport(err)
	}

	if markAsSale {
		// Bookkeeping only; the stock side is already committed above
		if err := s.sales.AddSale(changes, nil); err != nil {
			return err
		}
	}

	go s.wsHub.Publish("stock_removed", changes)
	return nil
}

// EditStock sets a lot to an exact quantity. Zero deletes the lot instead of
// leaving a zero row.
func (s *stockService) EditStock(name, expiry string, qty int64) error {
	if name == "" {
		return apperr.Validationf("product name is required")
	}
	if qty < 0 {
		return apperr.Validationf("quantity must not be negative: %s (%d)", name, qty)
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		if qty == 0 {
			return s.stockRepo.DeleteLot(tx, name, expiry)
		}
		return s.stockRepo.SetQuantity(tx, name, expiry, qty)
	})
	if err != nil {
		return apperr.WrapTransport(err)
	}

	go s.wsHub.Publish("stock_edited", model.StockChange{Name: name, Expiry: expiry, Qty: qty})
	return nil
}

func (s *stockService) GetStockLots(name string) ([]model.StockLot, error) {
	return s.stockRepo.FindLots(name)
}

func (s *stockService) GetInStockProducts() ([]string, error) {
	return s.stockRepo.InStockProducts()
}

func (s *stockService) GetStockOverview() ([]model.StockSummary, error) {
	return s.stockRepo.Overview(s.alertDays)
}

func (s *stockService) GetStockHistogram(name string) ([]model.ExpiryBucket, error) {
	return s.stockRepo.Histogram(name)
}
