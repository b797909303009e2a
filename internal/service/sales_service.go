package service

import (
	"time"

	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesService interface {
	AddSale(changes []model.StockChange, note *string) error
	UpdateSale(header *model.SalesHeader, items []model.SalesItem) error
	DeleteSale(id uuid.UUID) error
	GetSalesHistory() ([]model.SalesHeader, error)
	GetSalesItems(id uuid.UUID) ([]model.SalesItem, error)
}

type salesService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewSalesService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, db *gorm.DB) SalesService {
	return &salesService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// AddSale records a sales header plus one item per change. Pure bookkeeping:
// the stock decreases were already applied by the caller.
func (s *salesService) AddSale(changes []model.StockChange, note *string) error {
	if len(changes) == 0 {
		return apperr.Validationf("at least one sale item is required")
	}
	for _, ch := range changes {
		if ch.Qty <= 0 {
			return apperr.Validationf("quantity must be positive: %s (%d)", ch.Name, ch.Qty)
		}
	}

	header := &model.SalesHeader{
		Date: time.Now().Format("2006-01-02"),
		Note: note,
	}
	header.ID = uuid.New()

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		if err := s.saleRepo.InsertHeader(tx, header); err != nil {
			return err
		}
		items := make([]model.SalesItem, 0, len(changes))
		for _, ch := range changes {
			items = append(items, model.SalesItem{
				SaleID:      header.ID,
				ProductName: ch.Name,
				Quantity:    ch.Qty,
				Expiry:      ch.Expiry,
			})
		}
		return s.saleRepo.InsertItems(tx, items)
	})
	return apperr.WrapTransport(err)
}

// UpdateSale overwrites the header and replaces the item set
// (delete-then-insert) in one transaction. Stock is untouched.
func (s *salesService) UpdateSale(header *model.SalesHeader, items []model.SalesItem) error {
	if header.ID == uuid.Nil {
		return apperr.Validationf("sale id is required")
	}
	if len(items) == 0 {
		return apperr.Validationf("at least one sale item is required")
	}
	for _, it := range items {
		if it.ProductName == "" {
			return apperr.Validationf("product name is required on every sale item")
		}
		if it.Quantity <= 0 {
			return apperr.Validationf("quantity must be positive: %s (%d)", it.ProductName, it.Quantity)
		}
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		exists, err := s.saleRepo.HeaderExists(tx, header.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Referencef("sale does not exist: %s", header.ID)
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

		if err := s.saleRepo.UpdateHeader(tx, header); err != nil {
			return err
		}
		if err := s.saleRepo.DeleteItems(tx, header.ID); err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = header.ID
		}
		return s.saleRepo.InsertItems(tx, items)
	})
	return apperr.WrapTransport(err)
}

// DeleteSale removes items before the header so referential constraints hold.
func (s *salesService) DeleteSale(id uuid.UUID) error {
	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		exists, err := s.saleRepo.HeaderExists(tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Referencef("sale does not exist: %s", id)
		}
		if err := s.saleRepo.DeleteItems(tx, id); err != nil {
			return err
		}
		return s.saleRepo.DeleteHeader(tx, id)
	})
	return apperr.WrapTransport(err)
}

func (s *salesService) GetSalesHistory() ([]model.SalesHeader, error) {
	return s.saleRepo.FindAll()
}

func (s *salesService) GetSalesItems(id uuid.UUID) ([]model.SalesItem, error) {
	return s.saleRepo.FindItems(id)
}
