package service

import (
	"strings"

	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/pkg/database"
	"go-stock-ledger/pkg/validator"

	"gorm.io/gorm"
)

type ProductService interface {
	AddProduct(product *model.Product) error
	UpdateProduct(oldName string, product *model.Product) error
	DeleteProduct(name string) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(name string) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewProductService(productRepo repository.ProductRepository, db *gorm.DB) ProductService {
	return &productService{productRepo: productRepo, db: db}
}

func (s *productService) AddProduct(product *model.Product) error {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return apperr.Validationf("%s", validator.Message(errs))
	}

	exists, err := s.productRepo.Exists(s.db, product.Name)
	if err != nil {
		return apperr.WrapTransport(err)
	}
	if exists {
		return apperr.Validationf("product already exists: %s", product.Name)
	}

	return apperr.WrapTransport(s.productRepo.Create(product))
}

// UpdateProduct overwrites the product's attributes. A rename cascades into
// stock lots and transaction items inside one transaction.
func (s *productService) UpdateProduct(oldName string, product *model.Product) error {
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		return apperr.Validationf("%s", validator.Message(errs))
	}

	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		exists, err := s.productRepo.Exists(tx, oldName)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Referencef("product does not exist: %s", oldName)
		}

		if product.Name != oldName {
			taken, err := s.productRepo.Exists(tx, product.Name)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Validationf("product already exists: %s", product.Name)
			}
		}

		return s.productRepo.Update(tx, oldName, product)
	})
	return apperr.WrapTransport(err)
}

// DeleteProduct refuses to delete a product that is still referenced by stock
// lots or by sale/loan items, naming what blocks it. The reference check and
// the delete run in one transaction so the guard cannot be raced.
func (s *productService) DeleteProduct(name string) error {
	err := database.Transaction(s.db, func(tx *gorm.DB) error {
		stockCount, txnCount, err := s.productRepo.CountReferences(tx, name)
		if err != nil {
			return err
		}

		if stockCount > 0 || txnCount > 0 {
			var reasons []string
			if stockCount > 0 {
				reasons = append(reasons, "stock lots")
			}
			if txnCount > 0 {
				reasons = append(reasons, "transaction records")
			}
			return apperr.Validationf("cannot delete product %q: still referenced by %s", name, strings.Join(reasons, " and "))
		}

		return s.productRepo.Delete(tx, name)
	})
	return apperr.WrapTransport(err)
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProduct(name string) (*model.Product, error) {
	product, err := s.productRepo.FindByName(name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Referencef("product does not exist: %s", name)
		}
		return nil, apperr.WrapTransport(err)
	}
	return product, nil
}
