package repository

import (
	"go-stock-ledger/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByName(name string) (*model.Product, error)
	Exists(tx *gorm.DB, name string) (bool, error)
	Update(tx *gorm.DB, oldName string, product *model.Product) error
	CountReferences(tx *gorm.DB, name string) (stock int64, txn int64, err error)
	Delete(tx *gorm.DB, name string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	// Pictures are fetched one product at a time, not in the listing
	err := r.db.Select("name", "price", "type", "created_at", "updated_at").
		Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "name = ?", name).Error
	return &product, err
}

// Exists runs the SELECT 1 ... LIMIT 1 pattern inside the caller's
// transaction, to produce a clear domain error before a foreign key would.
func (r *productRepo) Exists(tx *gorm.DB, name string) (bool, error) {
	var count int64
	err := tx.Model(&model.Product{}).Where("name = ?", name).Limit(1).Count(&count).Error
	return count > 0, err
}

// Update overwrites the product's attributes; a rename cascades the new name
// into stock lots and transaction items, all inside the given transaction.
func (r *productRepo) Update(tx *gorm.DB, oldName string, product *model.Product) error {
	if err := tx.Model(&model.Product{}).Where("name = ?", oldName).
		Updates(map[string]interface{}{
			"name":    product.Name,
			"price":   product.Price,
			"picture": product.Picture,
			"type":    product.Type,
		}).Error; err != nil {
		return err
	}

	if product.Name != oldName {
		if err := tx.Model(&model.StockLot{}).Where("name = ?", oldName).
			Update("name", product.Name).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.LoanItem{}).Where("product_name = ?", oldName).
			Update("product_name", product.Name).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.SalesItem{}).Where("product_name = ?", oldName).
			Update("product_name", product.Name).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountReferences counts the stock lots and transaction items (loan + sale)
// that still reference the product name, inside the caller's transaction so
// the counts stay valid for a delete in the same transaction.
func (r *productRepo) CountReferences(tx *gorm.DB, name string) (int64, int64, error) {
	var stockCount int64
	if err := tx.Model(&model.StockLot{}).Where("name = ?", name).Count(&stockCount).Error; err != nil {
		return 0, 0, err
	}

	var loanCount int64
	if err := tx.Model(&model.LoanItem{}).Where("product_name = ?", name).Count(&loanCount).Error; err != nil {
		return 0, 0, err
	}

	var saleCount int64
	if err := tx.Model(&model.SalesItem{}).Where("product_name = ?", name).Count(&saleCount).Error; err != nil {
		return 0, 0, err
	}

	return stockCount, loanCount + saleCount, nil
}

func (r *productRepo) Delete(tx *gorm.DB, name string) error {
	return tx.Where("name = ?", name).Delete(&model.Product{}).Error
}
