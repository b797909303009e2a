package repository

import (
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	InsertHeader(tx *gorm.DB, header *model.SalesHeader) error
	UpdateHeader(tx *gorm.DB, header *model.SalesHeader) error
	InsertItems(tx *gorm.DB, items []model.SalesItem) error
	DeleteItems(tx *gorm.DB, saleID uuid.UUID) error
	DeleteHeader(tx *gorm.DB, saleID uuid.UUID) error
	HeaderExists(tx *gorm.DB, saleID uuid.UUID) (bool, error)
	FindAll() ([]model.SalesHeader, error)
	FindItems(saleID uuid.UUID) ([]model.SalesItem, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) InsertHeader(tx *gorm.DB, header *model.SalesHeader) error {
	return tx.Omit("Items").Create(header).Error
}

func (r *saleRepo) UpdateHeader(tx *gorm.DB, header *model.SalesHeader) error {
	return tx.Model(&model.SalesHeader{}).Where("id = ?", header.ID).
		Updates(map[string]interface{}{
			"date": header.Date,
			"note": header.Note,
		}).Error
}

func (r *saleRepo) InsertItems(tx *gorm.DB, items []model.SalesItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *saleRepo) DeleteItems(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.SalesItem{}).Error
}

func (r *saleRepo) DeleteHeader(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("id = ?", saleID).Delete(&model.SalesHeader{}).Error
}

func (r *saleRepo) HeaderExists(tx *gorm.DB, saleID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.SalesHeader{}).Where("id = ?", saleID).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *saleRepo) FindAll() ([]model.SalesHeader, error) {
	var headers []model.SalesHeader
	err := r.db.Order("date DESC, created_at DESC").Find(&headers).Error
	return headers, err
}

func (r *saleRepo) FindItems(saleID uuid.UUID) ([]model.SalesItem, error) {
	var items []model.SalesItem
	err := r.db.Where("sale_id = ?", saleID).Order("product_name ASC").Find(&items).Error
	return items, err
}
