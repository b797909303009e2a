package repository

import (
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanRepository interface {
	InsertHeader(tx *gorm.DB, header *model.LoanHeader) error
	UpdateHeader(tx *gorm.DB, header *model.LoanHeader) error
	InsertItems(tx *gorm.DB, items []model.LoanItem) error
	DeleteItems(tx *gorm.DB, loanID uuid.UUID) error
	DeleteHeader(tx *gorm.DB, loanID uuid.UUID) error
	HeaderExists(tx *gorm.DB, loanID uuid.UUID) (bool, error)
	FindHeader(loanID uuid.UUID) (*model.LoanHeader, error)
	FindAll() ([]model.LoanHeader, error)
	FindItems(loanID uuid.UUID) ([]model.LoanItem, error)
	Summary() ([]model.LoanSummaryRow, error)
}

type loanRepo struct {
	db *gorm.DB
}

func NewLoanRepo(db *gorm.DB) LoanRepository {
	return &loanRepo{db}
}

func (r *loanRepo) InsertHeader(tx *gorm.DB, header *model.LoanHeader) error {
	// Items are inserted separately, after the header row
	return tx.Omit("Items").Create(header).Error
}

func (r *loanRepo) UpdateHeader(tx *gorm.DB, header *model.LoanHeader) error {
	return tx.Model(&model.LoanHeader{}).Where("id = ?", header.ID).
		Updates(map[string]interface{}{
			"date":         header.Date,
			"direction":    header.Direction,
			"counterparty": header.Counterparty,
			"note":         header.Note,
		}).Error
}

func (r *loanRepo) InsertItems(tx *gorm.DB, items []model.LoanItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *loanRepo) DeleteItems(tx *gorm.DB, loanID uuid.UUID) error {
	return tx.Where("loan_id = ?", loanID).Delete(&model.LoanItem{}).Error
}

func (r *loanRepo) DeleteHeader(tx *gorm.DB, loanID uuid.UUID) error {
	return tx.Where("id = ?", loanID).Delete(&model.LoanHeader{}).Error
}

func (r *loanRepo) HeaderExists(tx *gorm.DB, loanID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.LoanHeader{}).Where("id = ?", loanID).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *loanRepo) FindHeader(loanID uuid.UUID) (*model.LoanHeader, error) {
	var header model.LoanHeader
	err := r.db.First(&header, "id = ?", loanID).Error
	return &header, err
}

func (r *loanRepo) FindAll() ([]model.LoanHeader, error) {
	var headers []model.LoanHeader
	err := r.db.Order("date DESC, created_at DESC").Find(&headers).Error
	return headers, err
}

func (r *loanRepo) FindItems(loanID uuid.UUID) ([]model.LoanItem, error) {
	var items []model.LoanItem
	err := r.db.Where("loan_id = ?", loanID).Order("product_name ASC").Find(&items).Error
	return items, err
}

// Summary nets the loan movements per counterparty and product. Outbound
// directions count positive (the counterparty owes us), inbound negative.
func (r *loanRepo) Summary() ([]model.LoanSummaryRow, error) {
	var results []model.LoanSummaryRow
	err := r.db.Raw(`
		SELECT
		  h.counterparty AS counterparty,
		  i.product_name AS product_name,
		  SUM(CASE
		    WHEN h.direction IN ('loan_out', 'return_out') THEN i.quantity
		    ELSE -i.quantity
		  END) AS net_quantity
		FROM loan_items i
		JOIN loan_headers h ON h.id = i.loan_id
		GROUP BY h.counterparty, i.product_name
		HAVING SUM(CASE
		    WHEN h.direction IN ('loan_out', 'return_out') THEN i.quantity
		    ELSE -i.quantity
		  END) <> 0
		ORDER BY h.counterparty ASC, i.product_name ASC
	`).Scan(&results).Error
	return results, err
}
