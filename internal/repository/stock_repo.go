package repository

import (
	"time"

	"go-stock-ledger/internal/model"

	"gorm.io/gorm"
)

type StockRepository interface {
	Quantity(tx *gorm.DB, name, expiry string) (int64, error)
	ApplyDelta(tx *gorm.DB, name, expiry string, delta int64) error
	SetQuantity(tx *gorm.DB, name, expiry string, qty int64) error
	DeleteLot(tx *gorm.DB, name, expiry string) error
	FindLots(name string) ([]model.StockLot, error)
	InStockProducts() ([]string, error)
	Overview(alertDays int) ([]model.StockSummary, error)
	Histogram(name string) ([]model.ExpiryBucket, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// Quantity returns the current quantity of the (name, expiry) lot, 0 if the
// lot does not exist.
func (r *stockRepo) Quantity(tx *gorm.DB, name, expiry string) (int64, error) {
	var lot model.StockLot
	err := tx.Where("name = ? AND expiry = ?", name, expiry).First(&lot).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return lot.Quantity, nil
}

// ApplyDelta adds delta to the (name, expiry) lot: UPDATE first, INSERT when
// no row was touched. A lot driven to zero or below is deleted rather than
// kept as a zero row. Callers pre-check availability for negative deltas.
func (r *stockRepo) ApplyDelta(tx *gorm.DB, name, expiry string, delta int64) error {
	res := tx.Model(&model.StockLot{}).
		Where("name = ? AND expiry = ?", name, expiry).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if delta <= 0 {
			// decrementing an absent lot; availability checks should have
			// caught this before any write
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&model.StockLot{Name: name, Expiry: expiry, Quantity: delta}).Error
	}

	return tx.Where("name = ? AND expiry = ? AND quantity <= 0", name, expiry).
		Delete(&model.StockLot{}).Error
}

// SetQuantity upserts the lot to an exact value (not a delta). qty must be > 0;
// use DeleteLot for zero.
func (r *stockRepo) SetQuantity(tx *gorm.DB, name, expiry string, qty int64) error {
	res := tx.Model(&model.StockLot{}).
		Where("name = ? AND expiry = ?", name, expiry).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&model.StockLot{Name: name, Expiry: expiry, Quantity: qty}).Error
	}
	return nil
}

func (r *stockRepo) DeleteLot(tx *gorm.DB, name, expiry string) error {
	return tx.Where("name = ? AND expiry = ?", name, expiry).Delete(&model.StockLot{}).Error
}

func (r *stockRepo) FindLots(name string) ([]model.StockLot, error) {
	var lots []model.StockLot
	err := r.db.Where("name = ?", name).Order("expiry ASC").Find(&lots).Error
	return lots, err
}

// InStockProducts lists the distinct product names that currently have stock.
func (r *stockRepo) InStockProducts() ([]string, error) {
	var names []string
	err := r.db.Model(&model.StockLot{}).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

// Overview aggregates total quantity per product plus the share expiring
// within alertDays. Expiry dates are YYYY-MM-DD strings, so the window
// comparison is plain string ordering.
func (r *stockRepo) Overview(alertDays int) ([]model.StockSummary, error) {
	today := time.Now().Format("2006-01-02")
	cutoff := time.Now().AddDate(0, 0, alertDays).Format("2006-01-02")

	var results []model.StockSummary
	err := r.db.Raw(`
		SELECT
		  p.name AS name,
		  p.type AS type,
		  SUM(s.quantity) AS total_quantity,
		  SUM(CASE
		    WHEN s.expiry <> '' AND s.expiry >= ? AND s.expiry < ?
		    THEN s.quantity ELSE 0
		  END) AS expire_soon
		FROM stock_lots s
		JOIN products p ON p.name = s.name
		GROUP BY p.name, p.type
		HAVING SUM(s.quantity) > 0
		ORDER BY p.name ASC
	`, today, cutoff).Scan(&results).Error
	return results, err
}

// Histogram sums quantity per expiry date for one product.
func (r *stockRepo) Histogram(name string) ([]model.ExpiryBucket, error) {
	var results []model.ExpiryBucket
	err := r.db.Model(&model.StockLot{}).
		Select("expiry, SUM(quantity) AS quantity").
		Where("name = ?", name).
		Group("expiry").
		Order("expiry ASC").
		Scan(&results).Error
	return results, err
}
