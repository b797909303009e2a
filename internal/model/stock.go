package model

// StockLot is one quantity of a product tied to one expiry date.
// Expiry is "YYYY-MM-DD"; the empty string means non-perishable.
// A persisted lot always has Quantity > 0 — lots driven to zero are deleted.
type StockLot struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_stock_lots_name_expiry" json:"name"`
	Expiry   string `gorm:"type:varchar(10);not null;default:'';uniqueIndex:idx_stock_lots_name_expiry" json:"expiry"`
	Quantity int64  `gorm:"not null" json:"quantity"`
}

// StockChange is one requested mutation of a (name, expiry) lot.
type StockChange struct {
	Name   string `json:"name" validate:"required"`
	Expiry string `json:"expiry_date"`
	Qty    int64  `json:"qty" validate:"required,gt=0"`
}

// StockSummary is the per-product overview row: total on hand plus the
// quantity expiring within the alert period.
type StockSummary struct {
	Name          string  `json:"name"`
	Type          *string `json:"type"`
	TotalQuantity int64   `json:"total_quantity"`
	ExpireSoon    int64   `json:"expire_soon"`
}

// ExpiryBucket is one histogram bar: summed quantity per expiry date.
type ExpiryBucket struct {
	Expiry   string `json:"expiry"`
	Quantity int64  `json:"quantity"`
}
