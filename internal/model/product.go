package model

import "time"

// Product is keyed by its unique name. Renames cascade into stock lots and
// transaction items; deletion is blocked while any of them still reference it.
type Product struct {
	Name      string    `gorm:"type:varchar(255);primaryKey" json:"name" validate:"required"`
	Price     *int64    `gorm:"default:null" json:"price"`
	Picture   []byte    `gorm:"type:bytea" json:"picture,omitempty"` // JSON marshals as base64
	Type      string    `gorm:"type:varchar(100)" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
