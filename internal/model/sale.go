package model

import "github.com/google/uuid"

type SalesHeader struct {
	BaseModel
	Date  string      `gorm:"type:varchar(10);not null" json:"date"`
	Note  *string     `json:"note"`
	Items []SalesItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty" validate:"-"`
}

type SalesItem struct {
	BaseModel
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Quantity    int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Expiry      string    `gorm:"type:varchar(10);not null;default:''" json:"expiry"`
}
