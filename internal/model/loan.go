package model

import (
	"fmt"

	"github.com/google/uuid"
)

type Direction string

const (
	DirLoanIn    Direction = "loan_in"
	DirLoanOut   Direction = "loan_out"
	DirReturnIn  Direction = "return_in"
	DirReturnOut Direction = "return_out"
)

// Valid reports whether the direction is one of the four known movements.
// The set is closed — no wildcard acceptance.
func (d Direction) Valid() bool {
	switch d {
	case DirLoanIn, DirLoanOut, DirReturnIn, DirReturnOut:
		return true
	}
	return false
}

// Delta converts a positive item quantity into the signed stock delta:
// inbound movements increase stock, outbound movements decrease it.
func (d Direction) Delta(qty int64) (int64, error) {
	switch d {
	case DirLoanIn, DirReturnIn:
		return qty, nil
	case DirLoanOut, DirReturnOut:
		return -qty, nil
	}
	return 0, fmt.Errorf("unknown direction: %s", d)
}

type LoanHeader struct {
	BaseModel
	Date         string     `gorm:"type:varchar(10);not null" json:"date" validate:"required"`
	Direction    Direction  `gorm:"type:varchar(10);not null" json:"direction" validate:"required,oneof=loan_in loan_out return_in return_out"`
	Counterparty string     `gorm:"type:varchar(255)" json:"counterparty"`
	Note         *string    `json:"note"`
	Items        []LoanItem `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"items,omitempty" validate:"-"`
}

type LoanItem struct {
	BaseModel
	LoanID      uuid.UUID `gorm:"type:uuid;not null;index" json:"loan_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Quantity    int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Expiry      string    `gorm:"type:varchar(10);not null;default:''" json:"expiry"`
}

// LoanSummaryRow is the net outstanding quantity per counterparty and product
// (loans out minus returns in, and vice versa).
type LoanSummaryRow struct {
	Counterparty string `json:"counterparty"`
	ProductName  string `json:"product_name"`
	NetQuantity  int64  `json:"net_quantity"`
}

// TransactionDetails bundles a loan header with its items for the detail view.
type TransactionDetails struct {
	Header LoanHeader `json:"header"`
	Items  []LoanItem `json:"items"`
}
