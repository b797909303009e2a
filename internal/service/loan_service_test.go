package service

import (
	"testing"

	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func loanHeader(direction model.Direction) *model.LoanHeader {
	return &model.LoanHeader{
		Date:         "2024-05-01",
		Direction:    direction,
		Counterparty: "Corner Cafe",
	}
}

func TestCreateLoanInAdjustsStockOnEmptyTable(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	items := []model.LoanItem{{ProductName: "Milk", Quantity: 3, Expiry: "2024-06-01"}}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanIn), items, nil)
	assert.NoError(t, err)

	assert.Equal(t, int64(1), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(1), env.count(&model.LoanItem{}))

	qty, ok := env.lotQuantity("Milk", "2024-06-01")
	assert.True(t, ok)
	assert.Equal(t, int64(3), qty)
}

func TestCreateLoanOutInsufficientStockWritesNothing(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedLot("Milk", "2024-06-01", 2)

	items := []model.LoanItem{{ProductName: "Milk", Quantity: 5, Expiry: "2024-06-01"}}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanOut), items, nil)

	var ise *apperr.InsufficientStockError
	assert.ErrorAs(t, err, &ise)
	assert.Equal(t, "Milk", ise.Name)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)

	// Zero writes: header absent, items absent, stock unchanged
	assert.Equal(t, int64(0), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(0), env.count(&model.LoanItem{}))
	qty, _ := env.lotQuantity("Milk", "2024-06-01")
	assert.Equal(t, int64(2), qty)
}

func TestCreateLoanOutItemsSumAgainstOneLot(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedLot("Milk", "2024-06-01", 10)

	// Each item alone fits within the lot, but together they overdraw it
	items := []model.LoanItem{
		{ProductName: "Milk", Quantity: 6, Expiry: "2024-06-01"},
		{ProductName: "Milk", Quantity: 6, Expiry: "2024-06-01"},
	}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanOut), items, nil)

	var ise *apperr.InsufficientStockError
	assert.ErrorAs(t, err, &ise)
	assert.Equal(t, "Milk", ise.Name)
	assert.Equal(t, int64(10), ise.Available)
	assert.Equal(t, int64(12), ise.Requested)

	assert.Equal(t, int64(0), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(0), env.count(&model.LoanItem{}))
	qty, ok := env.lotQuantity("Milk", "2024-06-01")
	assert.True(t, ok)
	assert.Equal(t, int64(10), qty)
}

func TestCreateLoanOutItemsDrainingOneLotExactly(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedLot("Milk", "2024-06-01", 10)

	items := []model.LoanItem{
		{ProductName: "Milk", Quantity: 6, Expiry: "2024-06-01"},
		{ProductName: "Milk", Quantity: 4, Expiry: "2024-06-01"},
	}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanOut), items, nil)
	assert.NoError(t, err)

	assert.Equal(t, int64(1), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(2), env.count(&model.LoanItem{}))
	_, ok := env.lotQuantity("Milk", "2024-06-01")
	assert.False(t, ok)
}

func TestCreateLoanUnknownProductWritesNothing(t *testing.T) {
	env := setupTestEnv()

	items := []model.LoanItem{{ProductName: "Ghost", Quantity: 1, Expiry: ""}}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanIn), items, nil)

	var re *apperr.ReferenceError
	assert.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "Ghost")
	assert.Equal(t, int64(0), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(0), env.count(&model.LoanItem{}))
}

func TestCreateLoanRejectsInvalidDirection(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	items := []model.LoanItem{{ProductName: "Milk", Quantity: 1}}
	err := env.loans.CreateLoan(loanHeader("sideways"), items, nil)

	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateLoanRejectsEmptyItemsAndBadQuantities(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	var ve *apperr.ValidationError
	err := env.loans.CreateLoan(loanHeader(model.DirLoanIn), nil, nil)
	assert.ErrorAs(t, err, &ve)

	items := []model.LoanItem{{ProductName: "Milk", Quantity: 0}}
	err = env.loans.CreateLoan(loanHeader(model.DirLoanIn), items, nil)
	assert.ErrorAs(t, err, &ve)
}

func TestCreateLoanWithoutStockAdjustment(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	adjust := false
	items := []model.LoanItem{{ProductName: "Milk", Quantity: 5, Expiry: "2024-06-01"}}
	err := env.loans.CreateLoan(loanHeader(model.DirLoanOut), items, &adjust)
	assert.NoError(t, err)

	// Bookkeeping only: no lot was touched, even though stock is empty
	assert.Equal(t, int64(1), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(0), env.count(&model.StockLot{}))
}

func TestCreateLoanReturnOutDecrementsAndDeletesEmptiedLot(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedLot("Milk", "2024-06-01", 4)

	items := []model.LoanItem{{ProductName: "Milk", Quantity: 4, Expiry: "2024-06-01"}}
	err := env.loans.CreateLoan(loanHeader(model.DirReturnOut), items, nil)
	assert.NoError(t, err)

	_, ok := env.lotQuantity("Milk", "2024-06-01")
	assert.False(t, ok)
}

func TestUpdateLoanReplacesItemsWithoutTouchingStock(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedProduct("Eggs")

	header := loanHeader(model.DirLoanIn)
	items := []model.LoanItem{{ProductName: "Milk", Quantity: 3, Expiry: "2024-06-01"}}
	assert.NoError(t, env.loans.CreateLoan(header, items, nil))

	updated := loanHeader(model.DirLoanIn)
	updated.ID = header.ID
	updated.Counterparty = "New Cafe"
	newItems := []model.LoanItem{{ProductName: "Eggs", Quantity: 2, Expiry: "2024-07-01"}}
	assert.NoError(t, env.loans.UpdateLoan(updated, newItems))

	got, err := env.loans.GetTransactionDetails(header.ID)
	assert.NoError(t, err)
	assert.Equal(t, "New Cafe", got.Header.Counterparty)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, "Eggs", got.Items[0].ProductName)

	// Update never re-adjusts stock: the original loan_in delta stays applied
	qty, _ := env.lotQuantity("Milk", "2024-06-01")
	assert.Equal(t, int64(3), qty)
	_, ok := env.lotQuantity("Eggs", "2024-07-01")
	assert.False(t, ok)
}

func TestUpdateLoanMissingHeader(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	header := loanHeader(model.DirLoanIn)
	header.ID = uuid.New()
	items := []model.LoanItem{{ProductName: "Milk", Quantity: 1}}

	err := env.loans.UpdateLoan(header, items)
	var re *apperr.ReferenceError
	assert.ErrorAs(t, err, &re)
}

func TestDeleteLoanRemovesItemsThenHeader(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")

	header := loanHeader(model.DirLoanIn)
	items := []model.LoanItem{
		{ProductName: "Milk", Quantity: 3, Expiry: "2024-06-01"},
		{ProductName: "Milk", Quantity: 1, Expiry: "2024-07-01"},
	}
	assert.NoError(t, env.loans.CreateLoan(header, items, nil))

	assert.NoError(t, env.loans.DeleteLoan(header.ID))

	// No orphaned items remain
	assert.Equal(t, int64(0), env.count(&model.LoanHeader{}))
	assert.Equal(t, int64(0), env.count(&model.LoanItem{}))

	// Stock adjustments are not reversed
	qty, _ := env.lotQuantity("Milk", "2024-06-01")
	assert.Equal(t, int64(3), qty)
}

func TestDeleteLoanMissingHeader(t *testing.T) {
	env := setupTestEnv()

	err := env.loans.DeleteLoan(uuid.New())
	var re *apperr.ReferenceError
	assert.ErrorAs(t, err, &re)
}

func TestLoanSummaryNetsMovements(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedLot("Milk", "2024-06-01", 10)

	out := []model.LoanItem{{ProductName: "Milk", Quantity: 5, Expiry: "2024-06-01"}}
	assert.NoError(t, env.loans.CreateLoan(loanHeader(model.DirLoanOut), out, nil))

	back := []model.LoanItem{{ProductName: "Milk", Quantity: 2, Expiry: "2024-06-01"}}
	assert.NoError(t, env.loans.CreateLoan(loanHeader(model.DirReturnIn), back, nil))

	summary, err := env.loans.GetLoanSummary()
	assert.NoError(t, err)
	assert.Len(t, summary, 1)
	assert.Equal(t, "Corner Cafe", summary[0].Counterparty)
	assert.Equal(t, "Milk", summary[0].ProductName)
	assert.Equal(t, int64(3), summary[0].NetQuantity)

	qty, _ := env.lotQuantity("Milk", "2024-06-01")
	assert.Equal(t, int64(7), qty)
}
