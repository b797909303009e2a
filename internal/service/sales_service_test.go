package service

import (
	"testing"
	"time"

	"go-stock-ledger/internal/apperr"
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddSaleRecordsHeaderAndItems(t *testing.T) {
	env := setupTestEnv()

	note := "walk-in"
	changes := []model.StockChange{
		{Name: "Milk", Expiry: "2024-06-01", Qty: 2},
		{Name: "Eggs", Expiry: "", Qty: 6},
	}
	err := env.sales.AddSale(changes, &note)
	assert.NoError(t, err)

	var header model.SalesHeader
	assert.NoError(t, env.db.First(&header).Error)
	assert.Equal(t, time.Now().Format("2006-01-02"), header.Date)
	if assert.NotNil(t, header.Note) {
		assert.Equal(t, "walk-in", *header.Note)
	}
	assert.Equal(t, int64(2), env.count(&model.SalesItem{}))

	// Pure bookkeeping: stock is never touched here
	assert.Equal(t, int64(0), env.count(&model.StockLot{}))
}

func TestAddSaleRejectsBadInput(t *testing.T) {
	env := setupTestEnv()

	var ve *apperr.ValidationError
	assert.ErrorAs(t, env.sales.AddSale(nil, nil), &ve)

	changes := []model.StockChange{{Name: "Milk", Qty: -1}}
	assert.ErrorAs(t, env.sales.AddSale(changes, nil), &ve)
	assert.Equal(t, int64(0), env.count(&model.SalesHeader{}))
}

func TestUpdateSaleReplacesItems(t *testing.T) {
	env := setupTestEnv()
	env.seedProduct("Milk")
	env.seedProduct("Eggs")

	changes := []model.StockChange{{Name: "Milk", Expiry: "2024-06-01", Qty: 2}}
	assert.NoError(t, env.sales.AddSale(changes, nil))

	var header model.SalesHeader
	env.db.First(&header)

	header.Date = "2024-05-02"
	items := []model.SalesItem{{ProductName: "Eggs", Quantity: 1, Expiry: ""}}
	assert.NoError(t, env.sales.UpdateSale(&header, items))

	got, err := env.sales.GetSalesItems(header.ID)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Eggs", got[0].ProductName)

	var reloaded model.SalesHeader
	env.db.First(&reloaded, "id = ?", header.ID)
	assert.Equal(t, "2024-05-02", reloaded.Date)
}

func TestUpdateSaleUnknownProduct(t *testing.T) {
	env := setupTestEnv()

	changes := []model.StockChange{{Name: "Milk", Qty: 2}}
	// AddSale does not existence-check (the stock removal already did), but
	// UpdateSale re-validates the new item set
	assert.NoError(t, env.sales.AddSale(changes, nil))

	var header model.SalesHeader
	env.db.First(&header)

	items := []model.SalesItem{{ProductName: "Ghost", Quantity: 1}}
	err := env.sales.UpdateSale(&header, items)
	var re *apperr.ReferenceError
	assert.ErrorAs(t, err, &re)

	// Replacement is atomic: the original item survives the failed update
	got, _ := env.sales.GetSalesItems(header.ID)
	assert.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].ProductName)
}

func TestDeleteSaleRemovesItemsThenHeader(t *testing.T) {
	env := setupTestEnv()

	changes := []model.StockChange{
		{Name: "Milk", Expiry: "2024-06-01", Qty: 2},
		{Name: "Eggs", Expiry: "", Qty: 1},
	}
	assert.NoError(t, env.sales.AddSale(changes, nil))

	var header model.SalesHeader
	env.db.First(&header)

	assert.NoError(t, env.sales.DeleteSale(header.ID))
	assert.Equal(t, int64(0), env.count(&model.SalesHeader{}))
	assert.Equal(t, int64(0), env.count(&model.SalesItem{}))
}

func TestDeleteSaleMissingHeader(t *testing.T) {
	env := setupTestEnv()

	err := env.sales.DeleteSale(uuid.New())
	var re *apperr.ReferenceError
	assert.ErrorAs(t, err, &re)
}
