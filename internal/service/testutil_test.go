package service

import (
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory database with the full schema.
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("Failed to connect to test database")
	}
	db.AutoMigrate(
		&model.Product{},
		&model.StockLot{},
		&model.LoanHeader{},
		&model.LoanItem{},
		&model.SalesHeader{},
		&model.SalesItem{},
	)
	return db
}

type testEnv struct {
	db       *gorm.DB
	stock    StockService
	loans    LoanService
	sales    SalesService
	products ProductService
}

func setupTestEnv() *testEnv {
	db := setupTestDB()

	hub := ws.NewHub()
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	salesService := NewSalesService(saleRepo, productRepo, db)
	return &testEnv{
		db:       db,
		stock:    NewStockService(stockRepo, salesService, db, hub, 7),
		loans:    NewLoanService(loanRepo, productRepo, stockRepo, db, hub),
		sales:    salesService,
		products: NewProductService(productRepo, db),
	}
}

func (e *testEnv) seedProduct(name string) {
	e.db.Create(&model.Product{Name: name})
}

func (e *testEnv) seedLot(name, expiry string, qty int64) {
	e.db.Create(&model.StockLot{Name: name, Expiry: expiry, Quantity: qty})
}

func (e *testEnv) lotQuantity(name, expiry string) (int64, bool) {
	var lot model.StockLot
	err := e.db.Where("name = ? AND expiry = ?", name, expiry).First(&lot).Error
	if err != nil {
		return 0, false
	}
	return lot.Quantity, true
}

func (e *testEnv) count(model interface{}) int64 {
	var n int64
	e.db.Model(model).Count(&n)
	return n
}
