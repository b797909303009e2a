package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-stock-ledger/internal/handler"
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/service"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.StockLot{},
		&model.LoanHeader{},
		&model.LoanItem{},
		&model.SalesHeader{},
		&model.SalesItem{},
	)

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	loanRepo := repository.NewLoanRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	salesService := service.NewSalesService(saleRepo, productRepo, db)
	stockService := service.NewStockService(stockRepo, salesService, db, wsHub, alertPeriodDays())
	loanService := service.NewLoanService(loanRepo, productRepo, stockRepo, db, wsHub)
	productService := service.NewProductService(productRepo, db)

	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	loanHandler := handler.NewLoanHandler(loanService)
	salesHandler := handler.NewSalesHandler(salesService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Product Routes
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products/:name", productHandler.GetProduct)
	api.Put("/products/:name", productHandler.UpdateProduct)
	api.Delete("/products/:name", productHandler.DeleteProduct)

	// Stock Routes
	api.Post("/stock/add", stockHandler.AddStock)
	api.Post("/stock/remove", stockHandler.RemoveStock)
	api.Put("/stock", stockHandler.EditStock)
	api.Get("/stock/lots/:name", stockHandler.GetStockLots)
	api.Get("/stock/in-stock", stockHandler.GetInStockProducts)
	api.Get("/stock/overview", stockHandler.GetStockOverview)
	api.Get("/stock/histogram/:name", stockHandler.GetStockHistogram)

	// Loan Routes
	api.Post("/loans", loanHandler.CreateLoan)
	api.Get("/loans", loanHandler.GetLoanHistory)
	api.Get("/loans/summary", loanHandler.GetLoanSummary)
	api.Put("/loans/:id", loanHandler.UpdateLoan)
	api.Delete("/loans/:id", loanHandler.DeleteLoan)
	api.Get("/loans/:id/items", loanHandler.GetLoanItems)
	api.Get("/loans/:id/details", loanHandler.GetTransactionDetails)

	// Sales Routes
	api.Get("/sales", salesHandler.GetSalesHistory)
	api.Put("/sales/:id", salesHandler.UpdateSale)
	api.Delete("/sales/:id", salesHandler.DeleteSale)
	api.Get("/sales/:id/items", salesHandler.GetSalesItems)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// alertPeriodDays reads the expiry-alert window used by the stock overview.
func alertPeriodDays() int {
	if v := os.Getenv("ALERT_PERIOD_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return days
		}
		log.Println("Warning: invalid ALERT_PERIOD_DAYS, using default")
	}
	return 7
}
