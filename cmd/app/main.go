package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shoply/shop-backend/internal/cart"
	"github.com/shoply/shop-backend/internal/config"
	"github.com/shoply/shop-backend/internal/notification"
	"github.com/shoply/shop-backend/internal/order"
	"github.com/shoply/shop-backend/internal/payment"
	"github.com/shoply/shop-backend/internal/product"
	"github.com/shoply/shop-backend/internal/status"
	"github.com/shoply/shop-backend/internal/user"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "app").Logger()

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	// repositories: postgres when a database is configured, in-memory
	// otherwise (demo mode)
	var (
		userRepo    user.Repository
		productRepo product.Repository
		cartRepo    cart.Repository
		orderRepo   order.Repository
		paymentRepo payment.Repository
	)
	if cfg.DatabaseURL != "" {
		db := mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
		ensureSchema(db)

		userRepo = user.NewPostgresRepository(db)
		productRepo = product.NewPostgresRepository(db)
		cartRepo = cart.NewPostgresRepository(db)
		orderRepo = order.NewPostgresRepository(db)
		paymentRepo = payment.NewPostgresRepository(db)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory stores")
		userRepo = user.NewInMemoryRepository(nil)
		productRepo = product.NewInMemoryRepository(nil)
		cartRepo = cart.NewInMemoryRepository()
		orderRepo = order.NewInMemoryRepository()
		paymentRepo = payment.NewInMemoryRepository()
	}

	notifier := notification.NewService(cfg.EmailEnabled, cfg.NewKafkaWriter())
	notificationHandler := notification.NewHandler(notifier)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(orderRepo, cartService, productService, userService, notifier)
	orderHandler := order.NewHandler(orderService)

	var gateway payment.Gateway
	if cfg.PaymentGatewayKey != "" && cfg.PaymentGatewayURL != "" {
		gateway = payment.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
		logger.Info().Str("url", cfg.PaymentGatewayURL).Msg("external payment gateway configured")
	}
	paymentService := payment.NewService(paymentRepo, orderService, notifier, gateway)
	paymentHandler := payment.NewHandler(paymentService, orderService)

	// the registry is built here and injected; all endpoints resolve to
	// this process
	registry := status.NewRegistry()
	for _, name := range []string{"user-service", "product-service", "cart-service", "order-service", "payment-service", "notification-service"} {
		registry.Register(name, "http://localhost"+cfg.Addr)
	}
	statusHandler := status.NewHandler(registry)

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	statusHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	notificationHandler.RegisterProtectedRoutes(app)

	logger.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Info().
		Str("method", c.Method()).
		Str("path", c.OriginalURL()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func mustOpenDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// ensureSchema creates the tables on first boot. The unique constraints
// carry invariants the workflows rely on: one cart per user, one line per
// (cart, product) pair, one payment per order.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            first_name TEXT,
            last_name TEXT,
            admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            product_id SERIAL PRIMARY KEY,
            product_name TEXT NOT NULL,
            product_desc TEXT,
            product_price NUMERIC NOT NULL DEFAULT 0,
            sku TEXT UNIQUE NOT NULL,
            inventory INT,
            category TEXT,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            cart_id SERIAL PRIMARY KEY,
            user_id INT UNIQUE NOT NULL,
            created_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            cart_item_id SERIAL PRIMARY KEY,
            cart_id INT NOT NULL,
            product_id INT NOT NULL,
            quantity INT NOT NULL,
            UNIQUE (cart_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            order_id SERIAL PRIMARY KEY,
            user_id INT NOT NULL,
            status TEXT NOT NULL,
            total NUMERIC NOT NULL DEFAULT 0,
            shipping_address TEXT,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_item_id SERIAL PRIMARY KEY,
            order_id INT NOT NULL,
            product_id INT NOT NULL,
            quantity INT NOT NULL,
            price NUMERIC NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            payment_id SERIAL PRIMARY KEY,
            order_id INT UNIQUE NOT NULL,
            amount NUMERIC NOT NULL,
            status TEXT NOT NULL,
            payment_method TEXT,
            transaction_id TEXT,
            created_at TEXT
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
