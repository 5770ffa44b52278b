package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/backend"
	"storefront-service/cart"
	"storefront-service/checkout"
	"storefront-service/config"
	"storefront-service/events"
	"storefront-service/middleware"
	"storefront-service/orders"
	"storefront-service/payment"
	"storefront-service/repository"
	"storefront-service/userstore"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	cfg config.Config

	db  *sql.DB
	rdb *redis.Client

	bus    *events.Bus
	ledger *repository.Ledger

	carts      *cart.Store
	checkouts  *checkout.Service
	payments   *payment.Service
	orderViews *orders.Service
	catalog    *backend.CatalogClient
	discounts  *backend.DiscountClient
	users      *userstore.Store
)

func main() {
	var err error
	cfg = config.Load()

	// === Setup Postgres ===
	db, err = sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := repository.RunMigrations(db); err != nil {
		log.Fatal("failed to migrate checkout ledger:", err)
	}

	// === Setup Redis ===
	rdb = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	log.Println("connected to Redis:", cfg.RedisAddr)

	setupServices()

	// === Determine run mode ===
	mode := "app"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "worker":
		log.Println("Running in WORKER ONLY mode...")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runWorker(ctx, rdb, ledger)

	case "app":
		log.Println("Running in HTTP SERVER mode only...")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		runHTTPServerWithShutdown(ctx, cancel)

	case "all":
		log.Println("Running in FULL mode (server + worker)...")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go runWorker(ctx, rdb, ledger)
		runHTTPServerWithShutdown(ctx, cancel)

	default:
		log.Fatalf("Unknown mode: %s (expected 'app', 'worker', or 'all')", mode)
	}
}

func setupServices() {
	bus = events.NewBus()
	bus.Auth.Subscribe(func(e events.AuthChanged) {
		log.Printf("[events] user %d %s", e.UserID, e.Action)
	})
	bus.Cart.Subscribe(func(e events.CartChanged) {
		log.Printf("[events] cart of user %d: %d line(s), total %d (cleared=%v)", e.Owner, e.TotalLines, e.TotalPrice, e.Cleared)
	})

	ledger = repository.NewLedger(db)
	holds := checkout.NewRedisHolds(rdb)
	carts = cart.NewStore(cart.NewRedisKV(rdb), bus.Cart)

	httpClient := &http.Client{
		Timeout:   cfg.BackendTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	base := backend.NewClient("storefront-backend", cfg.BackendURL, httpClient)

	discounts = backend.NewDiscountClient(base)
	catalog = backend.NewCatalogClient(base)
	orderClient := backend.NewOrderClient(base)

	checkouts = checkout.NewService(carts, discounts, orderClient, backend.NewPaymentClient(base), ledger, holds, checkout.Options{
		Bank: checkout.BankAccount{
			BankName:      cfg.BankName,
			AccountNumber: cfg.BankAccountNumber,
			AccountHolder: cfg.BankAccountHolder,
		},
		HoldTTL: cfg.PaymentHoldTTL,
	})
	payments = payment.NewService(carts, ledger, holds, payment.Secrets{
		VNPayHashSecret: cfg.VNPayHashSecret,
		MoMoAccessKey:   cfg.MoMoAccessKey,
		MoMoSecretKey:   cfg.MoMoSecretKey,
	})
	orderViews = orders.NewService(orderClient)
	users = userstore.NewStore(cfg.UsersFile)
}

func runHTTPServerWithShutdown(ctx context.Context, cancel context.CancelFunc) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(setupRouter(), "storefront-service"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Println("HTTP server running on :" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error:", err)
		}
	}()

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
	log.Println("shutting down gracefully...")

	cancel()
	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		log.Println("shutdown error:", err)
	}
	rdb.Close()
	db.Close()
	log.Println("server and worker stopped.")
}

func setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.CorrelationID, middleware.CORS(cfg.CORSAllowOrigins))
	// preflight requests need a matching route for the CORS middleware to run
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r.HandleFunc("/health", HealthHandler).Methods("GET")
	r.HandleFunc("/users", ListUsersHandler).Methods("GET")
	r.HandleFunc("/user", CreateUserHandler).Methods("POST")
	r.HandleFunc("/login", LoginHandler).Methods("POST")

	r.HandleFunc("/products", ListProductsHandler).Methods("GET")
	r.HandleFunc("/categories", ListCategoriesHandler).Methods("GET")
	r.HandleFunc("/discounts", ListPublicDiscountsHandler).Methods("GET")

	// browsers land here by provider redirect, usually without a bearer
	ret := r.PathPrefix("/").Subrouter()
	ret.Use(middleware.OptionalAuth)
	ret.HandleFunc("/payment/vnpay-return", VNPayReturnHandler).Methods("GET")
	ret.HandleFunc("/payment/momo-return", MoMoReturnHandler).Methods("GET")
	ret.HandleFunc("/order-result", OrderResultHandler).Methods("GET")

	// subrouter yang pakai middleware auth
	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.AuthMiddleware)

	api.HandleFunc("/logout", LogoutHandler).Methods("POST")

	api.HandleFunc("/cart", GetCartHandler).Methods("GET")
	api.HandleFunc("/cart", ClearCartHandler).Methods("DELETE")
	api.HandleFunc("/cart/contains", CartContainsHandler).Methods("GET")
	api.HandleFunc("/cart/items", AddCartItemHandler).Methods("POST")
	api.HandleFunc("/cart/items/{lineId}", SetCartQuantityHandler).Methods("PATCH")
	api.HandleFunc("/cart/items/{lineId}", RemoveCartItemHandler).Methods("DELETE")

	api.HandleFunc("/checkout", CheckoutHandler).Methods("POST")
	api.HandleFunc("/checkout/discount", ApplyDiscountHandler).Methods("POST")
	api.HandleFunc("/checkout/bank-transfer/{orderId}/confirm", ConfirmBankTransferHandler).Methods("POST")

	api.HandleFunc("/orders", ListOrdersHandler).Methods("GET")
	api.HandleFunc("/orders/{id}", GetOrderHandler).Methods("GET")

	return r
}
