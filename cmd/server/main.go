package main

import (
	"log"
	"net/http"

	"libreria-be/internal/category"
	"libreria-be/internal/checkout"
	"libreria-be/internal/config"
	"libreria-be/internal/contact"
	"libreria-be/internal/db"
	"libreria-be/internal/logger"
	"libreria-be/internal/middleware"
	"libreria-be/internal/order"
	"libreria-be/internal/payment"
	"libreria-be/internal/payment/webhook"
	"libreria-be/internal/product"
	"libreria-be/internal/reconcile"
	"libreria-be/internal/user"
	"libreria-be/internal/utils"
	"libreria-be/internal/video"

	"go.uber.org/zap"
)

// handlers groups everything the router mounts.
type handlers struct {
	webhook  *webhook.Handler
	checkout *checkout.Handler
	product  *product.Handler
	category *category.Handler
	order    *order.Handler
	contact  *contact.Handler
	user     *user.Handler
	video    *video.Handler
	engine   *reconcile.Engine
}

func setupRouter(h handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Payment notifications. The handler does its own signature check; the
	// route stays outside the session middleware on purpose.
	mux.HandleFunc("POST /webhook/mercadopago", h.webhook.HandleNotification)

	// Public storefront.
	mux.HandleFunc("POST /checkout", h.checkout.Create)
	mux.HandleFunc("GET /products", h.product.List)
	mux.HandleFunc("GET /products/{id}", h.product.Get)
	mux.HandleFunc("GET /categories", h.category.List)
	mux.HandleFunc("GET /videos", h.video.List)
	mux.HandleFunc("POST /contact", h.contact.Submit)

	mux.HandleFunc("POST /auth/login", h.user.Login)
	mux.HandleFunc("POST /auth/logout", h.user.Logout)

	// Admin surface.
	admin := http.NewServeMux()
	admin.HandleFunc("POST /admin/products", h.product.Create)
	admin.HandleFunc("PUT /admin/products/{id}", h.product.Update)
	admin.HandleFunc("POST /admin/categories", h.category.Create)
	admin.HandleFunc("PUT /admin/categories/{id}", h.category.Update)
	admin.HandleFunc("GET /admin/orders", h.order.List)
	admin.HandleFunc("GET /admin/orders/{id}", h.order.Get)
	admin.HandleFunc("PUT /admin/orders/{id}", h.order.Update)
	admin.HandleFunc("GET /admin/contacts", h.contact.List)
	admin.HandleFunc("GET /admin/reconcile/stats", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, h.engine.Stats())
	})
	mux.Handle("/admin/", middleware.RequireAdmin(admin))

	var root http.Handler = mux
	root = middleware.AuthMiddleware(root)
	root = middleware.RateLimitMiddleware(root)
	root = middleware.LoggingMiddleware(root)
	root = logger.RequestIDMiddleware(root)
	return root
}

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer database.Close()

	gateway, err := payment.NewMercadoPagoGateway(cfg.MPAccessToken, payment.MercadoPagoOptions{
		NotificationURL: cfg.PublicBaseURL + "/webhook/mercadopago",
		SuccessURL:      cfg.CheckoutSuccessURL,
		PendingURL:      cfg.CheckoutPendingURL,
		FailureURL:      cfg.CheckoutFailureURL,
	})
	if err != nil {
		log.Fatalf("failed to init payment gateway: %v", err)
	}

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	contactRepo := contact.NewRepository(database)
	contactSvc := contact.NewService(contactRepo, contact.NewMailer(cfg))

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	checkoutSvc := checkout.NewService(productRepo, orderRepo, gateway)

	engine := reconcile.NewEngine(orderRepo, gateway)
	verifier := payment.NewSignatureVerifier(cfg.MPWebhookSecret)

	router := setupRouter(handlers{
		webhook:  webhook.NewHandler(verifier, engine),
		checkout: checkout.NewHandler(checkoutSvc),
		product:  product.NewHandler(productSvc),
		category: category.NewHandler(categorySvc),
		order:    order.NewHandler(orderSvc),
		contact:  contact.NewHandler(contactSvc),
		user:     user.NewHandler(userSvc, cfg.AppEnv == "production"),
		video:    video.NewHandler(video.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeChannelID)),
		engine:   engine,
	})

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
