package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linecut/internal/help"
	"linecut/internal/mw"
)

type Services struct {
	Auth          Authenticator
	Passwords     PasswordResetter
	Catalog       Catalog
	Favorites     Favorites
	Profiles      Profiles
	Images        Images
	Orders        Orders
	Ratings       Ratings
	Notifications Notifications
	FAQ           help.FAQ
}

type RouterConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	StoreAPIKey string
}

func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Store-Key"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Post("/api/user/register", RegisterHandler(svc.Auth, cfg.JWTSecret, cfg.TokenTTL))
	r.Post("/api/user/login", LoginHandler(svc.Auth, cfg.JWTSecret, cfg.TokenTTL))
	r.Post("/api/user/password/forgot", ForgotPasswordHandler(svc.Passwords))
	r.Post("/api/user/password/reset", ResetPasswordHandler(svc.Passwords))

	r.Get("/api/stores", ListStoresHandler(svc.Catalog))
	r.Get("/api/stores/{storeID}", GetStoreHandler(svc.Catalog))
	r.Get("/api/stores/{storeID}/products", ListProductsHandler(svc.Catalog))
	r.Get("/api/product-categories", ListCategoriesHandler(svc.Catalog))
	r.Get("/api/help/faq", FAQHandler(svc.FAQ))
	r.Get("/api/images/*", ImageHandler(svc.Images))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/api/user/profile", GetProfileHandler(svc.Profiles))
		r.Put("/api/user/profile", UpdateProfileHandler(svc.Profiles))
		r.Delete("/api/user", CloseAccountHandler(svc.Profiles))

		r.Post("/api/orders", CreateOrderHandler(svc.Orders))
		r.Get("/api/user/orders", ListOrdersHandler(svc.Orders))
		r.Get("/api/user/orders/{orderID}", GetOrderHandler(svc.Orders))
		r.Post("/api/user/orders/{orderID}/rating", RateOrderHandler(svc.Ratings))
		r.Get("/api/user/orders/{orderID}/rating", GetRatingHandler(svc.Ratings))

		r.Get("/api/user/favorites", ListFavoritesHandler(svc.Favorites))
		r.Post("/api/user/favorites/{storeID}", ToggleFavoriteHandler(svc.Favorites))

		r.Get("/api/user/notifications", ListNotificationsHandler(svc.Notifications))
		r.Patch("/api/user/notifications/{notificationID}/read", MarkNotificationReadHandler(svc.Notifications))
		r.Delete("/api/user/notifications", DeleteNotificationsHandler(svc.Notifications))

		r.Post("/api/user/devices", RegisterDeviceHandler(svc.Notifications))
		r.Delete("/api/user/devices/{token}", RemoveDeviceHandler(svc.Notifications))
	})

	// Store side
	r.Group(func(r chi.Router) {
		r.Use(mw.StoreKeyMiddleware(cfg.StoreAPIKey))

		r.Patch("/api/store/orders/{orderID}/status", UpdateStatusHandler(svc.Orders))
		r.Post("/api/store/payments/pix", PixPaymentHandler(svc.Orders))
	})

	return r
}
