package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pos-backend/api/controllers"
	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/internal/categories"
	"github.com/angelmondragon/pos-backend/internal/coupons"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/internal/transactions"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *db.Client,
	redisClient *redis.Client,
	categoryService categories.Service,
	productService products.Service,
	couponService coupons.Service,
	transactionService transactions.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, client, redisClient, logg))
	})

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CreateCategory(categoryService, logg))
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Get("/{id}", controllers.GetCategory(categoryService, logg))
			r.Patch("/{id}", controllers.UpdateCategory(categoryService, logg))
			r.Delete("/{id}", controllers.DeleteCategory(categoryService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Patch("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", controllers.CreateCoupon(couponService, logg))
			r.Get("/", controllers.ListCoupons(couponService, logg))
			r.Post("/apply", controllers.ApplyCoupon(couponService, logg))
			r.Get("/{id}", controllers.GetCoupon(couponService, logg))
			r.Patch("/{id}", controllers.UpdateCoupon(couponService, logg))
			r.Delete("/{id}", controllers.DeleteCoupon(couponService, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.CreateTransaction(transactionService, logg))
			r.Get("/", controllers.ListTransactions(transactionService, logg))
			r.Get("/{id}", controllers.GetTransaction(transactionService, logg))
			r.Delete("/{id}", controllers.DeleteTransaction(transactionService, logg))
		})
	})

	return r
}
