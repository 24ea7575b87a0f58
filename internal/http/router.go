package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"restro-pos-service/internal/auth"
	"restro-pos-service/internal/config"
	"restro-pos-service/internal/http/handlers"
	"restro-pos-service/internal/middleware"
	"restro-pos-service/internal/queue"
	"restro-pos-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewRouter(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config, queueClient *queue.Client, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
				"Last-Event-ID",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{DB: db, Logger: logger, Config: cfg, Queue: queueClient}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/api/auth/login", h.Login)

	// Order-taking surface: waiters and order terminals, plus admin.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(cfg.JWTSecret, auth.RoleAdmin, auth.RoleWaiter, auth.RoleOrder))

		r.Get("/api/menu", h.Menu)

		r.Post("/api/orders", h.OrdersCreate)
		r.Get("/api/orders", h.OrdersList)
		r.Get("/api/orders/{id}", h.OrdersDetail)
		r.Put("/api/orders/{id}/status", h.OrdersUpdateStatus)
		r.Put("/api/orders/{id}/discount", h.OrdersUpdateDiscount)
		r.Delete("/api/orders/{id}", h.OrdersDelete)
		r.Get("/api/orders/{id}/receipt", h.OrderReceipt)

		r.Post("/api/orders/{id}/items", h.OrderItemsAdd)
		r.Put("/api/orders/{id}/items/{itemId}", h.OrderItemsUpdate)
		r.Delete("/api/orders/{id}/items/{itemId}", h.OrderItemsDelete)
	})

	// Item status moves from both sides of the pass: the kitchen marks
	// preparing/ready, the floor marks served.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(cfg.JWTSecret, auth.RoleAdmin, auth.RoleChef, auth.RoleWaiter, auth.RoleOrder))
		r.Put("/api/orders/{id}/items/{itemId}/status", h.OrderItemsUpdateStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(cfg.JWTSecret, auth.RoleAdmin, auth.RoleChef))
		r.Get("/api/chef/orders/stream", h.ChefStream)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(cfg.JWTSecret, auth.RoleAdmin, auth.RoleWaiter, auth.RoleOrder))
		r.Get("/api/delivery/orders/stream", h.DeliveryStream)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireRoles(cfg.JWTSecret, auth.RoleAdmin))

		r.Get("/categories", h.CategoriesList)
		r.Post("/categories", h.CategoriesCreate)
		r.Put("/categories/{id}", h.CategoriesUpdate)
		r.Delete("/categories/{id}", h.CategoriesDelete)

		r.Get("/table-types", h.TableTypesList)
		r.Post("/table-types", h.TableTypesCreate)
		r.Put("/table-types/{id}", h.TableTypesUpdate)
		r.Delete("/table-types/{id}", h.TableTypesDelete)

		r.Get("/tables", h.TablesList)
		r.Post("/tables", h.TablesCreate)
		r.Put("/tables/{id}", h.TablesUpdate)
		r.Delete("/tables/{id}", h.TablesDelete)

		r.Get("/menu-items", h.MenuItemsList)
		r.Post("/menu-items", h.MenuItemsCreate)
		r.Put("/menu-items/{id}", h.MenuItemsUpdate)
		r.Delete("/menu-items/{id}", h.MenuItemsDelete)

		r.Get("/units", h.UnitsList)
		r.Post("/units", h.UnitsCreate)
		r.Put("/units/{id}", h.UnitsUpdate)
		r.Delete("/units/{id}", h.UnitsDelete)

		r.Get("/products", h.ProductsList)
		r.Post("/products", h.ProductsCreate)
		r.Put("/products/{id}", h.ProductsUpdate)
		r.Delete("/products/{id}", h.ProductsDelete)

		r.Get("/users", h.UsersList)
		r.Post("/users", h.UsersCreate)
		r.Put("/users/{id}", h.UsersUpdate)
		r.Delete("/users/{id}", h.UsersDelete)

		r.Get("/expenses", h.ExpensesList)
		r.Post("/expenses", h.ExpensesCreate)
		r.Get("/expenses/{id}", h.ExpensesDetail)
		r.Put("/expenses/{id}", h.ExpensesUpdate)
		r.Delete("/expenses/{id}", h.ExpensesDelete)
		r.Get("/expenses/{id}/receipt", h.ExpenseReceipt)
		r.Post("/expenses/{id}/items", h.ExpenseItemsAdd)
		r.Put("/expenses/{id}/items/{itemId}", h.ExpenseItemsUpdate)
		r.Delete("/expenses/{id}/items/{itemId}", h.ExpenseItemsDelete)

		r.Get("/reports/sales", h.SalesReport)

		r.Get("/shop-info", h.ShopInfoGet)
		r.Put("/shop-info", h.ShopInfoUpdate)
	})

	if wsServer != nil {
		r.Get("/ws/orders", wsServer.OrdersWS)
	}

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
