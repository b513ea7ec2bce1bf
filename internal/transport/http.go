package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/auth"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/handler"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/order"
)

func NewRouter(pool *pgxpool.Pool, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	orderRepo := order.NewRepository(pool)
	orderSvc := order.NewService(orderRepo)
	orderHandler := handler.NewOrderHandler(orderSvc)

	bankRepo := bank.NewRepository(pool)
	bankHandler := handler.NewBankHandler(bankRepo)

	r.Post("/orders", orderHandler.CreateOrder)
	r.Get("/orders/lookup", orderHandler.TrackOrder)
	r.Get("/bank-account", bankHandler.GetBankAccount)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))
		r.Get("/orders/{id}", orderHandler.GetOrder)
		r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)
		r.Post("/orders/{id}/confirm-payment", orderHandler.ConfirmPayment)
		r.Patch("/orders/{id}/note", orderHandler.UpdateAdminNote)
	})

	return r
}
