package httpserver

import (
	"net/http"
	"time"

	"ration-shop-go/internal/config"
	"ration-shop-go/internal/transport/httpserver/handler"
	authmw "ration-shop-go/internal/transport/httpserver/middleware"
	"ration-shop-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/send-otp", handlers.SendLoginOTP)
		r.Post("/auth/verify-otp", handlers.VerifyLoginOTP)

		r.Get("/stock", handlers.AvailableStock)
		r.Get("/stock/recent", handlers.RecentStock)

		r.Post("/checkout/send-otp", handlers.SendCheckoutOTP)
		r.Post("/orders", handlers.PlaceOrder)
		r.Get("/orders/latest", handlers.LatestOrder)
		r.Get("/orders/{token}", handlers.GetOrder)
		r.Post("/orders/{token}/pay", handlers.ConfirmPayment)
		r.Post("/orders/{token}/fail", handlers.FailPayment)
		r.Get("/orders/{token}/invoice", handlers.DownloadInvoice)

		r.Get("/notifications", handlers.ListNotifications)
		r.Post("/notifications/dismiss-all", handlers.DismissAllNotifications)
		r.Post("/notifications/mark-read", handlers.MarkNotificationsRead)
		r.Post("/notifications/{id}/dismiss", handlers.DismissNotification)

		r.Post("/chatbot", handlers.Chat)

		auth := authmw.NewAdminAuth(cfg.Admin.JWTSecret, log)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", handlers.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Post("/change-password", handlers.AdminChangePassword)

				r.Get("/areas", handlers.ListAreas)

				r.Post("/families", handlers.CreateFamily)
				r.Get("/families/{code}", handlers.GetFamily)
				r.Put("/families/{code}", handlers.UpdateFamily)
				r.Delete("/families/{code}", handlers.DeleteFamily)
				r.Get("/families/{code}/members", handlers.ListFamilyMembers)
				r.Post("/families/{code}/members", handlers.AddFamilyMember)
				r.Put("/members/{aadhar}", handlers.UpdateFamilyMember)
				r.Delete("/members/{aadhar}", handlers.DeleteFamilyMember)

				r.Get("/stock", handlers.AdminStock)
				r.Post("/stock", handlers.CreateItem)
				r.Put("/stock/{id}", handlers.UpdateItem)
				r.Delete("/stock/{id}", handlers.DeleteItem)

				r.Get("/orders", handlers.ListOrders)
				r.Get("/orders/verify", handlers.VerifyPickup)

				r.Post("/notifications", handlers.PublishNotification)

				r.Post("/maintenance/purge", handlers.RunPurge)
			})
		})
	})

	return r
}
