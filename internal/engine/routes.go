package engine

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.AddProduct)
	r.Patch("/products/{id}/stock", h.UpdateStock)
	r.Patch("/products/{id}/active", h.ToggleProduct)
	r.Patch("/products/{id}/image", h.SetProductImage)

	r.Get("/orders", h.ListOrders)
	r.Post("/orders/{id}/advance", h.AdvanceOrder)
	r.Get("/orders/scheduled", h.ListScheduledOrders)
	r.Post("/orders/scheduled", h.CreateScheduledOrder)

	r.Get("/clients", h.ListClients)
	r.Patch("/clients/{id}/ai-paused", h.PauseClient)
	r.Get("/clients/{id}/messages", h.ClientMessages)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)

	r.Get("/session/status", h.SessionStatus)
	r.Post("/session/connect", h.SessionConnect)
	r.Post("/session/logout", h.SessionLogout)
}
