package engine

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docefloco/atendente-ai/internal/models"
	"github.com/docefloco/atendente-ai/internal/store"
	"github.com/docefloco/atendente-ai/internal/wa"
)

// Handler é a superfície administrativa usada pelo balcão: produtos,
// pedidos, clientes e sessão. O atendimento em si entra pelo webhook
// do pacote wa, não por aqui.
type Handler struct {
	store     *store.Store
	lifecycle *Lifecycle
	sup       *wa.Supervisor
}

func NewHandler(st *store.Store, lc *Lifecycle, sup *wa.Supervisor) *Handler {
	return &Handler{store: st, lifecycle: lc, sup: sup}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ActiveProducts(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	id, err := h.store.AddProduct(r.Context(), payload.Name, payload.Price)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity < 0 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}
	if err := h.store.SetProductStock(r.Context(), chi.URLParam(r, "id"), payload.Quantity); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.SetProductActive(r.Context(), chi.URLParam(r, "id"), payload.Active); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context(), r.URL.Query().Get("status"), 100)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// AdvanceOrder move o pedido um passo no fluxo, com notificação opcional.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Notify bool `json:"notify"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	next, err := h.lifecycle.Advance(r.Context(), chi.URLParam(r, "id"), payload.Notify)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": next})
}

// CreateScheduledOrder cria uma encomenda manual (balcão).
func (h *Handler) CreateScheduledOrder(w http.ResponseWriter, r *http.Request) {
	var spec store.ScheduledSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil || spec.ClientID == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	res, err := h.store.CreateScheduledOrder(r.Context(), spec)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orderId": res.OrderID, "note": res.Note})
}

func (h *Handler) ListScheduledOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ScheduledOrders(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.ListClients(r.Context())
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// PauseClient liga/desliga o atendimento automático para um cliente.
func (h *Handler) PauseClient(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Paused bool `json:"paused"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.SetAIPaused(r.Context(), chi.URLParam(r, "id"), payload.Paused); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) ClientMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.MessagesByClient(r.Context(), chi.URLParam(r, "id"), 50)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *Handler) SetProductImage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Path == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.SetProductImage(r.Context(), chi.URLParam(r, "id"), payload.Path); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Settings(r.Context()))
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var cfg models.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := h.store.SaveSettings(r.Context(), cfg); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.sup.Status())})
}

func (h *Handler) SessionConnect(w http.ResponseWriter, r *http.Request) {
	h.sup.Initialize(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) SessionLogout(w http.ResponseWriter, r *http.Request) {
	h.sup.Logout(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
