package wa

import (
	"encoding/json"
	"net/http"
	"strings"
)

type Handler struct {
	sup    *Supervisor
	secret string
}

func NewHandler(sup *Supervisor, secret string) *Handler {
	return &Handler{sup: sup, secret: secret}
}

// HandleWebhook — entrada de eventos do gateway: mensagem, status, qr.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get("X-Webhook-Secret") != h.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var payload struct {
		Event   string         `json:"event"`
		Status  string         `json:"status"`
		Message InboundMessage `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	switch payload.Event {
	case "message":
		m := payload.Message
		// grupos, broadcast e stories não entram no atendimento
		if m.From == "" || strings.Contains(m.From, "@g.us") || strings.Contains(m.From, "@broadcast") {
			break
		}
		h.sup.HandleMessage(m)
	case "status":
		h.sup.HandleStatus(Status(payload.Status))
	case "qr":
		h.sup.HandleStatus(StatusAguardandoScan)
	default:
		http.Error(w, "unknown event", http.StatusBadRequest)
		return
	}

	// o gateway não espera resposta — só ACK
	w.WriteHeader(http.StatusOK)
}
