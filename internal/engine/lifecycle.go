package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/docefloco/atendente-ai/internal/models"
)

// Lifecycle avança pedidos pelo fluxo Pendente → Preparo → Pronto/Envio
// → Concluído e dispara a notificação do cliente a cada passo.
type Lifecycle struct {
	store     Store
	transport Transport
	events    EventSink
}

func NewLifecycle(st Store, transport Transport, events EventSink) *Lifecycle {
	if events == nil {
		events = LogSink{}
	}
	return &Lifecycle{store: st, transport: transport, events: events}
}

// Advance move o pedido um passo para frente. A notificação é etapa
// independente: falha no envio não desfaz a mudança de status, e uma
// notificação não enviada não é registrada no histórico.
func (l *Lifecycle) Advance(ctx context.Context, orderID string, notify bool) (models.Status, error) {
	order, err := l.store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	next, ok := order.Status.Next()
	if !ok {
		return "", fmt.Errorf("pedido %s em %q não tem próximo estado", order.ShortID, order.Status)
	}

	if err := l.store.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return "", err
	}
	l.events.OrderStatusChanged(orderID, order.Status, next)

	if notify {
		l.notify(ctx, order, next)
	}
	return next, nil
}

func (l *Lifecycle) notify(ctx context.Context, order *models.Order, status models.Status) {
	client, err := l.store.GetClient(ctx, order.ClientID)
	if err != nil {
		return
	}

	message := NotificationText(status, order.ClientName, order.DeliveryMethod)
	if message == "" {
		return
	}

	if !l.transport.SendText(ctx, client.Phone, message) {
		return
	}
	_ = l.store.LogMessage(ctx, models.ChatMessage{
		ClientID:    client.ID,
		ChatID:      client.Phone,
		FromMe:      true,
		Body:        message,
		IsAutomated: true,
		Read:        true,
	})
}

// NotificationText é o template fixo de aviso por estado alvo. Vazio
// significa "esse estado não notifica".
func NotificationText(status models.Status, clientName, deliveryMethod string) string {
	switch status {
	case models.StatusPreparo:
		return fmt.Sprintf("👩‍🍳 Olá %s! Seu pedido está sendo preparado! 🍦", clientName)
	case models.StatusPronto:
		m := strings.ToLower(deliveryMethod)
		if strings.Contains(m, "entrega") || strings.Contains(m, "delivery") {
			return "🛵 Saiu para entrega!"
		}
		return "🎁 Pronto para retirada!"
	case models.StatusConcluido:
		return "💜 Pedido finalizado! Obrigado!"
	}
	return ""
}
