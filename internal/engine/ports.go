package engine

import (
	"context"
	"log"

	"github.com/docefloco/atendente-ai/internal/ai"
	"github.com/docefloco/atendente-ai/internal/models"
	"github.com/docefloco/atendente-ai/internal/store"
)

// Store — tudo que o engine precisa da persistência. *store.Store satisfaz.
type Store interface {
	GetOrCreateClient(ctx context.Context, rawPhone, name, countryCode, address string) (*models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	SetLastAddress(ctx context.Context, clientID, address string) error

	LogMessage(ctx context.Context, msg models.ChatMessage) error
	RecentChat(ctx context.Context, clientID string, limit int) (string, error)

	ActiveProducts(ctx context.Context) ([]models.Product, error)
	ProductImage(ctx context.Context, id string) (path, name string, err error)
	Settings(ctx context.Context) models.Settings

	OrderHistory(ctx context.Context, clientID string, limit int) (string, error)
	LatestPendingOrder(ctx context.Context, clientID string) (*models.Order, error)
	CreateStandardOrder(ctx context.Context, spec store.OrderSpec) (*store.OrderResult, error)
	CreateScheduledOrder(ctx context.Context, spec store.ScheduledSpec) (*store.OrderResult, error)
	FindOrderForUpdate(ctx context.Context, clientID, shortID, activeOrderID string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, patch store.OrderPatch) error
	UpdateOrderStatus(ctx context.Context, id string, st models.Status) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Intent — o IntentClient (pacote ai). Nunca devolve erro: falha vira
// resposta de fallback.
type Intent interface {
	Resolve(ctx context.Context, pctx ai.PromptContext, userText string) ai.Reply
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) string
}

// Transport — envio falível; false significa "não entregue".
type Transport interface {
	SendText(ctx context.Context, to, text string) bool
	SendImage(ctx context.Context, to, path, caption string) bool
}

// EventSink recebe os eventos de negócio para observabilidade externa.
type EventSink interface {
	OrderCreated(orderID, shortID string)
	OrderStatusChanged(orderID string, from, to models.Status)
	DuplicatePrevented(clientID string)
}

// LogSink é o sink default: só loga.
type LogSink struct{}

func (LogSink) OrderCreated(orderID, shortID string) {
	log.Printf("[engine] pedido criado #%s (%s)", shortID, orderID)
}

func (LogSink) OrderStatusChanged(orderID string, from, to models.Status) {
	log.Printf("[engine] pedido %s: %s -> %s", orderID, from, to)
}

func (LogSink) DuplicatePrevented(clientID string) {
	log.Printf("[engine] encomenda duplicada evitada (cliente %s)", clientID)
}
