package ai

import "context"

// Model — o modelo generativo, não sabe nada de loja nem de banco.
type Model interface {
	Generate(ctx context.Context, systemPrompt string, userText string) (string, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// CommandKind discrimina o payload estruturado emitido pelo modelo.
type CommandKind string

const (
	CmdCreateOrder     CommandKind = "create_order"
	CmdUpdateOrder     CommandKind = "update_order"
	CmdUpdateLastOrder CommandKind = "update_last_order"
	CmdScheduleOrder   CommandKind = "schedule_order"
	CmdSendImage       CommandKind = "send_image"
)

// Command — união discriminada: exatamente um dos ponteiros abaixo é
// não-nulo, conforme Kind.
type Command struct {
	Kind CommandKind

	Create   *CreateOrder
	Update   *UpdateOrder
	Schedule *ScheduleOrder
	Image    *SendImage
}

// CartItem vem do modelo quando ele consegue estruturar o carrinho.
type CartItem struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type CreateOrder struct {
	Items   string
	Cart    []CartItem
	Total   float64
	Method  string
	Payment string
	Address string
}

type UpdateOrder struct {
	OrderID    string
	NewAddress string
	NewItems   string
	NewTotal   float64
	HasTotal   bool
}

type ScheduleOrder struct {
	Items       string
	Total       float64
	Date        string
	Method      string
	Address     string
	LoanedItems string
	ReturnDate  string
}

type SendImage struct {
	ProductID string
}

// Actions — flags de ação colateral sinalizadas por marcadores sem payload.
type Actions struct {
	SendAcaiMenu bool
	SendVitrine  bool
}

// Reply é o resultado final da interpretação: texto limpo para o cliente,
// comando opcional e ações colaterais.
type Reply struct {
	Text    string
	Command *Command
	Actions Actions
}
