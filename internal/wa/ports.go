package wa

import "context"

// Status da sessão com o gateway de WhatsApp.
type Status string

const (
	StatusDesconectado   Status = "desconectado"
	StatusAguardandoScan Status = "aguardando_scan"
	StatusConectado      Status = "conectado"
	StatusErroInit       Status = "erro_inicializacao"
	StatusErroAuth       Status = "erro_autenticacao"
)

// InboundMessage — mensagem crua entregue pelo gateway via webhook.
type InboundMessage struct {
	From       string `json:"from"` // ex: 5511987654321@c.us
	SenderName string `json:"senderName"`
	Type       string `json:"type"` // chat | ptt | audio | ...
	Body       string `json:"body"`
	MediaB64   string `json:"mediaB64,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	QuotedBody string `json:"quotedBody,omitempty"`
}

// Gateway — o bridge externo de WhatsApp, falado por HTTP. Todo envio
// é falível; ninguém assume entrega.
type Gateway interface {
	Connect(ctx context.Context) error
	Logout(ctx context.Context) error
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to, path, caption string) error
}

// Transport é o que o resto do sistema enxerga: envios que devolvem
// um booleano de sucesso, nunca erro.
type Transport interface {
	SendText(ctx context.Context, to, text string) bool
	SendImage(ctx context.Context, to, path, caption string) bool
	Status() Status
}
