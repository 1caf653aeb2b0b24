package ai

import (
	"context"
	"log"
	"strings"
)

// resposta segura quando o modelo falha ou devolve lixo
const fallbackText = "Ops, minha mente congelou por um instante! Pode repetir?"

// Client — o IntentClient: prompt pra dentro, Reply pra fora.
type Client struct {
	model Model
}

func NewClient(model Model) *Client {
	return &Client{model: model}
}

// Resolve monta o contexto, chama o modelo e interpreta a saída.
// Nunca propaga erro: falha de modelo vira resposta de fallback sem
// comando e sem ações.
func (c *Client) Resolve(ctx context.Context, pctx PromptContext, userText string) Reply {
	raw, err := c.model.Generate(ctx, BuildSystemPrompt(pctx), userText)
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			log.Println("[ai] geração falhou, usando fallback:", err)
		}
		return Reply{Text: fallbackText}
	}
	return ParseResponse(raw)
}

// TranscribeAudio devolve o corpo de mensagem para um áudio recebido.
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) string {
	text, err := c.model.Transcribe(ctx, audio, mimeType)
	text = strings.TrimSpace(text)
	if err != nil || text == "" || text == "[INAUDÍVEL]" {
		return "[ÁUDIO INAUDÍVEL]"
	}
	return "[ÁUDIO]: " + text
}
