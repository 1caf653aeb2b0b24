package ai

import (
	"bytes"
	"context"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const modelCallTimeout = 30 * time.Second

type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(apiKey, model string) *OpenAIModel {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (m *OpenAIModel) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, modelCallTimeout)
	defer cancel()

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Cliente diz: \"" + userText + "\""},
		},
	})
	if err != nil {
		log.Println("[ai] erro OpenAI:", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		log.Println("[ai] resposta sem choices")
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe manda o áudio para o endpoint de transcrição. Devolve ""
// (sem erro) quando o áudio é só ruído ou o serviço falha — o chamador
// trata como inaudível.
func (m *OpenAIModel) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, modelCallTimeout)
	defer cancel()

	name := "audio.ogg"
	if mimeType == "audio/mpeg" {
		name = "audio.mp3"
	}

	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: name,
	})
	if err != nil {
		log.Println("[ai] erro transcrição:", err)
		return "", err
	}
	return resp.Text, nil
}
