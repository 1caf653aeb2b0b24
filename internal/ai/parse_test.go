package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseCreateOrder(t *testing.T) {
	raw := `Fechado! Seu pedido já vai. ###JSON### {"type": "create_order", "items": "2x Picolé Coco", "total": 10.00, "method": "Entrega", "payment": "pix", "address": "Rua A, 10"} ###ENDJSON###`

	r := ParseResponse(raw)

	assert.Equal(t, "Fechado! Seu pedido já vai.", r.Text)
	require.NotNil(t, r.Command)
	require.Equal(t, CmdCreateOrder, r.Command.Kind)
	require.NotNil(t, r.Command.Create)
	assert.Equal(t, "2x Picolé Coco", r.Command.Create.Items)
	assert.Equal(t, 10.0, r.Command.Create.Total)
	// pagamento normalizado para title case
	assert.Equal(t, "Pix", r.Command.Create.Payment)
}

func TestParseResponseInvalidPaymentDropsCommand(t *testing.T) {
	for _, pay := range []string{"talvez", "a combinar", "", "boleto"} {
		raw := `Qual a forma de pagamento? ###JSON### {"type": "create_order", "items": "1x Suco", "total": 5, "payment": "` + pay + `"} ###ENDJSON###`
		r := ParseResponse(raw)
		assert.Nil(t, r.Command, "payment=%q", pay)
		assert.Equal(t, "Qual a forma de pagamento?", r.Text, "payment=%q", pay)
	}
}

func TestParseResponsePaymentCaseInsensitive(t *testing.T) {
	cases := map[string]string{
		"PIX": "Pix", "dinheiro": "Dinheiro", "CARTÃO": "Cartão", "cartao": "Cartão",
	}
	for in, want := range cases {
		raw := `Ok! ###JSON### {"type": "create_order", "items": "x", "payment": "` + in + `"} ###ENDJSON###`
		r := ParseResponse(raw)
		require.NotNil(t, r.Command, "payment=%q", in)
		assert.Equal(t, want, r.Command.Create.Payment)
	}
}

func TestParseResponseMalformedJSONKeepsText(t *testing.T) {
	raw := `Anotado! ###JSON### {"type": "create_order", ###ENDJSON###`
	r := ParseResponse(raw)
	assert.Nil(t, r.Command)
	assert.Equal(t, "Anotado!", r.Text)
}

func TestParseResponseMarkers(t *testing.T) {
	raw := "Olha nossa tabela! ###SEND_ACAI_MENU### E a vitrine: ###SEND_DAILY_VITRINE###"
	r := ParseResponse(raw)
	assert.True(t, r.Actions.SendAcaiMenu)
	assert.True(t, r.Actions.SendVitrine)
	assert.NotContains(t, r.Text, "###")
	assert.Equal(t, "Olha nossa tabela!  E a vitrine:", r.Text)
}

func TestParseResponseUpdateOrderNumericID(t *testing.T) {
	raw := `Atualizo já! ###JSON### {"type": "update_order", "orderId": 4590, "newAddress": "Rua B, 20"} ###ENDJSON###`
	r := ParseResponse(raw)
	require.NotNil(t, r.Command)
	require.Equal(t, CmdUpdateOrder, r.Command.Kind)
	assert.Equal(t, "4590", r.Command.Update.OrderID)
	assert.Equal(t, "Rua B, 20", r.Command.Update.NewAddress)
	assert.False(t, r.Command.Update.HasTotal)
}

func TestParseResponseScheduleOrder(t *testing.T) {
	raw := `🗓️ ###JSON### {"type": "schedule_order", "items": "100 picolés", "total": 250, "date": "2026-09-20", "loanedItems": "1 Caixa Isopor 50L", "returnDate": "2026-09-22"} ###ENDJSON###`
	r := ParseResponse(raw)
	require.NotNil(t, r.Command)
	require.Equal(t, CmdScheduleOrder, r.Command.Kind)
	assert.Equal(t, "2026-09-20", r.Command.Schedule.Date)
	assert.Equal(t, "1 Caixa Isopor 50L", r.Command.Schedule.LoanedItems)
}

func TestParseResponseUnknownTypeDiscarded(t *testing.T) {
	raw := `Oi! ###JSON### {"type": "delete_everything"} ###ENDJSON###`
	r := ParseResponse(raw)
	assert.Nil(t, r.Command)
	assert.Equal(t, "Oi!", r.Text)
}

func TestParseResponsePlainText(t *testing.T) {
	r := ParseResponse("  Temos picolé de coco e uva!  ")
	assert.Nil(t, r.Command)
	assert.Equal(t, "Temos picolé de coco e uva!", r.Text)
	assert.False(t, r.Actions.SendAcaiMenu)
	assert.False(t, r.Actions.SendVitrine)
}

type stubModel struct {
	out string
	err error
}

func (s *stubModel) Generate(context.Context, string, string) (string, error) {
	return s.out, s.err
}
func (s *stubModel) Transcribe(context.Context, []byte, string) (string, error) {
	return s.out, s.err
}

func TestResolveFallbackOnModelError(t *testing.T) {
	c := NewClient(&stubModel{err: errors.New("timeout")})
	r := c.Resolve(context.Background(), PromptContext{}, "oi")
	assert.Equal(t, fallbackText, r.Text)
	assert.Nil(t, r.Command)
	assert.Equal(t, Actions{}, r.Actions)
}

func TestResolveFallbackOnEmptyOutput(t *testing.T) {
	c := NewClient(&stubModel{out: "   "})
	r := c.Resolve(context.Background(), PromptContext{}, "oi")
	assert.Equal(t, fallbackText, r.Text)
	assert.Nil(t, r.Command)
}

func TestTranscribeAudio(t *testing.T) {
	c := NewClient(&stubModel{out: "quero dois picolés"})
	assert.Equal(t, "[ÁUDIO]: quero dois picolés", c.TranscribeAudio(context.Background(), nil, "audio/ogg"))

	c = NewClient(&stubModel{err: errors.New("boom")})
	assert.Equal(t, "[ÁUDIO INAUDÍVEL]", c.TranscribeAudio(context.Background(), nil, "audio/ogg"))

	c = NewClient(&stubModel{out: "[INAUDÍVEL]"})
	assert.Equal(t, "[ÁUDIO INAUDÍVEL]", c.TranscribeAudio(context.Background(), nil, "audio/ogg"))
}
