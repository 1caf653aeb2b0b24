package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docefloco/atendente-ai/internal/models"
)

func TestLifecycleAdvanceWithNotify(t *testing.T) {
	st := newFakeStore()
	st.orders["o1"] = &models.Order{
		ID: "o1", ShortID: "4590", ClientID: "c1", ClientName: "Maria",
		Status: models.StatusPendente, DeliveryMethod: "Retirada",
	}
	tr := &fakeTransport{}
	ev := &recordedEvents{}
	lc := NewLifecycle(st, tr, ev)

	next, err := lc.Advance(context.Background(), "o1", true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparo, next)
	assert.Equal(t, models.StatusPreparo, st.statusUpdates["o1"])
	assert.Equal(t, []models.Status{models.StatusPreparo}, ev.statuses)

	// status mudou E uma mensagem foi enviada e registrada
	require.Len(t, tr.texts, 1)
	assert.Contains(t, tr.texts[0], "preparado")
	require.Len(t, st.loggedOutbound(), 1)
	assert.True(t, st.loggedOutbound()[0].IsAutomated)
}

func TestLifecycleNotifyFailureKeepsStatus(t *testing.T) {
	st := newFakeStore()
	st.orders["o1"] = &models.Order{
		ID: "o1", ClientID: "c1", Status: models.StatusPendente,
	}
	tr := &fakeTransport{failSend: true}
	lc := NewLifecycle(st, tr, nil)

	next, err := lc.Advance(context.Background(), "o1", true)
	require.NoError(t, err)

	// falha no envio não desfaz o status, mas também não loga saída
	assert.Equal(t, models.StatusPreparo, next)
	assert.Equal(t, models.StatusPreparo, st.statusUpdates["o1"])
	assert.Empty(t, st.loggedOutbound())
}

func TestLifecycleAdvanceWithoutNotify(t *testing.T) {
	st := newFakeStore()
	st.orders["o1"] = &models.Order{ID: "o1", ClientID: "c1", Status: models.StatusPreparo}
	tr := &fakeTransport{}
	lc := NewLifecycle(st, tr, nil)

	next, err := lc.Advance(context.Background(), "o1", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPronto, next)
	assert.Empty(t, tr.texts)
}

func TestLifecycleNoNextState(t *testing.T) {
	st := newFakeStore()
	st.orders["o1"] = &models.Order{ID: "o1", Status: models.StatusConcluido}
	lc := NewLifecycle(st, &fakeTransport{}, nil)

	_, err := lc.Advance(context.Background(), "o1", false)
	assert.Error(t, err)
	assert.Empty(t, st.statusUpdates)
}

func TestNotificationText(t *testing.T) {
	assert.Contains(t, NotificationText(models.StatusPreparo, "Maria", "Retirada"), "Maria")
	assert.Equal(t, "🛵 Saiu para entrega!", NotificationText(models.StatusPronto, "Maria", "Entrega"))
	assert.Equal(t, "🎁 Pronto para retirada!", NotificationText(models.StatusPronto, "Maria", "Retirada"))
	assert.Equal(t, "💜 Pedido finalizado! Obrigado!", NotificationText(models.StatusConcluido, "Maria", ""))
	assert.Equal(t, "", NotificationText(models.StatusPendente, "Maria", ""))
}
