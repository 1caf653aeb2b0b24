package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"Pendente", StatusPendente},
		{"Preparo", StatusPreparo},
		{"Pronto/Envio", StatusPronto},
		{"Concluído", StatusConcluido},
		{"Agendado", StatusAgendado},
		{"Entregue", StatusConcluido},
		{"Finalizado", StatusConcluido},
		{"qualquer coisa", StatusPendente},
		{"", StatusPendente},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeStatus(c.raw), "raw=%q", c.raw)
	}
}

func TestStatusNext(t *testing.T) {
	n, ok := StatusPendente.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusPreparo, n)

	n, ok = StatusPreparo.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusPronto, n)

	n, ok = StatusPronto.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusConcluido, n)

	_, ok = StatusConcluido.Next()
	assert.False(t, ok)

	_, ok = StatusAgendado.Next()
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPendente, StatusPreparo))
	assert.True(t, CanTransition(StatusPreparo, StatusPronto))
	assert.True(t, CanTransition(StatusPronto, StatusConcluido))

	// sem pulos nem volta
	assert.False(t, CanTransition(StatusPendente, StatusPronto))
	assert.False(t, CanTransition(StatusPreparo, StatusPendente))
	assert.False(t, CanTransition(StatusConcluido, StatusPendente))
	assert.False(t, CanTransition(StatusAgendado, StatusPreparo))
}
