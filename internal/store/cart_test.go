package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docefloco/atendente-ai/internal/models"
)

func TestParseItems(t *testing.T) {
	items := ParseItems("2x Picolé Coco, Suco")
	require.Len(t, items, 2)
	assert.Equal(t, ParsedItem{Name: "Picolé Coco", Quantity: 2}, items[0])
	assert.Equal(t, ParsedItem{Name: "Suco", Quantity: 1}, items[1])
}

func TestParseItemsVariants(t *testing.T) {
	items := ParseItems("3 Açaí 500ml\n1x Picolé Uva\nÁgua")
	require.Len(t, items, 3)
	assert.Equal(t, ParsedItem{Name: "Açaí 500ml", Quantity: 3}, items[0])
	assert.Equal(t, ParsedItem{Name: "Picolé Uva", Quantity: 1}, items[1])
	assert.Equal(t, ParsedItem{Name: "Água", Quantity: 1}, items[2])
}

func TestParseItemsEmpty(t *testing.T) {
	assert.Empty(t, ParseItems(""))
	assert.Empty(t, ParseItems(" , ,\n"))
}

var catalog = []models.Product{
	{ID: "p1", Name: "Picolé Coco", Price: 5},
	{ID: "p2", Name: "Picolé Uva", Price: 5},
	{ID: "p3", Name: "Suco de Laranja", Price: 8},
}

func TestMatchProductExactWins(t *testing.T) {
	p := MatchProduct("picolé coco", catalog)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ID)
}

func TestMatchProductSubstringBothWays(t *testing.T) {
	// texto do cliente contido no nome do catálogo
	p := MatchProduct("suco", catalog)
	require.NotNil(t, p)
	assert.Equal(t, "p3", p.ID)

	// nome do catálogo contido no texto do cliente
	p = MatchProduct("um picolé uva bem gelado", catalog)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID)
}

func TestMatchProductMiss(t *testing.T) {
	assert.Nil(t, MatchProduct("pizza", catalog))
	assert.Nil(t, MatchProduct("", catalog))
}

func TestAggregateCartSumsRepeatedProducts(t *testing.T) {
	out := aggregateCart([]models.CartLine{
		{ProductID: "p1", Name: "Picolé Coco", Quantity: 3},
		{ProductID: "p2", Name: "Suco", Quantity: 1},
		{ProductID: "p1", Name: "Picolé Coco", Quantity: 3},
	})

	require.Len(t, out, 2)
	assert.Equal(t, models.CartLine{ProductID: "p1", Name: "Picolé Coco", Quantity: 6}, out[0])
	assert.Equal(t, models.CartLine{ProductID: "p2", Name: "Suco", Quantity: 1}, out[1])
}

func TestResolveCartFromText(t *testing.T) {
	lines := ResolveCart(nil, "2x Picolé Coco, Suco", catalog)
	require.Len(t, lines, 2)
	assert.Equal(t, models.CartLine{ProductID: "p1", Name: "Picolé Coco", Quantity: 2}, lines[0])
	assert.Equal(t, models.CartLine{ProductID: "p3", Name: "Suco de Laranja", Quantity: 1}, lines[1])
}

func TestResolveCartUnmatchedLineDropped(t *testing.T) {
	lines := ResolveCart(nil, "2x Picolé Coco, 1 Pizza", catalog)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
}

func TestResolveCartStructuredPreferred(t *testing.T) {
	cart := []models.CartLine{
		{ProductID: "p2", Name: "Picolé Uva", Quantity: 3},
		{Name: "suco", Quantity: 0}, // sem id: casa por nome, qty normaliza pra 1
	}
	lines := ResolveCart(cart, "texto ignorado", catalog)
	require.Len(t, lines, 2)
	assert.Equal(t, models.CartLine{ProductID: "p2", Name: "Picolé Uva", Quantity: 3}, lines[0])
	assert.Equal(t, models.CartLine{ProductID: "p3", Name: "Suco de Laranja", Quantity: 1}, lines[1])
}
