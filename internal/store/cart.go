package store

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docefloco/atendente-ai/internal/models"
)

// "2x Picolé Coco" / "2 Picolé Coco" / "Picolé Coco"
var qtyRe = regexp.MustCompile(`^(\d+)\s*[xX]?\s*(.+)$`)

// ParsedItem é uma linha de pedido em texto livre já separada em
// quantidade e descrição.
type ParsedItem struct {
	Name     string
	Quantity int
}

// ParseItems quebra um texto livre de itens em linhas (quebra de linha ou
// vírgula) e extrai o token de quantidade do começo de cada uma.
// Quantidade ausente vale 1.
func ParseItems(text string) []ParsedItem {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})

	var out []ParsedItem
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		item := ParsedItem{Name: f, Quantity: 1}
		if m := qtyRe.FindStringSubmatch(f); m != nil {
			if q, err := strconv.Atoi(m[1]); err == nil && q > 0 {
				item.Quantity = q
				item.Name = strings.TrimSpace(m[2])
			}
		}
		out = append(out, item)
	}
	return out
}

// MatchProduct procura um produto pelo nome: igualdade primeiro, depois
// contém-nos-dois-sentidos, sempre sem caixa. O primeiro que casar ganha —
// a busca é deliberadamente frouxa, conveniência vale mais que precisão
// aqui (nomes curtos podem casar errado; comportamento aceito).
func MatchProduct(name string, products []models.Product) *models.Product {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for i := range products {
		if strings.ToLower(products[i].Name) == needle {
			return &products[i]
		}
	}
	for i := range products {
		have := strings.ToLower(products[i].Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &products[i]
		}
	}
	return nil
}

// aggregateCart soma as quantidades de linhas repetidas do mesmo produto,
// preservando a ordem da primeira ocorrência. A validação de estoque
// precisa enxergar o total por produto, não linha a linha.
func aggregateCart(cart []models.CartLine) []models.CartLine {
	idx := make(map[string]int, len(cart))
	var out []models.CartLine
	for _, line := range cart {
		if i, ok := idx[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		idx[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

// ResolveCart transforma o pedido (carrinho estruturado ou texto livre)
// em linhas ligadas ao catálogo. Linhas sem correspondência ficam de fora
// do carrinho: seguem só como texto no pedido, sem baixa de estoque.
func ResolveCart(cart []models.CartLine, itemsText string, products []models.Product) []models.CartLine {
	var out []models.CartLine

	if len(cart) > 0 {
		for _, line := range cart {
			if line.Quantity <= 0 {
				line.Quantity = 1
			}
			if line.ProductID == "" {
				if p := MatchProduct(line.Name, products); p != nil {
					line.ProductID = p.ID
					line.Name = p.Name
				} else {
					continue
				}
			}
			out = append(out, line)
		}
		return out
	}

	for _, item := range ParseItems(itemsText) {
		if p := MatchProduct(item.Name, products); p != nil {
			out = append(out, models.CartLine{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  item.Quantity,
			})
		}
	}
	return out
}
