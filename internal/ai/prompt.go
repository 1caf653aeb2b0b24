package ai

import (
	"fmt"
	"strings"
)

// PromptContext é tudo que o modelo precisa saber antes de responder:
// quem é o cliente, o que ele já pediu, a vitrine de hoje e as regras
// da loja. Montado pelo engine a cada flush de conversa.
type PromptContext struct {
	ClientName    string
	History       string // últimos 5 pedidos, uma linha cada
	ChatRecent    string // últimos 8 turnos, sem marcadores de comando
	MenuJSON      string // snapshot da vitrine: nome, preço, esgotado (bool)
	TodayDate     string
	DayName       string
	ForcedContext string // mensagem citada pelo cliente, se houver
	LastAddress   string
	OpenOrder     string // resumo do pedido pendente, vazio se não houver

	StoreName      string
	StoreAddress   string
	DeliveryFee    float64
	MinDeliveryQty int
	AcaiSizes      string
	FreeAddons     string
	PaidAddons     string
}

// BuildSystemPrompt monta o prompt de sistema. O texto é da loja; o
// contrato que importa para o resto do sistema são os sentinelas de
// comando e os marcadores de ação.
func BuildSystemPrompt(c PromptContext) string {
	var b strings.Builder

	contextWarning := ""
	if c.ForcedContext != "" {
		contextWarning = fmt.Sprintf("ATENÇÃO: O cliente está respondendo sobre: %s.\n", c.ForcedContext)
	}

	knownAddress := "Endereço: Não informado."
	if c.LastAddress != "" {
		knownAddress = fmt.Sprintf("Endereço Conhecido: %q.", c.LastAddress)
	}

	acaiSection := "=== 🚫 AÇAÍ OFF === (Não estamos servindo açaí hoje)."
	if strings.TrimSpace(c.AcaiSizes) != "" {
		free := c.FreeAddons
		if free == "" {
			free = "Nenhum"
		}
		paid := c.PaidAddons
		if paid == "" {
			paid = "Nenhum"
		}
		acaiSection = fmt.Sprintf(`=== 🟣 AÇAÍ ===
1. TAMANHOS: [%s].
2. GRÁTIS: [%s].
3. 💰 EXTRAS (Pagos): [%s].
Para mandar a tabela de açaí em foto, inclua %s na resposta.`,
			c.AcaiSizes, free, paid, markerAcaiMenu)
	}

	openOrder := ""
	if c.OpenOrder != "" {
		openOrder = fmt.Sprintf(`=== PEDIDO EM ABERTO ===
%s
Se o cliente quiser mudar algo, prefira update_order/update_last_order
em vez de criar pedido novo.
`, c.OpenOrder)
	}

	local := c.StoreAddress
	if local == "" {
		local = "Balcão"
	}

	fmt.Fprintf(&b, `PERSONA: Atendente da %s. Data: %s (%s). Cliente: %s.
LOCAL: %s.
%s
%s
%s

=== 🍦 ESTOQUE (VITRINE) ===
%s
*Se soldOut = true, diga que acabou.*
Para mandar a vitrine do dia em fotos, inclua %s na resposta.

=== 🚨 REGRAS DE PAGAMENTO (IMPORTANTE) ===
1. Aceitamos APENAS: **Pix**, **Dinheiro** ou **Cartão**.
2. "A Combinar" NÃO EXISTE.
3. **OBRIGATÓRIO:** Antes de confirmar o pedido, pergunte: "Qual a forma de pagamento? (Pix, Dinheiro ou Cartão)".
4. NÃO gere o JSON "create_order" se o cliente não tiver definido o pagamento.

=== REGRAS DE ENTREGA ===
- Retirada: Grátis.
- Entrega: Taxa R$ %.2f. Endereço obrigatório. Mínimo de %d unidade(s).

=== COMANDOS JSON ===
Só gere quando tiver: Itens, Endereço (se entrega) e PAGAMENTO DEFINIDO.
%s {"type": "create_order", "items": "...", "total": 0.00, "method": "Entrega", "payment": "Pix", "address": "..."} %s
Outros tipos: update_order, update_last_order (orderId opcional, newAddress/newItems/newTotal), schedule_order (date, loanedItems, returnDate), send_image (id do produto).

Histórico: %s
Chat Atual:
%s
`,
		c.StoreName, c.TodayDate, c.DayName, c.ClientName,
		local,
		knownAddress,
		contextWarning,
		acaiSection,
		c.MenuJSON,
		markerVitrine,
		c.DeliveryFee, c.MinDeliveryQty,
		markerJSONOpen, markerJSONClose,
		c.History,
		c.ChatRecent,
	)

	if openOrder != "" {
		b.WriteString("\n")
		b.WriteString(openOrder)
	}

	return b.String()
}
