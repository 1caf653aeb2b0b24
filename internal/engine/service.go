package engine

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/docefloco/atendente-ai/internal/ai"
	"github.com/docefloco/atendente-ai/internal/models"
	"github.com/docefloco/atendente-ai/internal/store"
	"github.com/docefloco/atendente-ai/internal/wa"
)

var weekdays = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// Service orquestra o atendimento: mensagem entra, passa pelo buffer de
// conversa, vira contexto de IA, e o comando interpretado mexe em
// pedido/estoque e responde o cliente.
type Service struct {
	store     Store
	intent    Intent
	transport Transport
	events    EventSink
	buffer    *Buffer
	now       func() time.Time

	// cliente corrente de cada conversa, para o consumidor do buffer
	convClients sync.Map // chatID -> *models.Client
}

func NewService(st Store, intent Intent, transport Transport, events EventSink, flushDelay time.Duration) *Service {
	if events == nil {
		events = LogSink{}
	}
	s := &Service{
		store:     st,
		intent:    intent,
		transport: transport,
		events:    events,
		now:       time.Now,
	}
	s.buffer = NewBuffer(flushDelay, s.onFlush)
	return s
}

// Run consome o fluxo de mensagens do transporte até o contexto fechar.
// Cada mensagem é despachada sem bloquear o loop de consumo.
func (s *Service) Run(ctx context.Context, inbound <-chan wa.InboundMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			go s.HandleIncoming(ctx, msg)
		}
	}
}

// HandleIncoming registra a mensagem e a coloca na fila de debounce.
// Nada aqui é fatal: erro é logado e a conversa segue na próxima mensagem.
func (s *Service) HandleIncoming(ctx context.Context, msg wa.InboundMessage) {
	client, err := s.store.GetOrCreateClient(ctx, msg.From, msg.SenderName, "", "")
	if err != nil {
		log.Println("[engine] erro ao resolver cliente:", err)
		return
	}

	body := msg.Body
	isAudio := false
	switch msg.Type {
	case "ptt", "audio":
		isAudio = true
		audio, err := base64.StdEncoding.DecodeString(msg.MediaB64)
		if err != nil {
			body = "[ÁUDIO INAUDÍVEL]"
		} else {
			body = s.intent.TranscribeAudio(ctx, audio, msg.MimeType)
		}
	case "chat", "":
	default:
		// figurinha, localização etc. não entram no atendimento
		return
	}

	quoted := ""
	if msg.QuotedBody != "" {
		quoted = fmt.Sprintf("[CLIENTE RESPONDEU À MENSAGEM: %q]", msg.QuotedBody)
	}

	logged := body
	if quoted != "" {
		logged += "\n" + quoted
	}
	_ = s.store.LogMessage(ctx, models.ChatMessage{
		ClientID: client.ID,
		ChatID:   msg.From,
		Body:     logged,
		IsAudio:  isAudio,
	})

	if client.AIPaused {
		return
	}

	s.convClients.Store(msg.From, client)
	s.buffer.Ingest(msg.From, body, quoted)
}

func (s *Service) onFlush(chatID, text, quoted string) {
	v, ok := s.convClients.Load(chatID)
	if !ok {
		log.Println("[engine] flush sem cliente associado:", chatID)
		return
	}
	s.processReply(context.Background(), chatID, v.(*models.Client), text, quoted)
}

func (s *Service) processReply(ctx context.Context, chatID string, client *models.Client, userText, quoted string) {
	history, _ := s.store.OrderHistory(ctx, client.ID, 5)
	chatRecent, _ := s.store.RecentChat(ctx, client.ID, 8)
	products, err := s.store.ActiveProducts(ctx)
	if err != nil {
		log.Println("[engine] erro ao carregar vitrine:", err)
	}
	cfg := s.store.Settings(ctx)

	openOrder := ""
	if o, err := s.store.LatestPendingOrder(ctx, client.ID); err == nil && o != nil {
		openOrder = fmt.Sprintf("Pedido #%s: %s (R$ %.2f)", o.ShortID, o.Items, o.Total)
	}

	today := s.now()
	pctx := ai.PromptContext{
		ClientName:     client.Name,
		History:        history,
		ChatRecent:     chatRecent,
		MenuJSON:       store.MenuSnapshot(products),
		TodayDate:      today.Format("02/01/2006"),
		DayName:        weekdays[today.Weekday()],
		ForcedContext:  quoted,
		LastAddress:    client.LastAddress,
		OpenOrder:      openOrder,
		StoreName:      cfg.StoreName,
		StoreAddress:   cfg.Address,
		DeliveryFee:    cfg.DeliveryFee,
		MinDeliveryQty: cfg.MinDeliveryQty,
		AcaiSizes:      cfg.AcaiSizes,
		FreeAddons:     cfg.FreeAddons,
		PaidAddons:     cfg.PaidAddons,
	}

	reply := s.intent.Resolve(ctx, pctx, userText)
	finalReply := reply.Text

	if reply.Command != nil {
		log.Printf("[engine] executando comando: %s", reply.Command.Kind)
		finalReply = s.execute(ctx, chatID, client, reply.Command, finalReply)
	}

	if strings.TrimSpace(finalReply) != "" {
		if s.transport.SendText(ctx, chatID, finalReply) {
			_ = s.store.LogMessage(ctx, models.ChatMessage{
				ClientID:    client.ID,
				ChatID:      chatID,
				FromMe:      true,
				Body:        finalReply,
				IsAutomated: true,
			})
		}
	}

	if reply.Actions.SendAcaiMenu && cfg.AcaiImagePath != "" {
		_ = s.transport.SendImage(ctx, chatID, cfg.AcaiImagePath, "💜 Tabela de Açaí")
	}
	if reply.Actions.SendVitrine {
		s.sendDailyShowcase(ctx, chatID)
	}
}

// execute aplica o comando da IA e devolve a resposta final (a da IA, ou
// uma gerada aqui quando a IA não mandou texto).
func (s *Service) execute(ctx context.Context, chatID string, client *models.Client, cmd *ai.Command, reply string) string {
	switch cmd.Kind {
	case ai.CmdCreateOrder:
		return s.createOrder(ctx, client, cmd.Create, reply)
	case ai.CmdScheduleOrder:
		return s.scheduleOrder(ctx, client, cmd.Schedule, reply)
	case ai.CmdUpdateOrder, ai.CmdUpdateLastOrder:
		return s.updateOrder(ctx, client, cmd.Update, reply)
	case ai.CmdSendImage:
		s.sendProductImage(ctx, chatID, cmd.Image.ProductID)
		return reply
	}
	return reply
}

func (s *Service) createOrder(ctx context.Context, client *models.Client, cmd *ai.CreateOrder, reply string) string {
	// 4 dígitos do timestamp. Colisão é possível sob carga e tolerada:
	// a busca por short ID pega o mais recente.
	shortID := fmt.Sprintf("%04d", s.now().UnixMilli()%10000)

	if strings.EqualFold(cmd.Method, "Entrega") && cmd.Address != "" {
		_ = s.store.SetLastAddress(ctx, client.ID, cmd.Address)
	}

	cart := make([]models.CartLine, 0, len(cmd.Cart))
	for _, it := range cmd.Cart {
		cart = append(cart, models.CartLine{ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity})
	}

	res, err := s.store.CreateStandardOrder(ctx, store.OrderSpec{
		ClientID:   client.ID,
		ClientName: client.Name,
		Items:      cmd.Items,
		Cart:       cart,
		Total:      cmd.Total,
		Method:     cmd.Method,
		Payment:    cmd.Payment,
		Address:    cmd.Address,
		ShortID:    shortID,
	})
	if err != nil {
		var stockErr *store.StockError
		if errors.As(err, &stockErr) {
			return "⚠️ Ops! Mil desculpas, mas o último item acabou de ser vendido. 😔 Posso oferecer outra opção?"
		}
		log.Println("[engine] falha ao criar pedido:", err)
		return reply
	}

	s.events.OrderCreated(res.OrderID, res.ShortID)
	if reply == "" {
		reply = fmt.Sprintf("📝 Pedido #%s confirmado! Total: R$ %.2f.", res.ShortID, cmd.Total)
	}
	return reply
}

func (s *Service) scheduleOrder(ctx context.Context, client *models.Client, cmd *ai.ScheduleOrder, reply string) string {
	res, err := s.store.CreateScheduledOrder(ctx, store.ScheduledSpec{
		ClientID:    client.ID,
		ClientName:  client.Name,
		Items:       cmd.Items,
		Total:       cmd.Total,
		Date:        cmd.Date,
		Method:      cmd.Method,
		Address:     cmd.Address,
		LoanedItems: cmd.LoanedItems,
		ReturnDate:  cmd.ReturnDate,
	})
	if err != nil {
		log.Println("[engine] falha ao agendar encomenda:", err)
		return reply
	}
	if res.Note == "duplicate_prevented" {
		s.events.DuplicatePrevented(client.ID)
		return reply
	}
	if reply == "" {
		reply = "🗓️ Agendado para " + brDate(cmd.Date) + "!"
	}
	return reply
}

func (s *Service) updateOrder(ctx context.Context, client *models.Client, cmd *ai.UpdateOrder, reply string) string {
	order, err := s.store.FindOrderForUpdate(ctx, client.ID, cmd.OrderID, "")
	if err != nil {
		log.Println("[engine] erro ao localizar pedido:", err)
		return reply
	}
	if order == nil {
		return "Não encontrei o pedido para alterar. Pode me confirmar o número dele?"
	}

	patch := store.OrderPatch{NoteAppend: "Pedido Atualizado"}
	if cmd.NewAddress != "" {
		patch.Address = &cmd.NewAddress
		patch.NoteAppend = "Endereço Atualizado"
		_ = s.store.SetLastAddress(ctx, client.ID, cmd.NewAddress)
	}
	if cmd.NewItems != "" {
		patch.Items = &cmd.NewItems
		patch.NoteAppend = "Itens Alterados"
		if cmd.HasTotal {
			patch.Total = &cmd.NewTotal
		}
	}

	if err := s.store.UpdateOrder(ctx, order.ID, patch); err != nil {
		log.Println("[engine] falha ao atualizar pedido:", err)
		return reply
	}
	if reply == "" {
		reply = fmt.Sprintf("✅ Pedido #%s atualizado com sucesso!", order.ShortID)
	}
	return reply
}

func (s *Service) sendProductImage(ctx context.Context, chatID, productID string) {
	path, name, err := s.store.ProductImage(ctx, productID)
	if err != nil || path == "" {
		return
	}
	_ = s.transport.SendImage(ctx, chatID, path, "📸 "+name)
}

func (s *Service) sendDailyShowcase(ctx context.Context, chatID string) {
	products, err := s.store.ActiveProducts(ctx)
	if err != nil {
		return
	}

	var withImage []models.Product
	for _, p := range products {
		if p.Quantity > 0 && p.ImagePath != "" {
			withImage = append(withImage, p)
		}
	}
	if len(withImage) == 0 {
		return
	}

	_ = s.transport.SendText(ctx, chatID, "📸 *Vitrine de Hoje:*")
	for _, p := range withImage {
		caption := fmt.Sprintf("%s\n💰 R$ %.2f\n📦 Restam: %dun", p.Name, p.Price, p.Quantity)
		_ = s.transport.SendImage(ctx, chatID, p.ImagePath, caption)
	}
	_ = s.transport.SendText(ctx, chatID, "😋 Escolheu? É só me falar o nome!")
}

// brDate vira "2026-09-20" em "20/09/2026"; formatos inesperados passam direto.
func brDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
