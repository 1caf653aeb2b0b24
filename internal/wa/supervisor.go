package wa

import (
	"context"
	"log"
	"sync"
	"time"
)

const reconnectDelay = 10 * time.Second

// Supervisor é o dono da sessão: guarda o status corrente, agenda uma
// única reconexão pendente quando a sessão cai e expõe as mensagens
// recebidas como um canal consumido pelo engine.
type Supervisor struct {
	gw             Gateway
	reconnectDelay time.Duration

	mu        sync.Mutex
	status    Status
	reconnect *time.Timer
	loggedOut bool
	onStatus  func(Status)

	messages chan InboundMessage
}

func NewSupervisor(gw Gateway) *Supervisor {
	return &Supervisor{
		gw:             gw,
		reconnectDelay: reconnectDelay,
		status:         StatusDesconectado,
		messages:       make(chan InboundMessage, 256),
	}
}

// Messages é o fluxo de mensagens recebidas. Um único consumidor.
func (s *Supervisor) Messages() <-chan InboundMessage { return s.messages }

// OnStatus registra o observador de transições. Chamado fora do lock.
func (s *Supervisor) OnStatus(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Supervisor) setStatus(st Status) {
	s.mu.Lock()
	changed := s.status != st
	s.status = st
	fn := s.onStatus
	s.mu.Unlock()

	if changed && fn != nil {
		fn(st)
	}
}

// Initialize pede conexão ao gateway. Falha vira erro_inicializacao e
// agenda reconexão.
func (s *Supervisor) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.loggedOut = false
	s.mu.Unlock()

	s.cancelReconnect()
	log.Println("[wa] inicializando sessão...")
	if err := s.gw.Connect(ctx); err != nil {
		log.Println("[wa] falha na inicialização:", err)
		s.setStatus(StatusErroInit)
		s.scheduleReconnect()
	}
}

// Logout encerra a sessão de vez: cancela reconexão pendente e força
// desconectado, mesmo se o gateway reclamar. A sessão fica deslogada
// até o próximo Initialize explícito — nenhum evento de status agenda
// reconexão nesse meio tempo (o gateway ecoa o logout como um evento
// de desconexão).
func (s *Supervisor) Logout(ctx context.Context) {
	s.mu.Lock()
	s.loggedOut = true
	s.mu.Unlock()

	s.cancelReconnect()
	_ = s.gw.Logout(ctx)
	s.setStatus(StatusDesconectado)
}

// HandleStatus processa um evento de status vindo do gateway.
// Desconexão não solicitada agenda reconexão.
func (s *Supervisor) HandleStatus(st Status) {
	s.setStatus(st)
	if st == StatusDesconectado || st == StatusErroInit {
		s.mu.Lock()
		loggedOut := s.loggedOut
		s.mu.Unlock()
		if !loggedOut {
			s.scheduleReconnect()
		}
	}
}

// HandleMessage enfileira uma mensagem recebida para o consumidor.
// Fila cheia descarta com log — melhor perder uma mensagem do que
// travar o webhook.
func (s *Supervisor) HandleMessage(msg InboundMessage) {
	select {
	case s.messages <- msg:
	default:
		log.Printf("[wa] fila cheia, mensagem de %s descartada", msg.From)
	}
}

// SendText falha (false) sempre que a sessão não está conectada.
func (s *Supervisor) SendText(ctx context.Context, to, text string) bool {
	if s.Status() != StatusConectado {
		return false
	}
	if err := s.gw.SendText(ctx, to, text); err != nil {
		log.Printf("[wa] erro envio para %s: %v", to, err)
		return false
	}
	return true
}

func (s *Supervisor) SendImage(ctx context.Context, to, path, caption string) bool {
	if s.Status() != StatusConectado {
		return false
	}
	if err := s.gw.SendImage(ctx, to, path, caption); err != nil {
		log.Printf("[wa] erro envio de imagem para %s: %v", to, err)
		return false
	}
	return true
}

// scheduleReconnect agenda uma única tentativa; uma nova chamada
// substitui a anterior.
func (s *Supervisor) scheduleReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconnect != nil {
		s.reconnect.Stop()
	}
	s.reconnect = time.AfterFunc(s.reconnectDelay, func() {
		log.Println("[wa] tentando reconectar...")
		s.Initialize(context.Background())
	})
}

func (s *Supervisor) cancelReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconnect != nil {
		s.reconnect.Stop()
		s.reconnect = nil
	}
}
