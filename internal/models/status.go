package models

// Status — ciclo de vida do pedido. O fluxo principal só anda para frente,
// um passo por vez. Agendado fica fora do fluxo (encomendas).
type Status string

const (
	StatusPendente  Status = "Pendente"
	StatusPreparo   Status = "Preparo"
	StatusPronto    Status = "Pronto/Envio"
	StatusConcluido Status = "Concluído"
	StatusAgendado  Status = "Agendado"
)

// sinônimos legados que ainda existem em pedidos antigos no banco
var legacyStatus = map[string]Status{
	"Entregue":   StatusConcluido,
	"Finalizado": StatusConcluido,
}

// NormalizeStatus converte o texto cru do banco para o enum, aplicando os
// sinônimos legados. Desconhecidos viram Pendente.
func NormalizeStatus(raw string) Status {
	if s, ok := legacyStatus[raw]; ok {
		return s
	}
	switch Status(raw) {
	case StatusPendente, StatusPreparo, StatusPronto, StatusConcluido, StatusAgendado:
		return Status(raw)
	}
	return StatusPendente
}

// transições legais: exatamente um passo para frente
var forward = map[Status]Status{
	StatusPendente: StatusPreparo,
	StatusPreparo:  StatusPronto,
	StatusPronto:   StatusConcluido,
}

// Next devolve o próximo estado do fluxo principal, ou falso se o pedido
// já está no fim (ou fora do fluxo, como Agendado).
func (s Status) Next() (Status, bool) {
	n, ok := forward[s]
	return n, ok
}

// CanTransition diz se from → to é um passo legal.
func CanTransition(from, to Status) bool {
	n, ok := forward[from]
	return ok && n == to
}
