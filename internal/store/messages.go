package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/docefloco/atendente-ai/internal/models"
)

// LogMessage grava uma linha do histórico de conversa do cliente.
func (s *Store) LogMessage(ctx context.Context, msg models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, client_id, chat_id, from_me, body, is_audio, is_automated, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, msg.ID, msg.ClientID, msg.ChatID, msg.FromMe, msg.Body,
		msg.IsAudio, msg.IsAutomated, msg.Read)
	return err
}

// RecentChat devolve os últimos turnos da conversa formatados para o
// prompt, em ordem cronológica. Turnos que carregam marcador de comando
// ficam de fora — a IA não deve ver os próprios sentinelas antigos.
func (s *Store) RecentChat(ctx context.Context, clientID string, limit int) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_me, body FROM messages
		WHERE client_id = $1 ORDER BY ts DESC LIMIT $2
	`, clientID, limit)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var turns []string
	for rows.Next() {
		var fromMe bool
		var body string
		if err := rows.Scan(&fromMe, &body); err != nil {
			return "", err
		}
		if strings.Contains(body, "###JSON###") {
			continue
		}
		who := "Cliente"
		if fromMe {
			who = "Atendente"
		}
		turns = append(turns, who+": "+body)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	// veio do banco em ordem decrescente
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return strings.Join(turns, "\n"), nil
}

func (s *Store) MessagesByClient(ctx context.Context, clientID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, chat_id, from_me, body, is_audio, is_automated, read, ts
		FROM messages WHERE client_id = $1 ORDER BY ts DESC LIMIT $2
	`, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ClientID, &m.ChatID, &m.FromMe, &m.Body,
			&m.IsAudio, &m.IsAutomated, &m.Read, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
