package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/docefloco/atendente-ai/internal/models"
)

// GetOrCreateClient acha o cliente por qualquer variação do telefone ou
// cria um novo. Se uma chamada posterior trouxer nome melhor que o
// placeholder "Cliente XXXX", ou um endereço que o cadastro não tinha,
// o registro é atualizado.
func (s *Store) GetOrCreateClient(ctx context.Context, rawPhone, name, countryCode, address string) (*models.Client, error) {
	clean := CleanPhone(rawPhone)
	if clean == "" {
		return nil, errors.New("telefone vazio")
	}
	if countryCode == "" {
		countryCode = "55"
	}

	var c models.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, country_code, address, last_address, ai_paused, created_at
		FROM clients
		WHERE phone = ANY($1)
		LIMIT 1
	`, pq.Array(PhoneCandidates(rawPhone))).Scan(
		&c.ID, &c.Name, &c.Phone, &c.CountryCode,
		&c.Address, &c.LastAddress, &c.AIPaused, &c.CreatedAt,
	)

	switch {
	case err == nil:
		updated := false
		if name != "" && name != "Cliente" && name != c.Name && strings.HasPrefix(c.Name, "Cliente ") {
			c.Name = name
			updated = true
		}
		if address != "" && c.Address == "" {
			c.Address = address
			c.LastAddress = address
			updated = true
		}
		if updated {
			_, err = s.db.ExecContext(ctx, `
				UPDATE clients SET name = $1, address = $2, last_address = $3 WHERE id = $4
			`, c.Name, c.Address, c.LastAddress, c.ID)
			if err != nil {
				return nil, err
			}
		}
		return &c, nil

	case errors.Is(err, sql.ErrNoRows):
		if name == "" {
			name = "Cliente " + lastDigits(clean, 4)
		}
		c = models.Client{
			ID:          uuid.NewString(),
			Name:        name,
			Phone:       "+" + clean,
			CountryCode: countryCode,
			Address:     address,
			LastAddress: address,
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO clients (id, name, phone, country_code, address, last_address)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, c.Name, c.Phone, c.CountryCode, c.Address, c.LastAddress)
		if err != nil {
			return nil, err
		}
		return &c, nil

	default:
		return nil, err
	}
}

// SetLastAddress guarda o endereço mais recente de entrega do cliente.
func (s *Store) SetLastAddress(ctx context.Context, clientID, address string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE clients SET last_address = $1 WHERE id = $2`, address, clientID)
	return err
}

func (s *Store) SetAIPaused(ctx context.Context, clientID string, paused bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE clients SET ai_paused = $1 WHERE id = $2`, paused, clientID)
	return err
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, country_code, address, last_address, ai_paused, created_at
		FROM clients ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CountryCode,
			&c.Address, &c.LastAddress, &c.AIPaused, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, country_code, address, last_address, ai_paused, created_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.CountryCode,
		&c.Address, &c.LastAddress, &c.AIPaused, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
