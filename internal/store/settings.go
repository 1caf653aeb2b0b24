package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/docefloco/atendente-ai/internal/models"
)

const settingsKey = "storeConfig"

// Settings carrega a configuração da loja mesclada sobre os defaults.
// Falha de leitura vira default com log — a loja não para por isso.
func (s *Store) Settings(ctx context.Context) models.Settings {
	cfg := models.DefaultSettings()

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, settingsKey).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Println("[db] erro ao ler config:", err)
		}
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Println("[db] config malformada, usando defaults:", err)
		return models.DefaultSettings()
	}
	return cfg
}

func (s *Store) SaveSettings(ctx context.Context, cfg models.Settings) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, settingsKey, raw)
	return err
}
