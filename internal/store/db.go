package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// InitSchema cria as tabelas quando não existem. Sem versionamento de
// migração: o esquema é pequeno e só cresce por ADD COLUMN manual.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		country_code TEXT NOT NULL DEFAULT '55',
		address TEXT NOT NULL DEFAULT '',
		last_address TEXT NOT NULL DEFAULT '',
		ai_paused BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_clients_phone ON clients (phone);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		image_path TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		short_id TEXT NOT NULL DEFAULT '0000',
		client_id UUID NOT NULL REFERENCES clients(id),
		client_name TEXT NOT NULL DEFAULT '',
		items TEXT NOT NULL DEFAULT '',
		cart JSONB NOT NULL DEFAULT '[]',
		total NUMERIC(10,2) NOT NULL DEFAULT 0,
		delivery_method TEXT NOT NULL DEFAULT 'Retirada',
		address TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT 'A Combinar',
		status TEXT NOT NULL DEFAULT 'Pendente',
		notes TEXT NOT NULL DEFAULT '',
		is_pre_order BOOLEAN NOT NULL DEFAULT FALSE,
		due_date TEXT NOT NULL DEFAULT '',
		loaned_items TEXT NOT NULL DEFAULT '',
		return_date TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_orders_client ON orders (client_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_short ON orders (short_id);

	CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		client_id UUID NOT NULL REFERENCES clients(id),
		chat_id TEXT NOT NULL,
		from_me BOOLEAN NOT NULL DEFAULT FALSE,
		body TEXT NOT NULL,
		is_audio BOOLEAN NOT NULL DEFAULT FALSE,
		is_automated BOOLEAN NOT NULL DEFAULT FALSE,
		read BOOLEAN NOT NULL DEFAULT FALSE,
		ts TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_messages_client ON messages (client_id, ts DESC);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL
	);
	`)
	return err
}
