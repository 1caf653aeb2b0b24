package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/docefloco/atendente-ai/internal/models"
)

// ActiveProducts devolve a vitrine (produtos ativos), ordenada por nome.
func (s *Store) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, quantity, active, image_path
		FROM products WHERE active ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Active, &p.ImagePath); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type menuEntry struct {
	ID      string  `json:"id"`
	Name    string  `json:"n"`
	Price   float64 `json:"p"`
	SoldOut bool    `json:"soldOut"`
	HasImg  bool    `json:"img"`
}

// MenuSnapshot serializa a vitrine para o prompt. Só vai o booleano de
// esgotado, nunca a quantidade exata — a IA não precisa saber o estoque.
func MenuSnapshot(products []models.Product) string {
	entries := make([]menuEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, menuEntry{
			ID:      p.ID,
			Name:    p.Name,
			Price:   p.Price,
			SoldOut: p.Quantity <= 0,
			HasImg:  p.ImagePath != "",
		})
	}
	b, _ := json.Marshal(entries)
	return string(b)
}

func (s *Store) AddProduct(ctx context.Context, name string, price float64) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, quantity, active) VALUES ($1, $2, $3, 0, TRUE)
	`, id, name, price)
	return id, err
}

func (s *Store) SetProductStock(ctx context.Context, id string, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET quantity = $1 WHERE id = $2`, quantity, id)
	return err
}

func (s *Store) SetProductActive(ctx context.Context, id string, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET active = $1 WHERE id = $2`, active, id)
	return err
}

func (s *Store) SetProductImage(ctx context.Context, id, path string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET image_path = $1 WHERE id = $2`, path, id)
	return err
}

// ProductImage devolve caminho e nome da foto do produto; vazio sem
// erro quando o produto não existe ou não tem foto.
func (s *Store) ProductImage(ctx context.Context, id string) (path, name string, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT image_path, name FROM products WHERE id = $1`, id).Scan(&path, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", "", nil
	}
	return path, name, nil
}
