package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docefloco/atendente-ai/internal/models"
)

// janela de detecção de encomenda duplicada (reenvio de mensagem,
// retry de modelo)
const duplicateWindow = 120 * time.Second

// StockError — estoque não cobre a venda. A transação inteira aborta.
type StockError struct {
	Product   string
	Remaining int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para %s (restam: %d)", e.Product, e.Remaining)
}

// OrderSpec é o pedido a criar, vindo do comando da IA ou de venda manual.
type OrderSpec struct {
	ClientID   string
	ClientName string
	Items      string
	Cart       []models.CartLine
	Total      float64
	Method     string
	Payment    string
	Address    string
	ShortID    string
}

// ScheduledSpec é uma encomenda (pré-pedido) com data futura.
type ScheduledSpec struct {
	ClientID    string
	ClientName  string
	Items       string
	Total       float64
	Date        string
	Method      string
	Address     string
	LoanedItems string
	ReturnDate  string
}

// OrderResult é o retorno das criações de pedido.
type OrderResult struct {
	OrderID string
	ShortID string
	Note    string
}

// CreateStandardOrder cria o pedido numa transação única: trava cada
// produto do carrinho, valida estoque, e só então grava o pedido com
// todas as baixas. Qualquer linha sem estoque aborta tudo — venda
// parcial não existe.
func (s *Store) CreateStandardOrder(ctx context.Context, spec OrderSpec) (*OrderResult, error) {
	products, err := s.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	cart := ResolveCart(spec.Cart, spec.Items, products)
	needs := aggregateCart(cart)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, line := range needs {
		var name string
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT name, quantity FROM products WHERE id = $1 FOR UPDATE`,
			line.ProductID).Scan(&name, &stock)
		if err != nil {
			return nil, err
		}
		if stock < line.Quantity {
			return nil, &StockError{Product: name, Remaining: stock}
		}
	}

	for _, line := range needs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $1 WHERE id = $2`,
			line.Quantity, line.ProductID); err != nil {
			return nil, err
		}
	}

	orderID := uuid.NewString()
	shortID := spec.ShortID
	if shortID == "" {
		shortID = "0000"
	}
	items := spec.Items
	if items == "" {
		items = "Venda via IA"
	}
	method := spec.Method
	if method == "" {
		method = "A Combinar"
	}
	address := spec.Address
	if address == "" {
		address = "Retirada"
	}
	payment := spec.Payment
	if payment == "" {
		payment = "A Combinar"
	}
	cartJSON, _ := json.Marshal(cart)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, short_id, client_id, client_name, items, cart, total,
			delivery_method, address, payment_method, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'Pedido Automático')
	`, orderID, shortID, spec.ClientID, spec.ClientName, items, cartJSON,
		spec.Total, method, address, payment, string(models.StatusPendente)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("[db] pedido #%s criado (%s)", shortID, orderID)
	return &OrderResult{OrderID: orderID, ShortID: shortID}, nil
}

// matchesScheduledDuplicate compara os dados vitais de uma encomenda
// existente com os de uma nova.
func matchesScheduledDuplicate(existing models.Order, items string, total float64, date string) bool {
	return existing.Items == items && existing.Total == total && existing.DueDate == date
}

// CreateScheduledOrder grava uma encomenda, a menos que uma idêntica do
// mesmo cliente tenha sido criada nos últimos 120s — nesse caso devolve
// sucesso com nota "duplicate_prevented" e não grava nada.
func (s *Store) CreateScheduledOrder(ctx context.Context, spec ScheduledSpec) (*OrderResult, error) {
	// a janela corre no relógio do banco, o mesmo que carimba created_at
	rows, err := s.db.QueryContext(ctx, `
		SELECT items, total, due_date FROM orders
		WHERE client_id = $1 AND status = $2
			AND created_at > now() - $3 * interval '1 second'
	`, spec.ClientID, string(models.StatusAgendado), int64(duplicateWindow.Seconds()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.Items, &o.Total, &o.DueDate); err != nil {
			return nil, err
		}
		if matchesScheduledDuplicate(o, spec.Items, spec.Total, spec.Date) {
			log.Printf("[db] encomenda duplicada ignorada para %s", spec.ClientName)
			return &OrderResult{Note: "duplicate_prevented"}, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := spec.Items
	if items == "" {
		items = "Encomenda Personalizada"
	}
	method := spec.Method
	if method == "" {
		method = "Retirada"
	}
	notes := "Encomenda"
	if spec.LoanedItems != "" {
		notes = "⚠️ EMPRÉSTIMO: Devolução em " + spec.ReturnDate
	}

	orderID := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, client_id, client_name, items, total, delivery_method,
			address, payment_method, status, notes, is_pre_order, due_date, loaned_items, return_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'Sinal Pendente', $8, $9, TRUE, $10, $11, $12)
	`, orderID, spec.ClientID, spec.ClientName, items, spec.Total, method,
		spec.Address, string(models.StatusAgendado), notes,
		spec.Date, spec.LoanedItems, spec.ReturnDate)
	if err != nil {
		return nil, err
	}
	return &OrderResult{OrderID: orderID}, nil
}

const orderColumns = `id, short_id, client_id, client_name, items, cart, total,
	delivery_method, address, payment_method, status, notes,
	is_pre_order, due_date, loaned_items, return_date, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var cartJSON []byte
	var rawStatus string
	err := row.Scan(&o.ID, &o.ShortID, &o.ClientID, &o.ClientName, &o.Items,
		&cartJSON, &o.Total, &o.DeliveryMethod, &o.Address, &o.PaymentMethod,
		&rawStatus, &o.Notes, &o.IsPreOrder, &o.DueDate, &o.LoanedItems,
		&o.ReturnDate, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = models.NormalizeStatus(rawStatus)
	_ = json.Unmarshal(cartJSON, &o.Cart)
	return &o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (s *Store) GetOrderByShortID(ctx context.Context, shortID string) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE short_id = $1 ORDER BY created_at DESC LIMIT 1`,
		shortID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// FindOrderForUpdate resolve "qual pedido alterar": short ID explícito,
// depois o pedido ativo da conversa, depois o Pendente mais recente do
// cliente. Nil sem erro quando nada casa — o chamador responde "não
// encontrei o pedido".
func (s *Store) FindOrderForUpdate(ctx context.Context, clientID, shortID, activeOrderID string) (*models.Order, error) {
	if shortID != "" {
		if o, err := s.GetOrderByShortID(ctx, shortID); err != nil || o != nil {
			return o, err
		}
	}
	if activeOrderID != "" {
		o, err := s.GetOrder(ctx, activeOrderID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if o != nil {
			return o, nil
		}
	}
	o, err := scanOrder(s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE client_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1
	`, clientID, string(models.StatusPendente)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// OrderPatch — campos alteráveis num pedido existente. Ponteiro nulo
// significa "não mexe".
type OrderPatch struct {
	Address    *string
	Items      *string
	Total      *float64
	NoteAppend string
}

func (s *Store) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if patch.Address != nil {
		o.Address = *patch.Address
	}
	if patch.Items != nil {
		o.Items = *patch.Items
	}
	if patch.Total != nil {
		o.Total = *patch.Total
	}
	if patch.NoteAppend != "" {
		o.Notes = o.Notes + " | " + patch.NoteAppend
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE orders SET address = $1, items = $2, total = $3, notes = $4 WHERE id = $5
	`, o.Address, o.Items, o.Total, o.Notes, id)
	return err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.Status) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	return err
}

func (s *Store) ListOrders(ctx context.Context, status string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// OrderHistory devolve os últimos pedidos do cliente resumidos em uma
// linha cada, para o contexto do prompt.
func (s *Store) OrderHistory(ctx context.Context, clientID string, limit int) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT items, total, status, created_at FROM orders
		WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2
	`, clientID, limit)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var items, rawStatus string
		var total float64
		var createdAt time.Time
		if err := rows.Scan(&items, &total, &rawStatus, &createdAt); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s: %s (R$%.2f) - Status: %s",
			createdAt.Format("02/01/2006"), items, total, models.NormalizeStatus(rawStatus)))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "Histórico: Nenhum pedido anterior.", nil
	}
	return strings.Join(lines, "\n"), nil
}

// LatestPendingOrder devolve um resumo curto do pedido Pendente mais
// recente do cliente, para o prompt preferir update a create.
func (s *Store) LatestPendingOrder(ctx context.Context, clientID string) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE client_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1
	`, clientID, string(models.StatusPendente)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (s *Store) ScheduledOrders(ctx context.Context) ([]models.Order, error) {
	return s.ListOrders(ctx, string(models.StatusAgendado), 0)
}
