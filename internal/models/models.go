package models

import "time"

// Client — cadastro de cliente, chave natural é o telefone normalizado.
type Client struct {
	ID          string
	Name        string
	Phone       string
	CountryCode string
	Address     string
	LastAddress string
	AIPaused    bool
	CreatedAt   time.Time
}

// Product — item da vitrine.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Quantity  int
	Active    bool
	ImagePath string
}

// CartLine liga um pedido a um produto do catálogo com quantidade.
type CartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Order — pedido. Items (texto livre) e Cart (estruturado) coexistem:
// pedidos antigos e vendas manuais só têm o texto.
type Order struct {
	ID             string
	ShortID        string
	ClientID       string
	ClientName     string
	Items          string
	Cart           []CartLine
	Total          float64
	DeliveryMethod string
	Address        string
	PaymentMethod  string
	Status         Status
	Notes          string
	CreatedAt      time.Time

	// Campos de encomenda (pré-pedido).
	IsPreOrder  bool
	DueDate     string
	LoanedItems string
	ReturnDate  string
}

// ChatMessage — uma linha do histórico de conversa de um cliente.
type ChatMessage struct {
	ID          string
	ClientID    string
	ChatID      string
	FromMe      bool
	Body        string
	IsAudio     bool
	IsAutomated bool
	Read        bool
	Timestamp   time.Time
}

// Settings — configuração da loja, guardada no banco e mesclada sobre defaults.
type Settings struct {
	StoreName      string  `json:"storeName"`
	Address        string  `json:"address"`
	DeliveryFee    float64 `json:"deliveryFee"`
	MinDeliveryQty int     `json:"minDeliveryQty"`
	AcaiSizes      string  `json:"acaiSizes"`
	FreeAddons     string  `json:"freeAddons"`
	PaidAddons     string  `json:"paidAddons"`
	AcaiImagePath  string  `json:"imgAcaiPath"`
	AutoPrint      bool    `json:"autoPrint"`
	PrinterName    string  `json:"printerName"`
}

// DefaultSettings é o fallback quando o documento de configuração não existe.
func DefaultSettings() Settings {
	return Settings{
		StoreName:      "Doce Floco",
		MinDeliveryQty: 1,
	}
}
