package backend

import (
	"context"
	"net/http"
)

// ClientRecord is the payload for creating or updating a customer record.
type ClientRecord struct {
	Name  string `json:"nome,omitempty"`
	Phone string `json:"telefone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"observacoes,omitempty"`
}

// OrderRecord is the payload for creating a service order.
type OrderRecord struct {
	ClientID    string `json:"cliente_id"`
	Description string `json:"descricao"`
	Phone       string `json:"telefone,omitempty"`
}

// QuoteItem is one line of a quote request.
type QuoteItem struct {
	ProductID string `json:"produto_id"`
	Quantity  int    `json:"quantidade"`
}

// QuoteRecord is the payload for creating a quote.
type QuoteRecord struct {
	ClientID string      `json:"cliente_id"`
	Items    []QuoteItem `json:"itens"`
	Phone    string      `json:"telefone,omitempty"`
}

// --- clients ---

func (c *Client) CreateClient(ctx context.Context, rec ClientRecord) Result {
	return c.do(ctx, http.MethodPost, "/clientes", rec)
}

func (c *Client) GetClient(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodGet, "/clientes/"+escape(id), nil)
}

func (c *Client) ListClients(ctx context.Context) Result {
	return c.do(ctx, http.MethodGet, "/clientes", nil)
}

func (c *Client) UpdateClient(ctx context.Context, id string, rec ClientRecord) Result {
	return c.do(ctx, http.MethodPut, "/clientes/"+escape(id), rec)
}

func (c *Client) DeleteClient(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodDelete, "/clientes/"+escape(id), nil)
}

// FindClientByPhone looks a customer up by phone number. Used both by the
// lookup tool and by the pipeline's first-contact identity check.
func (c *Client) FindClientByPhone(ctx context.Context, phone string) Result {
	return c.do(ctx, http.MethodGet, "/clientes/telefone/"+escape(phone), nil)
}

// --- products ---

func (c *Client) GetProduct(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodGet, "/produtos/"+escape(id), nil)
}

func (c *Client) ListProducts(ctx context.Context) Result {
	return c.do(ctx, http.MethodGet, "/produtos", nil)
}

// --- service orders ---

func (c *Client) CreateOrder(ctx context.Context, rec OrderRecord) Result {
	return c.do(ctx, http.MethodPost, "/ordens", rec)
}

func (c *Client) GetOrder(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodGet, "/ordens/"+escape(id), nil)
}

func (c *Client) ListOrdersByClient(ctx context.Context, clientID string) Result {
	return c.do(ctx, http.MethodGet, "/ordens/cliente/"+escape(clientID), nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodDelete, "/ordens/"+escape(id), nil)
}

// --- quotes ---

func (c *Client) CreateQuote(ctx context.Context, rec QuoteRecord) Result {
	return c.do(ctx, http.MethodPost, "/orcamentos", rec)
}

func (c *Client) GetQuote(ctx context.Context, id string) Result {
	return c.do(ctx, http.MethodGet, "/orcamentos/"+escape(id), nil)
}

func (c *Client) ListQuotesByClient(ctx context.Context, clientID string) Result {
	return c.do(ctx, http.MethodGet, "/orcamentos/cliente/"+escape(clientID), nil)
}
