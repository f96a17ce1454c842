// Package tools declares the operations the model may request and
// dispatches them against the business backend.
package tools

import "github.com/euanavitorial/vinnax-bot/internal/backend"

// Status tags a dispatch outcome. It extends the backend statuses with
// unknown_tool, produced when the model requests a capability that does
// not exist.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusError       Status = "error"
	StatusUnknownTool Status = "unknown_tool"
)

// Call is one tool invocation requested by the model. SenderPhone is set
// by the pipeline from the inbound event, never by the model; dispatch
// injects it into the arguments of tools that need the caller's identity.
type Call struct {
	Name        string
	Args        map[string]any
	SenderPhone string
}

// Result is the outcome of one dispatch. It is always a value: handlers
// never raise, so the orchestrator can fold any outcome back into the
// second generation pass.
type Result struct {
	Status  Status
	Payload any
	Message string
}

// OK reports whether the dispatch succeeded.
func (r Result) OK() bool { return r.Status == StatusOK }

// Response renders the result as the structured map handed back to the
// model as the function response.
func (r Result) Response() map[string]any {
	out := map[string]any{"status": string(r.Status)}
	if r.Payload != nil {
		out["data"] = r.Payload
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	return out
}

func fromBackend(r backend.Result) Result {
	return Result{
		Status:  Status(r.Status),
		Payload: r.Payload,
		Message: r.Message,
	}
}

// Typed argument structs, one per tool. Dispatch decodes the model's raw
// argument map into the matching struct before calling the backend.

type GetClientArgs struct {
	ID string `json:"id"`
}

type CreateClientArgs struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Notes string `json:"observacoes"`
	// Phone is filled by injection, never by the model.
	Phone string `json:"-"`
}

type UpdateClientArgs struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Notes string `json:"observacoes"`
}

type DeleteClientArgs struct {
	ID string `json:"id"`
}

type GetProductArgs struct {
	ID string `json:"id"`
}

type CreateOrderArgs struct {
	ClientID    string `json:"cliente_id"`
	Description string `json:"descricao"`
	Phone       string `json:"-"`
}

type GetOrderArgs struct {
	ID string `json:"id"`
}

type ListOrdersArgs struct {
	ClientID string `json:"cliente_id"`
}

type QuoteItemArg struct {
	ProductID string `json:"produto_id"`
	Quantity  int    `json:"quantidade"`
}

type CreateQuoteArgs struct {
	ClientID string         `json:"cliente_id"`
	Items    []QuoteItemArg `json:"itens"`
	Phone    string         `json:"-"`
}

type GetQuoteArgs struct {
	ID string `json:"id"`
}

type ListQuotesArgs struct {
	ClientID string `json:"cliente_id"`
}
