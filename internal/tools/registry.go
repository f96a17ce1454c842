package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/euanavitorial/vinnax-bot/internal/backend"
)

// Tool names, matched exactly against the model's function calls.
const (
	NameGetClient    = "get_client"
	NameCreateClient = "create_client"
	NameUpdateClient = "update_client"
	NameDeleteClient = "delete_client"
	NameListProducts = "list_products"
	NameGetProduct   = "get_product"
	NameCreateOrder  = "create_service_order"
	NameGetOrder     = "get_service_order"
	NameListOrders   = "list_service_orders"
	NameCreateQuote  = "create_quote"
	NameGetQuote     = "get_quote"
	NameListQuotes   = "list_quotes"
)

// Registry binds the tool catalog to a backend client.
type Registry struct {
	backend *backend.Client
	logger  *slog.Logger
}

// NewRegistry creates a registry over the given backend client.
func NewRegistry(log *slog.Logger, client *backend.Client) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		backend: client,
		logger:  log.With(slog.String("service", "tools")),
	}
}

// Dispatch executes one tool call and always returns a Result. Unknown
// names yield StatusUnknownTool; backend failures arrive already tagged.
// Tools that create records keyed by the caller's identity have the sender
// phone injected here, overriding anything the model may have supplied.
func (r *Registry) Dispatch(ctx context.Context, call Call) Result {
	r.logger.Info("dispatching tool",
		slog.String("tool", call.Name),
		slog.String("sender", call.SenderPhone),
	)

	switch call.Name {
	case NameGetClient:
		var args GetClientArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.GetClient(ctx, args.ID))

	case NameCreateClient:
		var args CreateClientArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		// The model is never shown the caller's phone; it comes from the
		// inbound event only.
		args.Phone = call.SenderPhone
		return fromBackend(r.backend.CreateClient(ctx, backend.ClientRecord{
			Name:  args.Name,
			Phone: args.Phone,
			Email: args.Email,
			Notes: args.Notes,
		}))

	case NameUpdateClient:
		var args UpdateClientArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.UpdateClient(ctx, args.ID, backend.ClientRecord{
			Name:  args.Name,
			Email: args.Email,
			Notes: args.Notes,
		}))

	case NameDeleteClient:
		var args DeleteClientArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.DeleteClient(ctx, args.ID))

	case NameListProducts:
		return fromBackend(r.backend.ListProducts(ctx))

	case NameGetProduct:
		var args GetProductArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.GetProduct(ctx, args.ID))

	case NameCreateOrder:
		var args CreateOrderArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		args.Phone = call.SenderPhone
		return fromBackend(r.backend.CreateOrder(ctx, backend.OrderRecord{
			ClientID:    args.ClientID,
			Description: args.Description,
			Phone:       args.Phone,
		}))

	case NameGetOrder:
		var args GetOrderArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.GetOrder(ctx, args.ID))

	case NameListOrders:
		var args ListOrdersArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.ListOrdersByClient(ctx, args.ClientID))

	case NameCreateQuote:
		var args CreateQuoteArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		args.Phone = call.SenderPhone
		items := make([]backend.QuoteItem, 0, len(args.Items))
		for _, it := range args.Items {
			items = append(items, backend.QuoteItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return fromBackend(r.backend.CreateQuote(ctx, backend.QuoteRecord{
			ClientID: args.ClientID,
			Items:    items,
			Phone:    args.Phone,
		}))

	case NameGetQuote:
		var args GetQuoteArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.GetQuote(ctx, args.ID))

	case NameListQuotes:
		var args ListQuotesArgs
		if err := decodeArgs(call.Args, &args); err != nil {
			return badArgs(err)
		}
		return fromBackend(r.backend.ListQuotesByClient(ctx, args.ClientID))

	default:
		r.logger.Warn("unknown tool requested", slog.String("tool", call.Name))
		return Result{
			Status:  StatusUnknownTool,
			Message: "ferramenta desconhecida: " + call.Name,
		}
	}
}

// decodeArgs converts the model's loose argument map into a typed struct
// via a JSON round trip. Unknown fields are dropped, missing fields stay
// zero; schema validation is advisory, not enforced.
func decodeArgs(raw map[string]any, dst any) error {
	if raw == nil {
		return nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dst)
}

func badArgs(err error) Result {
	return Result{Status: StatusError, Message: "argumentos inválidos: " + err.Error()}
}
