package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/euanavitorial/vinnax-bot/internal/agent/prompts"
	"github.com/euanavitorial/vinnax-bot/internal/tools"
)

// Fixed terminal replies. The pipeline never delivers an empty message and
// never surfaces an internal error to the customer.
const (
	ReplyClarify     = "Poderia repetir, por favor?"
	ReplyApology     = "Desculpe, não consegui responder agora."
	ReplyUnknownTool = "Desculpe, ainda não consigo fazer isso por aqui, mas posso encaminhar para a equipe."
)

// generator is the slice of the Gemini client the orchestrator uses.
// Narrowed to an interface so tests can drive the state machine without a
// live backend.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Dispatcher executes one tool call. *tools.Registry satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, call tools.Call) tools.Result
}

// Orchestrator drives the two-phase protocol: one generation pass with the
// tool schemas attached, at most one tool dispatch, and one resumption
// pass with the tool outcome folded in.
type Orchestrator struct {
	gen        generator
	model      string
	dispatcher Dispatcher
	timeout    time.Duration
	logger     *slog.Logger
}

// NewOrchestrator creates an orchestrator. gen may be nil when no API key
// is configured; Reply then degrades to a fixed echo response instead of
// crashing the pipeline.
func NewOrchestrator(log *slog.Logger, client *genai.Client, model string, dispatcher Dispatcher, timeout time.Duration) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var gen generator
	if client != nil {
		gen = modelsGenerator{client: client}
	}
	return &Orchestrator{
		gen:        gen,
		model:      model,
		dispatcher: dispatcher,
		timeout:    timeout,
		logger:     log.With(slog.String("service", "agent")),
	}
}

// modelsGenerator adapts *genai.Client to the generator interface.
type modelsGenerator struct {
	client *genai.Client
}

func (g modelsGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// ReplyRequest carries everything the orchestrator needs for one exchange.
type ReplyRequest struct {
	// SenderPhone is the normalized caller identity, injected into tool
	// calls that require it. Never taken from the model.
	SenderPhone  string
	IdentityHint string
	Segments     []Segment
	Text         string
}

// Reply runs one exchange through the state machine and always returns a
// non-empty terminal text. Generation failures in either phase collapse to
// the fixed apology; they are logged here and never propagate.
func (o *Orchestrator) Reply(ctx context.Context, req ReplyRequest) string {
	if o.gen == nil {
		// No generative backend configured. Answer something rather than
		// going silent (the original deployment did the same).
		return "Olá! Recebi sua mensagem: " + req.Text
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	contents := toGenaiContents(req.Segments)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(prompts.SystemInstruction)}},
		Tools:             []*genai.Tool{{FunctionDeclarations: tools.Declarations()}},
		Temperature:       genai.Ptr[float32](0.3),
	}

	// State A: first pass, tool schemas attached.
	resp, err := o.gen.GenerateContent(ctx, o.model, contents, cfg)
	if err != nil {
		o.logger.Error("first generation pass failed",
			slog.String("sender", req.SenderPhone),
			slog.Any("error", err),
		)
		return ReplyApology
	}

	modelContent := firstContent(resp)
	if modelContent == nil {
		return ReplyClarify
	}

	call := firstFunctionCall(modelContent)
	if call == nil {
		return terminalText(extractText(modelContent))
	}

	// State B: execute the tool and resume with its outcome.
	result := o.dispatcher.Dispatch(ctx, tools.Call{
		Name:        call.Name,
		Args:        call.Args,
		SenderPhone: req.SenderPhone,
	})
	if result.Status == tools.StatusUnknownTool {
		return ReplyUnknownTool
	}

	contents = append(contents, modelContent, &genai.Content{
		Role: string(genai.RoleUser),
		Parts: []*genai.Part{{
			FunctionResponse: &genai.FunctionResponse{
				Name:     call.Name,
				Response: result.Response(),
			},
		}},
	})

	// Tools are withheld on the resumption pass; the protocol allows one
	// invocation per exchange and the second pass must produce text.
	finalCfg := &genai.GenerateContentConfig{
		SystemInstruction: cfg.SystemInstruction,
		Temperature:       cfg.Temperature,
	}
	resp, err = o.gen.GenerateContent(ctx, o.model, contents, finalCfg)
	if err != nil {
		o.logger.Error("second generation pass failed",
			slog.String("sender", req.SenderPhone),
			slog.String("tool", call.Name),
			slog.Any("error", err),
		)
		return ReplyApology
	}

	return terminalText(extractText(firstContent(resp)))
}

// terminalText enforces the never-empty invariant at the terminal state.
func terminalText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ReplyClarify
	}
	return text
}

func firstContent(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].Content
}

func firstFunctionCall(c *genai.Content) *genai.FunctionCall {
	if c == nil {
		return nil
	}
	for _, part := range c.Parts {
		if part != nil && part.FunctionCall != nil {
			return part.FunctionCall
		}
	}
	return nil
}

func extractText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// NewGeminiClient builds the Gemini API client, or nil when no key is
// configured (the orchestrator then falls back to echo replies).
func NewGeminiClient(ctx context.Context, log *slog.Logger, apiKey string) (*genai.Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(apiKey) == "" {
		log.Warn("GEMINI_API_KEY not configured; falling back to simple replies")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return client, nil
}
