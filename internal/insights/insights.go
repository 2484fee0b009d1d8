// Package insights turns aggregates and chat messages into prompts for the
// text generator and falls back to fixed answers when generation fails.
package insights

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"clinic_crm_backend/pkg/utils"
)

const (
	insightsPrompt = "Como assistente sênior de uma clínica de estética, analise os seguintes dados e sugira 3 ações estratégicas de marketing ou vendas: %s. Responda em Português de forma concisa."
	replyPrompt    = "Um cliente da clínica de estética enviou a seguinte mensagem: \"%s\". Sugira uma resposta profissional, amigável e persuasiva em Português."

	InsightsFallback = "Não foi possível gerar insights no momento. Verifique sua chave de API."
	ReplyFallback    = "Olá! Como posso ajudar você hoje?"
)

// ErrInFlight is returned when a request of the same kind is still running.
var ErrInFlight = errors.New("a request of this kind is already running")

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Kind identifies which screen asked; each kind runs at most one request at a time.
type Kind string

const (
	KindPatients   Kind = "patients"
	KindFunnel     Kind = "funnel"
	KindOperations Kind = "operations"
	KindReply      Kind = "reply"
)

// Result is the text shown to the operator. Fallback marks a canned answer.
type Result struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

type Service struct {
	generator TextGenerator
	inFlight  map[Kind]*atomic.Bool
}

func NewService(generator TextGenerator) *Service {
	return &Service{
		generator: generator,
		inFlight: map[Kind]*atomic.Bool{
			KindPatients:   {},
			KindFunnel:     {},
			KindOperations: {},
			KindReply:      {},
		},
	}
}

// SmartInsights asks for three strategic actions based on a data summary.
func (s *Service) SmartInsights(ctx context.Context, kind Kind, summary string) (Result, error) {
	if kind == KindReply {
		return Result{}, fmt.Errorf("kind %q is not an insight kind", kind)
	}
	return s.run(ctx, kind, fmt.Sprintf(insightsPrompt, summary), InsightsFallback)
}

// SuggestReply drafts an answer to a client's chat message.
func (s *Service) SuggestReply(ctx context.Context, message string) (Result, error) {
	return s.run(ctx, KindReply, fmt.Sprintf(replyPrompt, message), ReplyFallback)
}

func (s *Service) run(ctx context.Context, kind Kind, prompt, fallback string) (Result, error) {
	flag, ok := s.inFlight[kind]
	if !ok {
		return Result{}, fmt.Errorf("unknown insight kind %q", kind)
	}
	if !flag.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer flag.Store(false)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		utils.LogWarn(err, "Insights: generation failed, using fallback")
		return Result{Kind: kind, Text: fallback, Fallback: true}, nil
	}
	return Result{Kind: kind, Text: text}, nil
}
