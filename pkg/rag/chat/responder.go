package chat

import (
	"context"

	"skintech-consultant-be/pkg/llm"
)

// Responder produces the assistant answer as a stream of fragments.
type Responder interface {
	Respond(ctx context.Context, messages []llm.Message) (<-chan string, <-chan error)
	Enabled() bool
}

type StreamResponder struct {
	provider    llm.LLMProvider
	temperature float64
}

func NewStreamResponder(provider llm.LLMProvider) *StreamResponder {
	return &StreamResponder{provider: provider, temperature: 0.7}
}

func (r *StreamResponder) Respond(ctx context.Context, messages []llm.Message) (<-chan string, <-chan error) {
	return r.provider.Stream(ctx, messages, llm.WithTemperature(r.temperature))
}

func (r *StreamResponder) Enabled() bool { return true }

// UnavailableResponder answers with one fixed message when no provider is configured.
type UnavailableResponder struct {
	Message string
}

func (r UnavailableResponder) Respond(_ context.Context, _ []llm.Message) (<-chan string, <-chan error) {
	out := make(chan string, 1)
	errs := make(chan error)
	out <- r.Message
	close(out)
	close(errs)
	return out, errs
}

func (r UnavailableResponder) Enabled() bool { return false }

func NewResponder(provider llm.LLMProvider, unavailableMessage string) Responder {
	if provider == nil {
		return UnavailableResponder{Message: unavailableMessage}
	}
	return NewStreamResponder(provider)
}
