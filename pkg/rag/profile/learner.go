package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/pkg/llm"

	"github.com/google/uuid"
)

const DefaultWindow = 20

var ErrLearningDisabled = errors.New("profile learning is not configured")

// Store applies fn to the caller's profile under a row lock. A missing profile is
// handed to fn as a fresh version 0 record. Nothing is written unless fn reports a change.
type Store interface {
	Update(ctx context.Context, userID uuid.UUID, fn func(p *entity.UserProfile) bool) (*entity.UserProfile, bool, error)
}

// Outcome is informational; learning failures never reach the chat request.
type Outcome struct {
	Skipped bool
	Updated bool
	Version int
	Err     error
}

type Learner interface {
	ExtractAndUpdate(ctx context.Context, userID uuid.UUID, recent []*entity.Message) Outcome
}

const extractionPrompt = `You extract skincare preferences from a conversation.
Reply with a single JSON object and nothing else, using exactly these fields
(use null or an empty list when the conversation says nothing about a field):
- skin_type: one of "oily", "dry", "combination", "sensitive", "normal", or null
- sensitivities: list of strings, e.g. ["alcohol", "fragrance"]
- preferred_brands: list of strings
- budget_range: one of "budget", "mid-range", "luxury", or null
- concerns: list of strings, e.g. ["acne", "anti-aging", "brightening"]

Example:
{"skin_type": "oily", "sensitivities": [], "preferred_brands": ["CeraVe"], "budget_range": "budget", "concerns": ["acne"]}`

type LLMLearner struct {
	provider llm.LLMProvider
	store    Store
	window   int
	logger   logger.ILogger
}

func NewLLMLearner(provider llm.LLMProvider, store Store, window int, logger logger.ILogger) *LLMLearner {
	if window <= 0 {
		window = DefaultWindow
	}
	return &LLMLearner{provider: provider, store: store, window: window, logger: logger}
}

func transcript(messages []*entity.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}
	return strings.Join(lines, "\n")
}

func (l *LLMLearner) ExtractAndUpdate(ctx context.Context, userID uuid.UUID, recent []*entity.Message) Outcome {
	if len(recent) == 0 {
		return Outcome{Skipped: true}
	}
	if len(recent) > l.window {
		recent = recent[len(recent)-l.window:]
	}

	raw, err := l.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionPrompt},
		{Role: llm.RoleUser, Content: "Conversation:\n" + transcript(recent)},
	}, llm.WithTemperature(0), llm.WithJSONResponse())
	if err != nil {
		return l.fail(userID, "Profile extraction call failed", err)
	}

	ex, err := ParseExtraction(raw)
	if err != nil {
		return l.fail(userID, "Profile extraction payload rejected", err)
	}
	if ex.IsEmpty() {
		return Outcome{}
	}

	profile, updated, err := l.store.Update(ctx, userID, func(p *entity.UserProfile) bool {
		return Apply(p, ex)
	})
	if err != nil {
		return l.fail(userID, "Profile update failed", err)
	}

	if updated {
		l.logger.Info("PROFILE", "Profile updated", map[string]interface{}{
			"user_id": userID.String(),
			"version": profile.Version,
		})
	}
	return Outcome{Updated: updated, Version: profile.Version}
}

func (l *LLMLearner) fail(userID uuid.UUID, msg string, err error) Outcome {
	l.logger.Error("PROFILE", msg, map[string]interface{}{
		"user_id": userID.String(),
		"error":   err.Error(),
	})
	return Outcome{Err: err}
}

// Disabled is used when no generation provider is configured.
type Disabled struct{}

func (Disabled) ExtractAndUpdate(_ context.Context, _ uuid.UUID, _ []*entity.Message) Outcome {
	return Outcome{Skipped: true, Err: ErrLearningDisabled}
}

func NewFromProvider(provider llm.LLMProvider, store Store, window int, logger logger.ILogger) Learner {
	if provider == nil {
		return Disabled{}
	}
	return NewLLMLearner(provider, store, window, logger)
}
