package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/pkg/llm"
	"skintech-consultant-be/pkg/rag/intent"
	"skintech-consultant-be/pkg/rag/profile"
	"skintech-consultant-be/pkg/rag/prompt"
	"skintech-consultant-be/pkg/rag/websearch"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrClientGone           = errors.New("client disconnected")
)

const (
	DefaultTitleRunes = 20

	msgConversationNotFound = "Conversation not found"
	msgEmptyMessage         = "Message is empty"
	msgPersistFailed        = "Failed to save the conversation"
	msgInternal             = "Internal error"
)

type Request struct {
	UserID         uuid.UUID
	ConversationID *uuid.UUID
	Message        string
}

type Config struct {
	RetrievalTopK int
	WebMaxResults int
	TitleRunes    int
}

type Dependencies struct {
	Classifier    Classifier
	Retriever     Retriever
	Searcher      Searcher
	Assembler     *prompt.Assembler
	Responder     Responder
	Conversations ConversationStore
	Profiles      ProfileReader
	Scheduler     LearningScheduler
	Lanes         Locker
	Logger        logger.ILogger
}

type Orchestrator struct {
	deps   Dependencies
	cfg    Config
	tracer trace.Tracer
	now    func() time.Time
}

func NewOrchestrator(deps Dependencies, cfg Config) *Orchestrator {
	if cfg.TitleRunes <= 0 {
		cfg.TitleRunes = DefaultTitleRunes
	}
	return &Orchestrator{
		deps:   deps,
		cfg:    cfg,
		tracer: otel.Tracer("skintech/chat"),
		now:    time.Now,
	}
}

// evidence gathered for one turn
type evidence struct {
	intent   intent.Result
	products []entity.Product
	web      []websearch.SearchResult
	sources  []entity.Source
}

// Chat runs one turn and reports it through emit. The returned error is the
// terminal failure, already delivered to the caller as an error event when
// the caller is still connected.
func (o *Orchestrator) Chat(ctx context.Context, req Request, emit Emitter) error {
	ctx, span := o.tracer.Start(ctx, "chat.turn")
	defer span.End()

	err := o.run(ctx, req, emit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (o *Orchestrator) run(ctx context.Context, req Request, emit Emitter) error {
	if strings.TrimSpace(req.Message) == "" {
		_ = emit(errorEvent(msgEmptyMessage))
		return ErrEmptyMessage
	}

	if req.ConversationID != nil {
		release, err := o.deps.Lanes.Acquire(ctx, req.ConversationID.String())
		if err != nil {
			return fmt.Errorf("acquire conversation lane: %w", err)
		}
		defer release()
	}

	// RESOLVE_CONVERSATION
	conversation, err := o.resolveConversation(ctx, req)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			_ = emit(errorEvent(msgConversationNotFound))
			return err
		}
		o.deps.Logger.Error("CHAT", "Failed to resolve conversation", map[string]interface{}{
			"user_id": req.UserID.String(),
			"error":   err.Error(),
		})
		_ = emit(errorEvent(msgInternal))
		return err
	}

	// CLASSIFY + RETRIEVE
	ev := o.gatherEvidence(ctx, req.Message)

	// ASSEMBLE
	history, err := o.deps.Conversations.History(ctx, conversation.Id, 0)
	if err != nil {
		o.deps.Logger.Error("CHAT", "Failed to load history", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		_ = emit(errorEvent(msgInternal))
		return err
	}
	userProfile := o.loadProfile(ctx, req.UserID)
	messages := o.deps.Assembler.Assemble(prompt.Input{
		Query:      req.Message,
		Products:   ev.products,
		WebResults: ev.web,
		Profile:    userProfile,
		History:    history,
	})

	// STREAM_GENERATE
	answer, err := o.generate(ctx, messages, emit)
	if err != nil {
		return err
	}
	if len(ev.sources) > 0 {
		if err := emit(sourcesEvent(ev.sources)); err != nil {
			return ErrClientGone
		}
	}

	// PERSIST
	if err := o.persist(ctx, conversation, req, answer, ev.sources); err != nil {
		o.deps.Logger.Error("CHAT", "Failed to persist turn", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		_ = emit(errorEvent(msgPersistFailed))
		return err
	}

	// SCHEDULE_LEARNING
	o.scheduleLearning(ctx, req.UserID, conversation.Id, countUserTurns(history)+1)

	// DONE
	if err := emit(doneEvent(conversation.Id.String())); err != nil {
		return ErrClientGone
	}
	return nil
}

func (o *Orchestrator) resolveConversation(ctx context.Context, req Request) (*entity.Conversation, error) {
	ctx, span := o.tracer.Start(ctx, "chat.resolve_conversation")
	defer span.End()

	if req.ConversationID == nil {
		return o.deps.Conversations.Create(ctx, req.UserID, Title(req.Message, o.cfg.TitleRunes))
	}

	conversation, err := o.deps.Conversations.FindOwned(ctx, *req.ConversationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	return conversation, nil
}

func (o *Orchestrator) gatherEvidence(ctx context.Context, query string) evidence {
	ctx, span := o.tracer.Start(ctx, "chat.retrieve")
	defer span.End()

	ev := evidence{intent: o.deps.Classifier.Classify(ctx, query)}
	span.SetAttributes(
		attribute.String("intent", string(ev.intent.Intent)),
		attribute.Float64("intent.confidence", ev.intent.Confidence),
		attribute.Bool("intent.fallback", ev.intent.UsedFallback),
	)

	switch ev.intent.Intent {
	case intent.ProductKnowledge:
		result := o.deps.Retriever.Retrieve(ctx, query, o.cfg.RetrievalTopK)
		span.SetAttributes(
			attribute.Float64("retrieval.max_similarity", result.MaxSimilarity),
			attribute.Bool("retrieval.below_threshold", result.BelowThreshold),
		)
		if result.BelowThreshold {
			ev.web = o.deps.Searcher.Search(ctx, query, o.cfg.WebMaxResults).Results
			ev.sources = webSources(ev.web)
		} else {
			ev.products = result.Products
			ev.sources = productSources(ev.products)
		}
	case intent.ExternalKnowledge:
		ev.web = o.deps.Searcher.Search(ctx, query, o.cfg.WebMaxResults).Results
		ev.sources = webSources(ev.web)
	}

	return ev
}

func (o *Orchestrator) loadProfile(ctx context.Context, userID uuid.UUID) *entity.UserProfile {
	p, err := o.deps.Profiles.Load(ctx, userID)
	if err != nil {
		o.deps.Logger.Warn("CHAT", "Failed to load profile, continuing without it", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		return nil
	}
	return p
}

// generate forwards every fragment as it arrives. Any failure discards the partial answer.
func (o *Orchestrator) generate(ctx context.Context, messages []llm.Message, emit Emitter) (string, error) {
	ctx, span := o.tracer.Start(ctx, "chat.generate")
	defer span.End()

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, errs := o.deps.Responder.Respond(genCtx, messages)

	var answer strings.Builder
	for chunk := range chunks {
		answer.WriteString(chunk)
		if err := emit(contentEvent(chunk)); err != nil {
			cancel()
			for range chunks {
			}
			o.deps.Logger.Info("CHAT", "Client disconnected mid-stream", nil)
			return "", ErrClientGone
		}
	}

	if err := <-errs; err != nil {
		o.deps.Logger.Error("CHAT", "Generation stream failed", map[string]interface{}{
			"error": err.Error(),
		})
		if ctx.Err() != nil {
			return "", ErrClientGone
		}
		_ = emit(errorEvent(fmt.Sprintf("LLM Error: %s", err.Error())))
		return "", fmt.Errorf("generation failed: %w", err)
	}

	span.SetAttributes(attribute.Int("answer.length", answer.Len()))
	return answer.String(), nil
}

func (o *Orchestrator) persist(ctx context.Context, conversation *entity.Conversation, req Request, answer string, sources []entity.Source) error {
	ctx, span := o.tracer.Start(ctx, "chat.persist")
	defer span.End()

	// The assistant row sorts strictly after the user row.
	at := o.now().UTC()
	return o.deps.Conversations.AppendTurn(ctx, []*entity.Message{
		{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			UserId:         req.UserID,
			Role:           entity.RoleUser,
			Content:        req.Message,
			CreatedAt:      at,
		},
		{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			UserId:         req.UserID,
			Role:           entity.RoleAssistant,
			Content:        answer,
			Sources:        sources,
			CreatedAt:      at.Add(time.Millisecond),
		},
	})
}

func (o *Orchestrator) scheduleLearning(ctx context.Context, userID, conversationID uuid.UUID, turn int) {
	scheduled, err := o.deps.Scheduler.Schedule(context.WithoutCancel(ctx), profile.Task{
		UserID:         userID,
		ConversationID: conversationID,
		Turn:           turn,
	})
	if err != nil {
		o.deps.Logger.Warn("CHAT", "Failed to schedule profile learning", map[string]interface{}{
			"conversation_id": conversationID.String(),
			"error":           err.Error(),
		})
		return
	}
	if scheduled {
		o.deps.Logger.Debug("CHAT", "Profile learning scheduled", map[string]interface{}{
			"conversation_id": conversationID.String(),
			"turn":            turn,
		})
	}
}

// Title keeps the first n characters (runes, not bytes) of the message.
func Title(message string, n int) string {
	runes := []rune(message)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func countUserTurns(history []*entity.Message) int {
	n := 0
	for _, m := range history {
		if m.Role == entity.RoleUser {
			n++
		}
	}
	return n
}

func productSources(products []entity.Product) []entity.Source {
	if len(products) == 0 {
		return nil
	}
	sources := make([]entity.Source, len(products))
	for i, p := range products {
		sources[i] = entity.Source{Type: entity.SourceProduct, Title: p.ProductName}
	}
	return sources
}

func webSources(results []websearch.SearchResult) []entity.Source {
	if len(results) == 0 {
		return nil
	}
	sources := make([]entity.Source, len(results))
	for i, r := range results {
		sources[i] = entity.Source{Type: entity.SourceWeb, Title: r.Title, Url: r.URL}
	}
	return sources
}
