package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"skintech-consultant-be/internal/config"
	"skintech-consultant-be/internal/controller"
	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/internal/pkg/serverutils"
	"skintech-consultant-be/internal/repository/contract"
	"skintech-consultant-be/internal/repository/implementation"
	"skintech-consultant-be/internal/repository/memory"
	"skintech-consultant-be/internal/repository/unitofwork"
	"skintech-consultant-be/internal/service"
	"skintech-consultant-be/pkg/embedding"
	"skintech-consultant-be/pkg/llm/factory"
	pktNats "skintech-consultant-be/pkg/nats"
	"skintech-consultant-be/pkg/rag/chat"
	"skintech-consultant-be/pkg/rag/intent"
	"skintech-consultant-be/pkg/rag/profile"
	"skintech-consultant-be/pkg/rag/prompt"
	"skintech-consultant-be/pkg/rag/retrieval"
	"skintech-consultant-be/pkg/rag/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ChatController         controller.IChatController
	ConversationController controller.IConversationController
	ProfileController      controller.IProfileController

	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	learningLogger := logger.NewIsolatedLogger(cfg.App.ProfileLearningLogPath)

	c := &Container{Logger: sysLogger}

	// 2. Redis (optional): search cache + token revocation
	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	var denylist contract.TokenDenylistRepository
	if rdb != nil {
		denylist = implementation.NewRedisTokenDenylistRepository(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		denylist = memory.NewTokenDenylistRepository()
	}

	// 3. Capability objects, each with a distinct disabled variant
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL(cfg), cfg.Keys.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Generation provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
		"enabled":  llmProvider != nil,
	})

	retriever := newRetriever(cfg, uowFactory, sysLogger)
	searcher := newSearcher(cfg, rdb, sysLogger)

	classifier := intent.NewFromProvider(llmProvider, sysLogger)
	responder := chat.NewResponder(llmProvider, cfg.Chat.UnavailableResponse)

	profileStore := service.NewProfileStore(uowFactory)
	learner := profile.NewFromProvider(llmProvider, profileStore, cfg.Chat.LearningWindow, learningLogger)

	// 4. Learning work queue
	queue, consumer, closeQueue, err := newLearningTransport(cfg, uowFactory, learner, sysLogger, learningLogger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeQueue)
	c.ConsumerService = consumer
	scheduler := profile.NewScheduler(profile.Policy{EveryNTurns: cfg.Chat.LearningEveryNTurns}, queue)

	// 5. Orchestrator
	conversationStore := service.NewConversationStore(uowFactory)
	orchestrator := chat.NewOrchestrator(chat.Dependencies{
		Classifier:    classifier,
		Retriever:     retriever,
		Searcher:      searcher,
		Assembler:     prompt.NewAssembler(cfg.Chat.HistoryWindow),
		Responder:     responder,
		Conversations: conversationStore,
		Profiles:      profileStore,
		Scheduler:     scheduler,
		Lanes:         memory.NewLaneRepository(),
		Logger:        sysLogger,
	}, chat.Config{
		RetrievalTopK: cfg.Chat.RetrievalTopK,
		WebMaxResults: cfg.Chat.WebMaxResults,
		TitleRunes:    cfg.Chat.ConversationTitleRunes,
	})

	// 6. Services
	authService := service.NewAuthService(uowFactory, denylist, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, sysLogger)
	chatService := service.NewChatService(orchestrator)
	conversationService := service.NewConversationService(uowFactory)
	profileService := service.NewProfileService(profileStore)

	// 7. Controllers
	c.AuthMiddleware = serverutils.JwtMiddleware(cfg.Auth.JWTSecret, denylist)
	c.AuthController = controller.NewAuthController(authService)
	c.ChatController = controller.NewChatController(chatService, sysLogger)
	c.ConversationController = controller.NewConversationController(conversationService)
	c.ProfileController = controller.NewProfileController(profileService)

	return c, nil
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" && cfg.Ai.LLMBaseURL == "" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.LLMBaseURL
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	var opt *redis.Options
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			log.Warn("BOOTSTRAP", "Invalid Redis URL, running without Redis", map[string]interface{}{"error": err.Error()})
			return nil
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unreachable, running without Redis", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newRetriever(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) chat.Retriever {
	embedder, err := embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	if err != nil {
		log.Warn("BOOTSTRAP", "Vector retrieval disabled", map[string]interface{}{"error": err.Error()})
		return retrieval.Disabled{}
	}
	index := retrieval.NewPgVectorIndex(uowFactory, embedder)
	return retrieval.NewGateway(index, cfg.Chat.SimilarityThreshold, log)
}

func newSearcher(cfg *config.Config, rdb *redis.Client, log logger.ILogger) chat.Searcher {
	var provider websearch.Provider
	switch cfg.Ai.SearchProvider {
	case "tavily":
		if cfg.Keys.Tavily == "" {
			log.Warn("BOOTSTRAP", "Web search disabled: TAVILY_API_KEY not set", nil)
			return websearch.Disabled{}
		}
		provider = websearch.NewTavilyProvider(cfg.Keys.Tavily, "")
	case "duckduckgo":
		provider = websearch.NewDuckDuckGoProvider("")
	default:
		log.Info("BOOTSTRAP", "Web search disabled", map[string]interface{}{"provider": cfg.Ai.SearchProvider})
		return websearch.Disabled{}
	}

	if rdb != nil && cfg.Ai.SearchCacheTTL > 0 {
		provider = websearch.NewCachedProvider(provider, rdb, cfg.Ai.SearchCacheTTL, cfg.Ai.SearchProvider, log)
	}
	return websearch.NewGateway(provider, log)
}

func newLearningTransport(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	learner profile.Learner,
	sysLogger, learningLogger logger.ILogger,
) (profile.Queue, service.IConsumerService, func(), error) {
	switch cfg.Chat.LearningTransport {
	case "nats":
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("nats publisher: %w", err)
		}
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			pub.Close()
			return nil, nil, nil, fmt.Errorf("nats subscriber: %w", err)
		}
		consumer := service.NewNatsConsumerService(sub, uowFactory, learner, cfg.Chat.LearningWindow, learningLogger)
		return service.NewNatsLearningQueue(pub), consumer, func() { sub.Close(); pub.Close() }, nil

	default:
		pubSub := gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			watermill.NewStdLogger(false, false),
		)
		consumer := service.NewWatermillConsumerService(pubSub, service.LearningTopic, uowFactory, learner, cfg.Chat.LearningWindow, learningLogger)
		return service.NewWatermillLearningQueue(pubSub, service.LearningTopic), consumer, func() { _ = pubSub.Close() }, nil
	}
}
