package bootstrap

import (
	"context"
	"fmt"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/extract"
	"docqa/internal/generator"
	"docqa/internal/llm"
	"docqa/internal/llm/factory"
	"docqa/internal/logger"
	"docqa/internal/oracle"
	"docqa/internal/retrieval"
	"docqa/internal/service"
	"docqa/internal/session"
	"docqa/internal/tokens"
)

type Container struct {
	Config  *config.AppConfig
	Logger  logger.ILogger
	LLM     llm.Client
	Model   llm.ModelChoice
	Service *service.QAServiceImpl
}

// NewContainer builds every component from cfg. The caller picks the logger so
// the terminal UI can keep log output off the screen.
func NewContainer(ctx context.Context, cfg *config.AppConfig, sysLogger logger.ILogger, opts ...service.Option) (*Container, error) {
	// 1. Model client
	client, choice, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider:      cfg.LLM.Provider,
		APIKeyEnv:     cfg.LLM.APIKeyEnv,
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Timeout:       cfg.LLM.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	details := map[string]interface{}{
		"provider": cfg.LLM.Provider,
		"model":    choice.Name,
		"source":   string(choice.Source),
	}
	if choice.DiscoveryErr != nil {
		details["error"] = choice.DiscoveryErr
		sysLogger.Warn("bootstrap", "model discovery failed, using fallback", details)
	} else {
		sysLogger.Info("bootstrap", "model selected", details)
	}

	// 2. Pipeline components
	gen := generator.New(client, generator.Config{
		Document:        sampling(cfg.Generation.Document),
		General:         sampling(cfg.Generation.General),
		Summary:         sampling(cfg.Generation.Summary),
		SummaryMaxChars: cfg.Generation.SummaryMaxInputChars,
	})

	// 3. Service
	opts = append([]service.Option{
		service.WithLogger(sysLogger),
		service.WithTokenCounter(tokens.NewCounter()),
	}, opts...)
	svc := service.NewQAService(
		extract.NewFileExtractor(),
		chunker.NewWordChunker(cfg.Chunker.ChunkSize),
		retrieval.NewLexicalRanker(),
		oracle.NewSufficiency(client),
		gen,
		session.NewStore(cfg.Session.TTL()),
		cfg.Retrieval.TopK,
		opts...,
	)

	return &Container{
		Config:  cfg,
		Logger:  sysLogger,
		LLM:     client,
		Model:   choice,
		Service: svc,
	}, nil
}

func sampling(s config.SamplingConfig) generator.Sampling {
	return generator.Sampling{MaxTokens: s.MaxTokens, Temperature: s.Temperature}
}
