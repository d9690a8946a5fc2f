package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Ensure ExtractorService implements the interfaces.
var (
	_ driving.ExtractorService = (*ExtractorService)(nil)
	_ driven.PromptStoreAware  = (*ExtractorService)(nil)
)

// defaultExtractMaxTokens bounds the model answer; ten keyed numbers fit easily.
const defaultExtractMaxTokens = 512

// ExtractorConfig holds configuration for lab report extraction.
type ExtractorConfig struct {
	// Temperature is sent with every request. Zero keeps the model deterministic.
	Temperature float64

	// Concurrency bounds parallel extractions in ExtractAll.
	Concurrency int

	// RateLimit is the maximum number of LLM requests per second.
	RateLimit float64

	// MaxTokens bounds the model answer.
	MaxTokens int
}

// ExtractorConfigFromSettings builds an ExtractorConfig from app settings.
func ExtractorConfigFromSettings(settings *domain.AppSettings) ExtractorConfig {
	return ExtractorConfig{
		Temperature: settings.LLM.Temperature,
		Concurrency: settings.Extraction.Concurrency,
		RateLimit:   settings.Extraction.RateLimit,
	}
}

// ExtractorService pulls biomarker values out of free-text lab reports with a
// language model. It never invents values: anything the model does not
// report as a number stays absent.
type ExtractorService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	config      ExtractorConfig
	limiter     *rate.Limiter
}

// NewExtractorService creates a new extractor service.
// The llm parameter is optional; without it every call fails with
// domain.ErrLLMUnavailable.
func NewExtractorService(llm driven.LLMService, cfg ExtractorConfig) *ExtractorService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = domain.DefaultConcurrency
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = domain.DefaultRateLimit
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultExtractMaxTokens
	}

	return &ExtractorService{
		llm:     llm,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

// SetPromptStore sets the prompt store for loading a customised extraction prompt.
func (s *ExtractorService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Extract returns the ten biomarkers found in report, absent ones marked nil.
func (s *ExtractorService) Extract(ctx context.Context, report string) (domain.Extraction, error) {
	if strings.TrimSpace(report) == "" {
		return nil, fmt.Errorf("%w: empty lab report", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limit: %w", err)
	}

	logger.Debug("Extracting with %s (%d bytes of report)", s.llm.ModelName(), len(report))
	start := time.Now()

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.systemPrompt()},
		{Role: "user", Content: report},
	}
	raw, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("LLM request failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	logger.Elapsed("Model request", start)

	extraction, err := DecodeExtraction(raw)
	if err != nil {
		logger.Warn("Could not decode model output: %v", err)
		return nil, err
	}

	if missing := extraction.Missing(); len(missing) > 0 {
		logger.Info("Not found in report: %v", missing)
	}
	return extraction, nil
}

// ExtractAll extracts several reports with bounded concurrency.
// Results keep input order. The first failure cancels the remaining work.
func (s *ExtractorService) ExtractAll(ctx context.Context, reports []string) ([]domain.Extraction, error) {
	logger.Section("Batch Extraction")
	logger.Debug("Reports: %d, concurrency: %d, rate: %g/s",
		len(reports), s.config.Concurrency, s.config.RateLimit)

	results := make([]domain.Extraction, len(reports))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)

	for i, report := range reports {
		g.Go(func() error {
			extraction, err := s.Extract(gctx, report)
			if err != nil {
				return fmt.Errorf("report %d: %w", i+1, err)
			}
			results[i] = extraction
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// systemPrompt loads the extraction prompt, falling back to the built-in one.
func (s *ExtractorService) systemPrompt() string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(driven.PromptLabReportExtraction); err == nil && prompt != "" {
			return prompt
		}
	}
	return domain.DefaultExtractionPrompt()
}
